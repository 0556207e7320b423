package entities

import (
	"fmt"

	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/geometry"
	"github.com/gonewx/sentakki/pkg/types"
)

// LanePosition 返回键位在判定圈上的位置
func LanePosition(lane int) geometry.Vector2 {
	return geometry.CircularPosition(config.RingRadius, config.LaneAngle(types.NormalizeLane(lane)))
}

// NewLaneSlidePath 创建从 startLane 出发、终点相对偏移 endOffset 个键位的路径
//
// 路径使用判定圈坐标（圆心为原点），可以直接与输入位置比较。
// 参数：
//
//	shape - 路径形状
//	startLane - 起点键位
//	endOffset - 终点键位偏移，会被规范到 [0, 8)
//
// 返回：
//
//	*geometry.SlidePath - 路径
//	error - 形状未知，或形状与偏移组合无效（例如起终点相同的直线）
func NewLaneSlidePath(shape types.SlideShape, startLane, endOffset int) (*geometry.SlidePath, error) {
	end := types.NormalizeLane(endOffset)
	from := LanePosition(startLane)
	to := LanePosition(startLane + end)

	switch shape {
	case types.SlideShapeStraight:
		if end == 0 {
			return nil, fmt.Errorf("straight slide cannot end on its start lane")
		}
		return geometry.NewLinePath(from, to), nil

	case types.SlideShapeCircle, types.SlideShapeCircleReverse:
		steps := end
		if steps == 0 {
			steps = types.LaneCount
		}
		sweep := float64(steps) * config.LaneAngleStep
		if shape == types.SlideShapeCircleReverse {
			sweep = -float64(types.LaneCount-end) * config.LaneAngleStep
			if end == 0 {
				sweep = -float64(types.LaneCount) * config.LaneAngleStep
			}
		}
		return geometry.NewArcPath(geometry.Vector2{}, config.RingRadius, config.LaneAngle(types.NormalizeLane(startLane)), sweep), nil

	case types.SlideShapeV:
		if end == 0 || end == types.LaneCount/2 {
			return nil, fmt.Errorf("v slide cannot end on lane offset %d", end)
		}
		return geometry.NewSlidePath(geometry.PathSegment{
			Type:   geometry.PathLinear,
			Points: []geometry.Vector2{from, {}, to},
		})

	default:
		return nil, fmt.Errorf("unsupported slide shape: %v", shape)
	}
}
