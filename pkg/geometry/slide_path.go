package geometry

import (
	"fmt"
	"math"
	"sort"

	"honnef.co/go/curve"
)

// PathType 路径段的曲线类型
type PathType uint8

const (
	// PathLinear 折线：依次连接控制点
	PathLinear PathType = iota
	// PathBezier 贝塞尔曲线：2~4 个控制点分别对应直线、二次、三次贝塞尔
	PathBezier
	// PathArc 圆弧：绕 Center 从 StartAngle 转过 Sweep 度
	PathArc
)

// String 返回路径类型的字符串表示
func (p PathType) String() string {
	switch p {
	case PathLinear:
		return "Linear"
	case PathBezier:
		return "Bezier"
	case PathArc:
		return "Arc"
	default:
		return "Unknown"
	}
}

const (
	// arclenAccuracy 弧长计算与反解的精度（游戏区单位）
	arclenAccuracy = 1e-4
	// maxArcPieceDegrees 圆弧拆成三次贝塞尔时每段的最大角度
	maxArcPieceDegrees = 90.0
)

// PathSegment 路径段定义
type PathSegment struct {
	Type   PathType
	Points []Vector2 // Linear/Bezier 的控制点（包含起点）

	// 仅 PathArc 使用
	Center     Vector2
	Radius     float64
	StartAngle float64 // 起始角度（度）
	Sweep      float64 // 转过的角度（度），正值顺时针
}

// pathCurve 路径使用的曲线原语：求值、弧长、按弧长反解参数
type pathCurve interface {
	Eval(t float64) curve.Point
	Arclen(accuracy float64) float64
	InvArclen(arclen, accuracy float64) float64
}

// piece 路径中的一段曲线及其在整条路径上的起始弧长
type piece struct {
	c      pathCurve
	start  float64
	length float64
}

// SlidePath 不可变的滑条路径
//
// 每段路径转换为 curve 的直线或贝塞尔曲线，并缓存各段的起始弧长。
// PositionAt 按弧长参数化，即 t=0.5 永远落在路径长度的一半处。
// 创建后只读，可被滑条本体、所有节点与视觉层共享。
type SlidePath struct {
	pieces   []piece
	starts   []float64 // starts[i] = pieces[i].start，用于二分查找
	origin   Vector2
	end      Vector2
	distance float64
}

// NewSlidePath 根据路径段创建滑条路径
// 参数:
//   - segments: 至少一段；相邻段首尾不会自动连接，调用方负责保证连续
//
// 返回:
//   - *SlidePath: 路径（长度可能为 0，调用方需处理退化情况）
//   - error: 段定义非法时返回错误
func NewSlidePath(segments ...PathSegment) (*SlidePath, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("slide path requires at least one segment")
	}

	var curves []pathCurve
	var origin, end Vector2
	for i, seg := range segments {
		cs, first, last, err := segmentCurves(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		if i == 0 {
			origin = first
		}
		end = last
		curves = append(curves, cs...)
	}

	p := &SlidePath{origin: origin, end: end}
	for _, c := range curves {
		length := c.Arclen(arclenAccuracy)
		if length <= 0 {
			continue
		}
		p.pieces = append(p.pieces, piece{c: c, start: p.distance, length: length})
		p.starts = append(p.starts, p.distance)
		p.distance += length
	}
	return p, nil
}

// NewLinePath 创建一条直线路径
func NewLinePath(from, to Vector2) *SlidePath {
	p, _ := NewSlidePath(PathSegment{Type: PathLinear, Points: []Vector2{from, to}})
	return p
}

// NewArcPath 创建一条圆弧路径
func NewArcPath(center Vector2, radius, startAngle, sweep float64) *SlidePath {
	p, _ := NewSlidePath(PathSegment{
		Type:       PathArc,
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		Sweep:      sweep,
	})
	return p
}

// Distance 路径总长度
func (p *SlidePath) Distance() float64 {
	return p.distance
}

// PositionAt 返回进度 t 处的位置
// t 会被限制在 [0, 1]；长度为 0 的路径始终返回起点
func (p *SlidePath) PositionAt(t float64) Vector2 {
	if t <= 0 || p.distance == 0 {
		return p.origin
	}
	if t >= 1 {
		return p.end
	}

	target := t * p.distance
	// 最后一个起始弧长 <= target 的段
	i := sort.Search(len(p.starts), func(i int) bool { return p.starts[i] > target }) - 1
	if i < 0 {
		i = 0
	}
	pc := p.pieces[i]
	local := math.Min(target-pc.start, pc.length)
	return fromPoint(pc.c.Eval(pc.c.InvArclen(local, arclenAccuracy)))
}

// AngleAt 返回进度 t 处的行进方向（度），用于星星与箭头的朝向
func (p *SlidePath) AngleAt(t float64) float64 {
	return p.PositionAt(t - 0.001).DegreesTo(p.PositionAt(t + 0.001))
}

// segmentCurves 把一段路径转换为曲线原语，同时返回该段的起点与终点
func segmentCurves(seg PathSegment) ([]pathCurve, Vector2, Vector2, error) {
	switch seg.Type {
	case PathLinear:
		if len(seg.Points) < 1 {
			return nil, Vector2{}, Vector2{}, fmt.Errorf("linear segment requires at least 1 point")
		}
		out := make([]pathCurve, 0, len(seg.Points)-1)
		for i := 1; i < len(seg.Points); i++ {
			out = append(out, curve.Line{P0: seg.Points[i-1].point(), P1: seg.Points[i].point()})
		}
		return out, seg.Points[0], seg.Points[len(seg.Points)-1], nil

	case PathBezier:
		pts := seg.Points
		var c pathCurve
		switch len(pts) {
		case 2:
			c = curve.Line{P0: pts[0].point(), P1: pts[1].point()}
		case 3:
			c = curve.QuadBez{P0: pts[0].point(), P1: pts[1].point(), P2: pts[2].point()}
		case 4:
			c = curve.CubicBez{P0: pts[0].point(), P1: pts[1].point(), P2: pts[2].point(), P3: pts[3].point()}
		default:
			return nil, Vector2{}, Vector2{}, fmt.Errorf("bezier segment requires 2 to 4 points, got %d", len(pts))
		}
		return []pathCurve{c}, pts[0], pts[len(pts)-1], nil

	case PathArc:
		if seg.Radius < 0 {
			return nil, Vector2{}, Vector2{}, fmt.Errorf("arc radius cannot be negative, got %.2f", seg.Radius)
		}
		first := seg.Center.Add(CircularPosition(seg.Radius, seg.StartAngle))
		last := seg.Center.Add(CircularPosition(seg.Radius, seg.StartAngle+seg.Sweep))
		return arcCubics(seg), first, last, nil
	}
	return nil, Vector2{}, Vector2{}, fmt.Errorf("unknown path type %d", seg.Type)
}

// arcCubics 用三次贝塞尔近似圆弧，每段不超过 maxArcPieceDegrees
//
// 控制点沿切线偏移 k = 4/3·tan(θ/4)·r，90° 时半径误差约 0.03%。
func arcCubics(seg PathSegment) []pathCurve {
	n := int(math.Ceil(math.Abs(seg.Sweep) / maxArcPieceDegrees))
	if n < 1 {
		n = 1
	}
	step := seg.Sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step*math.Pi/180/4) * seg.Radius

	out := make([]pathCurve, 0, n)
	for i := 0; i < n; i++ {
		a0 := seg.StartAngle + step*float64(i)
		a1 := a0 + step
		p0 := seg.Center.Add(CircularPosition(seg.Radius, a0))
		p3 := seg.Center.Add(CircularPosition(seg.Radius, a1))
		// 顺时针（角度增大）方向的切线比 CircularPosition 超前 90°
		p1 := p0.Add(CircularPosition(k, a0+90))
		p2 := p3.Sub(CircularPosition(k, a1+90))
		out = append(out, curve.CubicBez{P0: p0.point(), P1: p1.point(), P2: p2.point(), P3: p3.point()})
	}
	return out
}
