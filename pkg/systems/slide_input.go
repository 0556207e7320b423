package systems

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/geometry"
	"github.com/gonewx/sentakki/pkg/utils"
)

// InputSnapshot 一帧的输入快照（判定区坐标）
type InputSnapshot struct {
	TouchPoints    []geometry.Vector2 // 所有活动触摸点
	Cursor         geometry.Vector2   // 鼠标悬停位置
	PressedActions int                // 按住的动作键数量
}

// Active 是否存在有效输入（任意触摸或按住的动作键）
func (s InputSnapshot) Active() bool {
	return len(s.TouchPoints) > 0 || s.PressedActions > 0
}

// Accepts 是否有被接受的指针位于 target 的 radius 范围内
//
// 有触摸时检查所有触摸点（第一个命中即可）；
// 没有触摸时使用鼠标悬停位置，并要求至少按住一个动作键。
func (s InputSnapshot) Accepts(target geometry.Vector2, radius float64) bool {
	if len(s.TouchPoints) > 0 {
		for _, p := range s.TouchPoints {
			if p.DistanceTo(target) <= radius {
				return true
			}
		}
		return false
	}
	return s.PressedActions > 0 && s.Cursor.DistanceTo(target) <= radius
}

// SlideInputSource 滑条系统输入接口
// 用于依赖注入，支持测试时 mock
type SlideInputSource interface {
	Snapshot() InputSnapshot
}

// EbitenSlideInput Ebitengine 默认实现，每帧读取触摸、鼠标与动作键
type EbitenSlideInput struct {
	Bindings utils.ActionBindings

	touchBuf []ebiten.TouchID
}

// NewEbitenSlideInput 创建使用默认按键绑定的输入源
func NewEbitenSlideInput() *EbitenSlideInput {
	return &EbitenSlideInput{Bindings: utils.DefaultActionBindings()}
}

// Snapshot 读取当前帧输入并转换为判定区坐标
func (e *EbitenSlideInput) Snapshot() InputSnapshot {
	var state utils.InputState
	state, e.touchBuf = utils.ReadInputState(e.Bindings, e.touchBuf)

	snap := InputSnapshot{
		PressedActions: state.PressedActions,
	}
	for _, p := range state.Touches {
		x, y := utils.ScreenToPlayfield(float64(p.X), float64(p.Y), config.ScreenWidth, config.ScreenHeight)
		snap.TouchPoints = append(snap.TouchPoints, geometry.Vector2{X: x, Y: y})
	}
	cx, cy := utils.ScreenToPlayfield(float64(state.CursorX), float64(state.CursorY), config.ScreenWidth, config.ScreenHeight)
	snap.Cursor = geometry.Vector2{X: cx, Y: cy}
	return snap
}

// noInput 没有任何输入的输入源（自动演奏与无头运行）
type noInput struct{}

func (noInput) Snapshot() InputSnapshot { return InputSnapshot{} }

// NoInput 返回一个永远没有输入的输入源
func NoInput() SlideInputSource { return noInput{} }
