// Package utils 提供通用工具函数
package utils

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputState 存储当前帧的输入状态
// 用于统一处理鼠标、键盘和触摸输入
type InputState struct {
	// 所有活动触摸点（屏幕坐标）
	Touches []image.Point
	// 鼠标位置（屏幕坐标）
	CursorX, CursorY int
	// 当前按住的动作键/鼠标键数量
	PressedActions int
}

// ActionBindings 视为“动作”的按键与鼠标键
type ActionBindings struct {
	Keys    []ebiten.Key
	Buttons []ebiten.MouseButton
}

// DefaultActionBindings 默认动作：Z/X 与鼠标左右键
func DefaultActionBindings() ActionBindings {
	return ActionBindings{
		Keys:    []ebiten.Key{ebiten.KeyZ, ebiten.KeyX},
		Buttons: []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight},
	}
}

// ReadInputState 读取当前帧的输入状态
//
// touchBuf 用于复用触摸ID切片，可为 nil；返回的 InputState.Touches 每帧重新分配。
func ReadInputState(bindings ActionBindings, touchBuf []ebiten.TouchID) (InputState, []ebiten.TouchID) {
	state := InputState{}

	// 首先检查触摸输入（移动设备）
	touchBuf = ebiten.AppendTouchIDs(touchBuf[:0])
	if len(touchBuf) > 0 {
		state.Touches = make([]image.Point, 0, len(touchBuf))
		for _, id := range touchBuf {
			x, y := ebiten.TouchPosition(id)
			state.Touches = append(state.Touches, image.Pt(x, y))
		}
	}

	// 其次检查鼠标与键盘（桌面设备）
	state.CursorX, state.CursorY = ebiten.CursorPosition()
	for _, k := range bindings.Keys {
		if ebiten.IsKeyPressed(k) {
			state.PressedActions++
		}
	}
	for _, b := range bindings.Buttons {
		if ebiten.IsMouseButtonPressed(b) {
			state.PressedActions++
		}
	}

	return state, touchBuf
}
