package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 游戏场景（游玩、结算等）
type Scene interface {
	// Update 按经过的秒数推进场景
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在退出时保存状态
//
// 实现此接口的场景会在窗口关闭或切换场景前被调用 SaveOnExit()。
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
