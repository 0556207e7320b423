package scenes

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/game"
	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/gonewx/sentakki/pkg/systems"
	"github.com/gonewx/sentakki/pkg/utils"
)

// seekStep 方向键一次跳转的时间（毫秒）
const seekStep = 2000

// PlayScene 交互式滑条场景
//
// 操作：
//   - 鼠标悬停 + Z/X 或鼠标按键，或直接触摸：沿路径跟踪星星
//   - Space 暂停 / 继续
//   - ←/→ 后退 / 前进 2 秒（后退会撤销之后的判定）
//   - R 从头开始（移动端结束后轻触屏幕）
type PlayScene struct {
	session  *SlideSession
	renderer *systems.SlideRenderSystem
	stats    *game.JudgementStatsManager
	history  *game.ScoreHistory

	finished bool
	lastNode string
}

// NewPlayScene 创建交互场景
//
// 参数：
//   - cfg: 会话参数，Input 为 nil 时使用 Ebitengine 输入
//   - stats: 统计接收者，可为 nil
//   - history: 历史记录接收者，可为 nil
func NewPlayScene(cfg SessionConfig, stats *game.JudgementStatsManager, history *game.ScoreHistory) (*PlayScene, error) {
	if cfg.Input == nil {
		cfg.Input = systems.NewEbitenSlideInput()
	}
	if stats != nil {
		cfg.Sinks = append(cfg.Sinks, stats)
	}
	if history != nil {
		cfg.Sinks = append(cfg.Sinks, history)
	}

	session, err := NewSlideSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create play scene: %w", err)
	}

	scene := &PlayScene{
		session:  session,
		renderer: systems.NewSlideRenderSystem(session.EntityManager, session.Clock),
		stats:    stats,
		history:  history,
	}
	session.Dispatcher.OnNodeEvent = func(e events.JudgementEvent) {
		scene.lastNode = fmt.Sprintf("slide %d node %d: %s %s", e.Body, e.Index, e.Kind, e.Result)
	}
	return scene, nil
}

// Update 处理快捷键并推进会话
func (s *PlayScene) Update(deltaTime float64) {
	clock := s.session.Clock
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if clock.IsPaused() {
			clock.Resume()
		} else {
			clock.Pause()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		s.session.Seek(clock.CurrentTime() - seekStep)
		s.finished = false
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		s.session.Seek(clock.CurrentTime() + seekStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyR), s.finished && utils.IsMobile() && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0:
		s.session.Restart()
		s.finished = false
		log.Printf("[PlayScene] 重新开始")
	}

	s.session.Tick(deltaTime)

	if !s.finished && s.session.Finished() {
		s.finished = true
		log.Printf("[PlayScene] 谱面结束")
		s.SaveOnExit()
	}
}

// Draw 绘制滑条与状态文字
func (s *PlayScene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(screen)

	var b strings.Builder
	fmt.Fprintf(&b, "time %.0fms  x%.2f", s.session.Clock.CurrentTime(), s.session.Clock.Rate())
	if s.session.Clock.IsPaused() {
		b.WriteString("  [paused]")
	}
	if s.stats != nil {
		st := s.stats.GetStats()
		fmt.Fprintf(&b, "\nslides %d  hit %.0f%%", st.TotalSlides, st.HitRate()*100)
		for r := scoring.MaxResult; r >= scoring.MinResult; r-- {
			fmt.Fprintf(&b, "\n%-8s %d", r, st.Count(r))
		}
	}
	if s.lastNode != "" {
		b.WriteString("\n" + s.lastNode)
	}
	if s.finished {
		if utils.IsMobile() {
			b.WriteString("\n-- finished, tap to restart --")
		} else {
			b.WriteString("\n-- finished, R to restart --")
		}
	}
	ebitenutil.DebugPrint(screen, b.String())
}

// SaveOnExit 实现 game.Saveable，保存统计
func (s *PlayScene) SaveOnExit() bool {
	if s.stats == nil {
		return true
	}
	if err := s.stats.Save(); err != nil {
		log.Printf("[PlayScene] Warning: failed to save stats: %v", err)
		return false
	}
	return true
}

// Session 返回底层会话
func (s *PlayScene) Session() *SlideSession {
	return s.session
}
