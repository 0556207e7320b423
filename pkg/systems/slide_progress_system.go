package systems

import (
	"math"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/utils"
)

// Clock 游戏时钟（毫秒），回放或拖动进度条时可能倒退
type Clock interface {
	CurrentTime() float64
}

// SlideProgressSystem 滑条进度跟踪系统
//
// 职责：
//   - 自动演奏：进度完全由时钟决定
//   - 实时输入：指针靠近当前进度处的路径点且有按下的输入时，按固定步长推进进度，
//     同一帧内反复检测直到不再满足条件
//   - 更新星星的位置、朝向与出现动画
type SlideProgressSystem struct {
	entityManager *ecs.EntityManager
	clock         Clock
	input         SlideInputSource

	// TrackingRadius 指针与目标点的最大距离
	TrackingRadius float64
	// TrackingStep 每次推进的进度步长
	TrackingStep float64
}

// NewSlideProgressSystem 创建进度跟踪系统
func NewSlideProgressSystem(em *ecs.EntityManager, clock Clock, input SlideInputSource) *SlideProgressSystem {
	if input == nil {
		input = NoInput()
	}
	return &SlideProgressSystem{
		entityManager:  em,
		clock:          clock,
		input:          input,
		TrackingRadius: config.SlideTrackingRadius,
		TrackingStep:   config.SlideTrackingStep,
	}
}

// Update 推进所有滑条的连续进度
func (s *SlideProgressSystem) Update(deltaTime float64) {
	now := s.clock.CurrentTime()
	snap := s.input.Snapshot()

	entities := ecs.GetEntitiesWith2[*components.SlideBodyComponent, *components.SlideProgressComponent](s.entityManager)
	for _, id := range entities {
		body, _ := ecs.GetComponent[*components.SlideBodyComponent](s.entityManager, id)
		progress, _ := ecs.GetComponent[*components.SlideProgressComponent](s.entityManager, id)
		judgement, _ := ecs.GetComponent[*components.JudgementComponent](s.entityManager, id)

		if now < body.Envelope.StartTime {
			progress.Progress = 0
		} else if body.Auto {
			progress.Progress = AutoProgress(body.Envelope, now)
		} else if judgement == nil || !judgement.HasResult {
			progress.Progress = s.track(body, progress.Progress, snap)
		}

		if star, ok := ecs.GetComponent[*components.SlideStarComponent](s.entityManager, id); ok {
			updateStar(star, body, judgement, now)
		}
	}
}

// track 实时输入模式下推进进度
func (s *SlideProgressSystem) track(body *components.SlideBodyComponent, progress float64, snap InputSnapshot) float64 {
	if !snap.Active() || s.TrackingStep <= 0 {
		return progress
	}
	for progress < 1 && snap.Accepts(body.Path.PositionAt(progress), s.TrackingRadius) {
		progress = math.Min(1, progress+s.TrackingStep)
	}
	return progress
}

// AutoProgress 自动演奏时的进度
//
//	clamp01((now - StartTime - ShootDelay) / (Duration - ShootDelay))
func AutoProgress(env components.SlideEnvelope, now float64) float64 {
	travel := env.Duration - env.ShootDelay
	elapsed := now - env.StartTime - env.ShootDelay
	if travel <= 0 {
		if elapsed >= 0 {
			return 1
		}
		return 0
	}
	return clamp01(elapsed / travel)
}

// updateStar 星星按时间沿路径移动，判定命中后隐藏
func updateStar(star *components.SlideStarComponent, body *components.SlideBodyComponent, judgement *components.JudgementComponent, now float64) {
	appear := body.Envelope.StartTime - config.StarFadeInLead
	if now < appear || (judgement != nil && judgement.IsHit()) {
		star.Visible = false
		star.Scale = 0
		return
	}

	p := AutoProgress(body.Envelope, now)
	pos := body.Path.PositionAt(p)
	star.Visible = true
	star.Scale = utils.EaseOutCubic(clamp01((now - appear) / (2 * config.StarFadeInLead)))
	star.X, star.Y = pos.X, pos.Y
	star.Rotation = body.Path.PositionAt(p - config.StarRotationDelta).DegreesTo(body.Path.PositionAt(p + config.StarRotationDelta))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
