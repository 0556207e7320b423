package scenes

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/entities"
	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/game"
	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/gonewx/sentakki/pkg/systems"
)

// SessionConfig 创建滑条会话所需的参数
type SessionConfig struct {
	Judgement *config.JudgementConfig // 为 nil 时使用默认配置
	Pattern   *config.PatternConfig   // 必填

	Difficulty          float64
	AutoPlay            bool
	TrackingRadiusScale float64 // 0 视为 1
	PlaybackRate        float64 // 0 视为 1

	Input systems.SlideInputSource // 为 nil 时没有任何输入
	Sinks []systems.JudgementSink
}

// SlideSession 一次滑条游玩的全部状态：实体、时钟、系统与事件分发
//
// 不依赖窗口，既用于交互场景，也用于命令行的无界面检查。
// 每帧 Tick 的顺序固定：时钟 → 进度 → 判定 → 事件分发 → 显示。
type SlideSession struct {
	EntityManager *ecs.EntityManager
	Clock         *game.GameplayClock
	Queue         *events.JudgementQueue

	Progress   *systems.SlideProgressSystem
	Judgement  *systems.SlideJudgementSystem
	Visual     *systems.SlideVisualSystem
	Dispatcher *systems.JudgementDispatcher

	Pattern *config.PatternConfig
	Slides  []ecs.EntityID

	missWindow float64 // 所有难度下最宽的 Miss 窗口
}

// NewSlideSession 按谱面创建会话，时钟从最早的滑条前 LeadIn 毫秒开始
func NewSlideSession(cfg SessionConfig) (*SlideSession, error) {
	if cfg.Pattern == nil {
		return nil, fmt.Errorf("session needs a pattern")
	}
	judgementCfg := cfg.Judgement
	if judgementCfg == nil {
		judgementCfg = config.DefaultJudgementConfig()
	}
	ranges, err := judgementCfg.SlideRanges()
	if err != nil {
		return nil, fmt.Errorf("invalid slide windows: %w", err)
	}
	scale := cfg.TrackingRadiusScale
	if scale <= 0 {
		scale = 1
	}

	em := ecs.NewEntityManager()
	clock := game.NewGameplayClock(cfg.Pattern.StartTime() - cfg.Pattern.LeadIn)
	if cfg.PlaybackRate > 0 {
		clock.SetRate(cfg.PlaybackRate)
	}
	queue := events.NewJudgementQueue()

	progress := systems.NewSlideProgressSystem(em, clock, cfg.Input)
	progress.TrackingRadius = judgementCfg.Slide.TrackingRadius * scale
	progress.TrackingStep = judgementCfg.Slide.TrackingStep

	judgement := systems.NewSlideJudgementSystem(em, clock, cfg.Input, queue)
	judgement.NodeRadius = judgementCfg.Slide.NodeRadius * scale

	visual := systems.NewSlideVisualSystem(em, clock)
	dispatcher := systems.NewJudgementDispatcher(queue, visual, cfg.Sinks...)

	slides, err := entities.SpawnPattern(em, cfg.Pattern, entities.SlideOptions{
		Difficulty:      cfg.Difficulty,
		Ranges:          ranges,
		Auto:            cfg.AutoPlay,
		ChevronDistance: judgementCfg.Slide.ChevronDistance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to spawn pattern: %w", err)
	}

	log.Printf("[SlideSession] 会话就绪: 谱面=%q, 难度=%.1f, 自动=%v, 开始时间=%.0fms",
		cfg.Pattern.Name, cfg.Difficulty, cfg.AutoPlay, clock.CurrentTime())

	return &SlideSession{
		EntityManager: em,
		Clock:         clock,
		Queue:         queue,
		Progress:      progress,
		Judgement:     judgement,
		Visual:        visual,
		Dispatcher:    dispatcher,
		Pattern:       cfg.Pattern,
		Slides:        slides,
		missWindow:    widestWindow(ranges),
	}, nil
}

// Tick 推进一帧
func (s *SlideSession) Tick(deltaTime float64) {
	s.Clock.Advance(deltaTime)
	s.Step(deltaTime)
}

// Step 在当前时钟下运行一次所有系统（不推进时钟）
func (s *SlideSession) Step(deltaTime float64) {
	s.Progress.Update(deltaTime)
	s.Judgement.Update(deltaTime)
	s.Dispatcher.Update(deltaTime)
	s.Visual.Update(deltaTime)
}

// Seek 跳转到指定时间并立即刷新一次状态
// 向后跳转时，晚于新时间的判定会被撤销
func (s *SlideSession) Seek(time float64) {
	s.Clock.Seek(time)
	s.Step(0)
}

// Restart 回到谱面开头
func (s *SlideSession) Restart() {
	s.Seek(s.Pattern.StartTime() - s.Pattern.LeadIn)
}

// EndTime 所有滑条都必然已判定的时间（最晚结束时间加最宽的窗口）
func (s *SlideSession) EndTime() float64 {
	return s.Pattern.EndTime() + s.missWindow
}

// Finished 时钟是否已越过 EndTime
func (s *SlideSession) Finished() bool {
	return s.Clock.CurrentTime() > s.EndTime()
}

func widestWindow(ranges []scoring.DifficultyRange) float64 {
	widest := 0.0
	for _, r := range ranges {
		widest = math.Max(widest, math.Max(r.Min, math.Max(r.Average, r.Max)))
	}
	return widest
}
