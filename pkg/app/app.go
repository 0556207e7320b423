// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载判定配置与谱面、
// 准备持久化管理器，并把交互场景交给场景管理器驱动。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/game"
	"github.com/gonewx/sentakki/pkg/scenes"
	"github.com/gonewx/sentakki/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// JudgementConfigPath 磁盘上的判定配置，为空时使用嵌入的默认配置
	JudgementConfigPath string
	// PatternPath 嵌入资源中的谱面路径，为空时使用演示谱面
	PatternPath string
	// HistoryPath SQLite 历史记录文件，为空时不记录
	HistoryPath string
	// Difficulty 判定难度，小于 0 时使用已保存的设置
	Difficulty float64
	// AutoPlay 强制自动演奏（否则使用已保存的设置）
	AutoPlay bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	gameState                *game.GameState
	history                  *game.ScoreHistory
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	judgementCfg, err := loadJudgementConfig(cfg.JudgementConfigPath)
	if err != nil {
		return nil, fmt.Errorf("判定配置加载失败: %w", err)
	}

	gameState := game.GetGameState()
	settings := gameState.GetSettingsManager().GetSettings()

	difficulty := cfg.Difficulty
	if difficulty < 0 {
		difficulty = settings.Difficulty
	}

	var history *game.ScoreHistory
	if cfg.HistoryPath != "" {
		history, err = openHistory(cfg.HistoryPath)
		if err != nil {
			// 历史记录不是必需的
			log.Printf("[App] Warning: %v (history disabled)", err)
			history = nil
		}
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(patternPath string) (game.Scene, error) {
		pattern, err := config.LoadPatternConfig(patternPath)
		if err != nil {
			return nil, err
		}
		return scenes.NewPlayScene(scenes.SessionConfig{
			Judgement:           judgementCfg,
			Pattern:             pattern,
			Difficulty:          difficulty,
			AutoPlay:            cfg.AutoPlay || settings.AutoPlay,
			TrackingRadiusScale: settings.TrackingRadiusScale,
			PlaybackRate:        settings.PlaybackRate,
		}, gameState.GetStatsManager(), history)
	})

	patternPath := cfg.PatternPath
	if patternPath == "" {
		patternPath = config.DefaultPatternPath
	}
	if err := sceneManager.LoadPattern(patternPath); err != nil {
		if history != nil {
			history.Close()
		}
		return nil, err
	}

	if settings.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		gameState:    gameState,
		history:      history,
		verbose:      cfg.Verbose,
	}, nil
}

func openHistory(name string) (*game.ScoreHistory, error) {
	path, err := utils.ResolveDataPath(name)
	if err != nil {
		return nil, err
	}
	return game.OpenScoreHistory(path, "")
}

func loadJudgementConfig(path string) (*config.JudgementConfig, error) {
	if path != "" {
		log.Printf("[Config] 加载判定配置文件: %s", path)
		return config.LoadJudgementConfigFile(path)
	}
	log.Printf("[Config] 加载嵌入判定配置: %s", config.DefaultJudgementConfigPath)
	return config.LoadJudgementConfig(config.DefaultJudgementConfigPath)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(int(config.ScreenWidth), int(config.ScreenHeight))
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(config.ScreenWidth), int(config.ScreenHeight)
}

// Shutdown 保存当前场景与设置，关闭历史记录
func (a *App) Shutdown() {
	a.sceneManager.SaveCurrent()
	if err := a.gameState.SaveAll(); err != nil {
		log.Printf("[App] Warning: failed to save state: %v", err)
	}
	if a.history != nil {
		a.history.Close()
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
