package game

import (
	"fmt"
	"log"

	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 全局游戏设置
type GameSettings struct {
	// 判定设置
	Difficulty          float64 `yaml:"difficulty"`          // 判定难度 0 ~ 10
	AutoPlay            bool    `yaml:"autoPlay"`            // 自动演奏
	TrackingRadiusScale float64 `yaml:"trackingRadiusScale"` // 跟踪半径倍率 0.5 ~ 2.0

	// 回放设置
	PlaybackRate float64 `yaml:"playbackRate"` // 播放倍速 0.5 ~ 2.0

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Difficulty:          scoring.MidDifficulty,
		AutoPlay:            false,
		TrackingRadiusScale: 1.0,
		PlaybackRate:        1.0,
		Fullscreen:          false,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 目前总是 nil，加载失败只记录日志
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置；
// 超出范围的字段会被修正。
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上反序列化，旧版本存档缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	sm.SetDifficulty(loaded.Difficulty)
	sm.SetTrackingRadiusScale(loaded.TrackingRadiusScale)
	sm.SetPlaybackRate(loaded.PlaybackRate)
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetDifficulty 设置判定难度，限制在 0 ~ 10
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDifficulty(difficulty float64) {
	sm.settings.Difficulty = clampRange(difficulty, scoring.MinDifficulty, scoring.MaxDifficulty)
}

// SetAutoPlay 设置自动演奏开关
func (sm *SettingsManager) SetAutoPlay(enabled bool) {
	sm.settings.AutoPlay = enabled
}

// SetTrackingRadiusScale 设置跟踪半径倍率，限制在 0.5 ~ 2.0
func (sm *SettingsManager) SetTrackingRadiusScale(scale float64) {
	sm.settings.TrackingRadiusScale = clampRange(scale, 0.5, 2.0)
}

// SetPlaybackRate 设置播放倍速，限制在 0.5 ~ 2.0
func (sm *SettingsManager) SetPlaybackRate(rate float64) {
	sm.settings.PlaybackRate = clampRange(rate, 0.5, 2.0)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampRange 将值限制在 [lo, hi]，NaN 视为 lo
func clampRange(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
