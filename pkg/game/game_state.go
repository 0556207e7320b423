package game

import (
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "sentakki"

// GameState 存储全局游戏状态
// 这是一个单例，持有跨场景共享的持久化管理器
type GameState struct {
	gdataManager    *gdata.Manager // 可为 nil（受限环境下降级为仅内存）
	settingsManager *SettingsManager
	statsManager    *JudgementStatsManager
}

// 全局单例实例
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 使用延迟初始化模式，gdata 打开失败时以降级模式运行
func GetGameState() *GameState {
	if globalGameState == nil {
		manager, err := gdata.Open(gdata.Config{AppName: AppName})
		if err != nil {
			log.Printf("[GameState] Warning: gdata unavailable: %v (settings and stats are memory only)", err)
			manager = nil
		}
		globalGameState = NewGameState(manager)
	}
	return globalGameState
}

// NewGameState 使用给定的存储管理器创建状态（测试与嵌入场景使用）
func NewGameState(manager *gdata.Manager) *GameState {
	settingsManager, _ := NewSettingsManager(manager)
	return &GameState{
		gdataManager:    manager,
		settingsManager: settingsManager,
		statsManager:    NewJudgementStatsManager(manager),
	}
}

// GetGdataManager 返回 gdata 管理器，可能为 nil
func (gs *GameState) GetGdataManager() *gdata.Manager {
	return gs.gdataManager
}

// GetSettingsManager 返回设置管理器
func (gs *GameState) GetSettingsManager() *SettingsManager {
	return gs.settingsManager
}

// GetStatsManager 返回判定统计管理器
func (gs *GameState) GetStatsManager() *JudgementStatsManager {
	return gs.statsManager
}

// SaveAll 保存设置与统计，返回遇到的第一个错误
func (gs *GameState) SaveAll() error {
	if err := gs.settingsManager.Save(); err != nil {
		return err
	}
	return gs.statsManager.Save()
}
