package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据谱面路径创建游玩场景，避免 game 包依赖 scenes 包
type SceneFactory func(patternPath string) (Scene, error)

// SceneManager 管理当前活动场景，同一时间只有一个场景被更新和绘制
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到新场景，旧场景如果实现了 Saveable 会先保存
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		sm.SaveCurrent()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadPattern 通过工厂函数加载谱面并切换场景
// 失败时保持当前场景不变
func (sm *SceneManager) LoadPattern(patternPath string) error {
	log.Printf("[SceneManager] 加载谱面: %s", patternPath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}
	scene, err := sm.sceneFactory(patternPath)
	if err != nil {
		return fmt.Errorf("failed to load pattern %s: %w", patternPath, err)
	}
	sm.SwitchTo(scene)
	log.Printf("[SceneManager] 成功切换到谱面: %s", patternPath)
	return nil
}

// SaveCurrent 保存当前场景（如果支持），返回是否成功
func (sm *SceneManager) SaveCurrent() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
