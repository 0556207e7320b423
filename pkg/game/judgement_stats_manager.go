package game

import (
	"fmt"
	"log"

	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/scoring"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// JudgementStats 累计的滑条判定统计
type JudgementStats struct {
	Results      map[string]int `yaml:"results"`      // 判定结果名 -> 次数
	BreakResults map[string]int `yaml:"breakResults"` // 绝赞滑条的判定结果
	TotalSlides  int            `yaml:"totalSlides"`
}

func newJudgementStats() *JudgementStats {
	return &JudgementStats{
		Results:      make(map[string]int),
		BreakResults: make(map[string]int),
	}
}

// Count 指定结果的次数
func (s *JudgementStats) Count(result scoring.HitResult) int {
	return s.Results[result.String()]
}

// BreakCount 绝赞滑条指定结果的次数
func (s *JudgementStats) BreakCount(result scoring.HitResult) int {
	return s.BreakResults[result.String()]
}

// HitRate 命中率（0 ~ 1），没有数据时返回 0
func (s *JudgementStats) HitRate() float64 {
	if s.TotalSlides == 0 {
		return 0
	}
	hits := 0
	for r := scoring.MinResult; r <= scoring.MaxResult; r++ {
		if r.IsHit() {
			hits += s.Count(r)
		}
	}
	return float64(hits) / float64(s.TotalSlides)
}

// JudgementStatsManager 滑条判定统计管理器
//
// 作为判定结果接收者挂到事件分发器上：本体判定时计数，撤销时扣回。
// 与 SettingsManager 相同，gdataManager 为 nil 时只在内存中统计。
type JudgementStatsManager struct {
	gdataManager *gdata.Manager
	stats        *JudgementStats
}

const (
	statsObject   = "stats"
	statsProperty = "judgements"
)

// NewJudgementStatsManager 创建统计管理器并加载已保存的统计
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
func NewJudgementStatsManager(gdataManager *gdata.Manager) *JudgementStatsManager {
	m := &JudgementStatsManager{
		gdataManager: gdataManager,
		stats:        newJudgementStats(),
	}
	if err := m.Load(); err != nil {
		log.Printf("[JudgementStatsManager] Warning: Failed to load stats: %v (starting empty)", err)
	}
	return m
}

// OnSlideJudged 记录一次本体判定
func (m *JudgementStatsManager) OnSlideJudged(e events.JudgementEvent) {
	name := e.Result.String()
	m.stats.Results[name]++
	if e.Break {
		m.stats.BreakResults[name]++
	}
	m.stats.TotalSlides++
}

// OnSlideReverted 扣回被撤销的判定
func (m *JudgementStatsManager) OnSlideReverted(e events.JudgementEvent) {
	name := e.Result.String()
	if m.stats.Results[name] == 0 {
		return
	}
	m.stats.Results[name]--
	if e.Break && m.stats.BreakResults[name] > 0 {
		m.stats.BreakResults[name]--
	}
	m.stats.TotalSlides--
}

// GetStats 当前统计
func (m *JudgementStatsManager) GetStats() *JudgementStats {
	return m.stats
}

// Reset 清空统计（不会自动保存）
func (m *JudgementStatsManager) Reset() {
	m.stats = newJudgementStats()
}

// Load 从 gdata 加载统计
func (m *JudgementStatsManager) Load() error {
	m.stats = newJudgementStats()
	if m.gdataManager == nil || !m.gdataManager.ObjectPropExists(statsObject, statsProperty) {
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(statsObject, statsProperty)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	loaded := newJudgementStats()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	if loaded.Results == nil {
		loaded.Results = make(map[string]int)
	}
	if loaded.BreakResults == nil {
		loaded.BreakResults = make(map[string]int)
	}
	m.stats = loaded
	return nil
}

// Save 保存统计到 gdata，降级模式下直接返回 nil
func (m *JudgementStatsManager) Save() error {
	if m.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(m.stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(statsObject, statsProperty, data); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	log.Printf("[JudgementStatsManager] Stats saved (%d slides)", m.stats.TotalSlides)
	return nil
}
