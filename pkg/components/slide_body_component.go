package components

import (
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/geometry"
	"github.com/gonewx/sentakki/pkg/scoring"
)

// SlideEnvelope 星星在路径上移动的时间窗口（毫秒）
type SlideEnvelope struct {
	StartTime  float64 // 滑条开始时间（与星星头同时）
	Duration   float64 // 总移动时长（包含 ShootDelay）
	ShootDelay float64 // 星星出发前的停顿
}

// EndTime 滑条结束时间
func (e SlideEnvelope) EndTime() float64 {
	return e.StartTime + e.Duration
}

// NodeTime 计算路径进度对应的期望时间
//
//	StartTime + ShootDelay + (Duration - ShootDelay) × progress
func (e SlideEnvelope) NodeTime(progress float64) float64 {
	return e.StartTime + e.ShootDelay + (e.Duration-e.ShootDelay)*progress
}

// SlideBodyComponent 一条滑条路径（纯数据）
//
// Nodes 按 Index 顺序保存节点实体，创建后不再增删。
// Path 只读，由本体、节点和显示层共享。
type SlideBodyComponent struct {
	Path     *geometry.SlidePath
	Envelope SlideEnvelope
	Nodes    []ecs.EntityID
	Windows  *scoring.HitWindows

	// Auto 自动演奏：进度和判定完全由时钟驱动
	Auto bool
}

// SlideInfo 一条滑条路径的谱面数据
type SlideInfo struct {
	Path       *geometry.SlidePath
	Duration   float64
	ShootDelay float64
	EndLane    int // 相对星星头键位的终点偏移
}

// SlideComponent 滑条父物件：一个星星头 + 若干条路径
type SlideComponent struct {
	StartTime float64
	Infos     []SlideInfo
	Head      ecs.EntityID   // 星星头（Tap）
	Bodies    []ecs.EntityID // 与 Infos 一一对应
}

// Duration 所有路径中最长的时长，没有路径时为 0
func (s *SlideComponent) Duration() float64 {
	var d float64
	for _, info := range s.Infos {
		if info.Duration > d {
			d = info.Duration
		}
	}
	return d
}
