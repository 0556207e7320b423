package components

import "github.com/gonewx/sentakki/pkg/geometry"

// SlideChevron 路径上的装饰箭头，不参与判定
type SlideChevron struct {
	Position geometry.Vector2
	Rotation float64 // 度
	Hidden   bool    // 转角过大时隐藏
	Alpha    float64 // 0 表示已被划过
}

// SlideSegment 以一个判定节点结尾的一段箭头
type SlideSegment struct {
	NodeIndex     int     // 段尾节点
	FirstChevron  int     // 在 Chevrons 中的起始下标
	ChevronCount  int     // 段内箭头数量
	StartProgress float64 // 段起点进度（前一个节点的进度，第一段为 0）
	EndProgress   float64 // 段终点进度（节点进度）
	Fill          float64 // 段内填充比例 0.0 ~ 1.0
}

// SlideVisualComponent 滑条进度显示状态
//
// 这里的数据都是派生值，任何时候都可以从节点判定状态、连续进度和时钟重新算出。
// 判定/撤销事件只负责置 PendingUpdate，不直接修改填充。
type SlideVisualComponent struct {
	Chevrons []SlideChevron
	Segments []SlideSegment

	// Fill 已填充到的路径进度
	Fill float64

	PendingUpdate bool
	// Animating 上次计算时存在按时间或连续进度变化的段，需要每帧重算
	Animating bool
}
