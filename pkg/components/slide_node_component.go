package components

import "github.com/gonewx/sentakki/pkg/ecs"

// SlideNodeComponent 滑条路径上的判定节点（纯数据）
//
// 节点在滑条创建时一次性生成，Index 在创建后固定不变。
// StartTime = 滑条开始时间 + ShootDelay + (Duration - ShootDelay) × Progress
type SlideNodeComponent struct {
	Body     ecs.EntityID // 所属滑条本体
	Index    int          // 在节点序列中的位置
	Progress float64      // 在路径上的进度 (0, 1]
	IsTail   bool         // 是否为尾节点（Progress == 1）
}
