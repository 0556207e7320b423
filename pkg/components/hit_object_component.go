package components

import (
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/types"
)

// HitObjectComponent 打击物件的公共数据（纯数据，无方法）
// 每个参与判定的实体（滑条本体、节点、星星头）都带有此组件
type HitObjectComponent struct {
	Kind      types.HitObjectKind
	StartTime float64      // 期望判定时间（毫秒，游戏时钟）
	Parent    ecs.EntityID // 父物件实体ID，0 表示顶层物件
}
