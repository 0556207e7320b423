package components

import "github.com/gonewx/sentakki/pkg/scoring"

// JudgementComponent 判定结果（节点与滑条本体共用）
//
// 第一次尝试判定时才写入结果；结果一旦写入就不可修改，
// 只能由回退（时钟倒退到 TimeAbsolute 之前）整体撤销。
type JudgementComponent struct {
	HasResult    bool
	Type         scoring.HitResult
	TimeAbsolute float64 // 写入结果时的游戏时钟（毫秒）
	TimeOffset   float64 // 写入结果时相对期望时间的偏移（毫秒）

	// UserTriggered 仅对滑条本体有意义：所有节点都有结果时视为玩家触发
	UserTriggered bool
}

// IsHit 是否已判定且为命中
func (j *JudgementComponent) IsHit() bool {
	return j.HasResult && j.Type.IsHit()
}

// Reset 撤销结果，回到未判定状态
func (j *JudgementComponent) Reset() {
	*j = JudgementComponent{}
}
