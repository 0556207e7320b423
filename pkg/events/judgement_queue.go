// Package events 判定事件队列
//
// 判定系统在 Update 中推入事件，游戏循环每帧统一取出一次分发。
// 同一帧内的事件顺序不作保证，消费者必须从当前状态重新计算，不能依赖事件顺序。
package events

import (
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/scoring"
)

// Kind 事件类型
type Kind int

const (
	// KindNodeJudged 节点得到判定结果
	KindNodeJudged Kind = iota
	// KindNodeReverted 节点判定被撤销（时钟回退）
	KindNodeReverted
	// KindSlideJudged 滑条本体得到汇总结果
	KindSlideJudged
	// KindSlideReverted 滑条本体汇总结果被撤销
	KindSlideReverted
)

// String 返回事件类型的字符串表示
func (k Kind) String() string {
	switch k {
	case KindNodeJudged:
		return "NodeJudged"
	case KindNodeReverted:
		return "NodeReverted"
	case KindSlideJudged:
		return "SlideJudged"
	case KindSlideReverted:
		return "SlideReverted"
	default:
		return "Unknown"
	}
}

// JudgementEvent 一次判定状态变化
type JudgementEvent struct {
	Kind   Kind
	Body   ecs.EntityID // 所属滑条本体
	Entity ecs.EntityID // 节点事件为节点实体，本体事件等于 Body
	Index  int          // 节点下标，本体事件为 -1
	Result scoring.HitResult
	IsHit  bool
	Time   float64 // 发生时的游戏时钟（毫秒）
	Break  bool    // 本体事件：是否为绝赞滑条
}

// JudgementQueue 单线程事件队列
type JudgementQueue struct {
	pending []JudgementEvent
	spare   []JudgementEvent
}

// NewJudgementQueue 创建事件队列
func NewJudgementQueue() *JudgementQueue {
	return &JudgementQueue{}
}

// Push 追加一个事件
func (q *JudgementQueue) Push(e JudgementEvent) {
	q.pending = append(q.pending, e)
}

// Len 待处理事件数量
func (q *JudgementQueue) Len() int {
	return len(q.pending)
}

// Drain 取出当前所有事件并依次交给 handle
//
// handle 中推入的新事件留到下一次 Drain 处理。
// 返回处理的事件数量。
func (q *JudgementQueue) Drain(handle func(JudgementEvent)) int {
	batch := q.pending
	q.pending = q.spare[:0]
	for _, e := range batch {
		handle(e)
	}
	q.spare = batch[:0]
	return len(batch)
}
