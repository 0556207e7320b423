package systems

import (
	"math"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/events"
)

// SlideVisualSystem 滑条进度显示同步系统
//
// 判定与撤销事件只标记 PendingUpdate；填充值每次都从当前节点状态重新计算：
//   - 已命中节点所在段填满，失误节点所在段为空
//   - 前一个节点已命中的未判定段，按距离前一节点命中的时间比例填充
//   - 第一个未判定段同时参考连续进度，取两者较大值
//
// 因此事件到达顺序不影响最终显示。
type SlideVisualSystem struct {
	entityManager *ecs.EntityManager
	clock         Clock
}

// NewSlideVisualSystem 创建进度显示系统
func NewSlideVisualSystem(em *ecs.EntityManager, clock Clock) *SlideVisualSystem {
	return &SlideVisualSystem{
		entityManager: em,
		clock:         clock,
	}
}

// HandleEvent 节点或本体状态变化时标记需要重算
func (s *SlideVisualSystem) HandleEvent(e events.JudgementEvent) {
	if visual, ok := ecs.GetComponent[*components.SlideVisualComponent](s.entityManager, e.Body); ok {
		visual.PendingUpdate = true
	}
}

// Update 重算所有待更新滑条的填充
func (s *SlideVisualSystem) Update(deltaTime float64) {
	now := s.clock.CurrentTime()

	entities := ecs.GetEntitiesWith2[*components.SlideBodyComponent, *components.SlideVisualComponent](s.entityManager)
	for _, id := range entities {
		visual, _ := ecs.GetComponent[*components.SlideVisualComponent](s.entityManager, id)
		if !visual.PendingUpdate && !visual.Animating {
			continue
		}
		body, _ := ecs.GetComponent[*components.SlideBodyComponent](s.entityManager, id)
		s.recompute(id, body, visual, now)
	}
}

func (s *SlideVisualSystem) recompute(bodyID ecs.EntityID, body *components.SlideBodyComponent, visual *components.SlideVisualComponent, now float64) {
	continuous := 0.0
	if p, ok := ecs.GetComponent[*components.SlideProgressComponent](s.entityManager, bodyID); ok {
		continuous = p.Progress
	}
	bodyJudged := false
	if j, ok := ecs.GetComponent[*components.JudgementComponent](s.entityManager, bodyID); ok {
		bodyJudged = j.HasResult
	}

	animating := false
	firstUnjudged := true
	visual.Fill = 0

	for k := range visual.Segments {
		seg := &visual.Segments[k]
		seg.Fill = 0

		j, startTime, ok := s.nodeState(body, seg.NodeIndex)
		switch {
		case !ok:
		case j.HasResult:
			if j.IsHit() {
				seg.Fill = 1
			}
		default:
			if k > 0 {
				if prev, prevStart, ok := s.nodeState(body, seg.NodeIndex-1); ok && prev.IsHit() {
					span := startTime - prevStart
					ratio := 1.0
					if span > 0 {
						ratio = clamp01((now - prev.TimeAbsolute) / span)
					}
					seg.Fill = ratio
					if ratio < 1 {
						animating = true
					}
				}
			}
			if firstUnjudged {
				firstUnjudged = false
				if width := seg.EndProgress - seg.StartProgress; width > 0 {
					seg.Fill = math.Max(seg.Fill, clamp01((continuous-seg.StartProgress)/width))
				}
				if !bodyJudged {
					animating = true
				}
			}
		}

		if seg.Fill > 0 {
			visual.Fill = math.Max(visual.Fill, seg.StartProgress+(seg.EndProgress-seg.StartProgress)*seg.Fill)
		}
		applyChevronAlpha(visual, seg)
	}

	visual.PendingUpdate = false
	visual.Animating = animating
}

// applyChevronAlpha 段内被划过的箭头淡出
func applyChevronAlpha(visual *components.SlideVisualComponent, seg *components.SlideSegment) {
	left := float64(seg.ChevronCount) * seg.Fill
	for c := seg.FirstChevron; c < seg.FirstChevron+seg.ChevronCount; c++ {
		given := math.Min(left, 1)
		left -= given
		visual.Chevrons[c].Alpha = 1 - given
	}
}

func (s *SlideVisualSystem) nodeState(body *components.SlideBodyComponent, index int) (*components.JudgementComponent, float64, bool) {
	if index < 0 || index >= len(body.Nodes) {
		return nil, 0, false
	}
	id := body.Nodes[index]
	j, ok1 := ecs.GetComponent[*components.JudgementComponent](s.entityManager, id)
	hit, ok2 := ecs.GetComponent[*components.HitObjectComponent](s.entityManager, id)
	if !ok1 || !ok2 {
		return nil, 0, false
	}
	return j, hit.StartTime, true
}

// JudgementSink 接收滑条本体的最终结果（计分、统计、历史记录）
type JudgementSink interface {
	OnSlideJudged(e events.JudgementEvent)
	OnSlideReverted(e events.JudgementEvent)
}

// JudgementDispatcher 每帧取出事件队列并分发给显示系统与结果接收者
type JudgementDispatcher struct {
	queue  *events.JudgementQueue
	visual *SlideVisualSystem
	sinks  []JudgementSink

	// OnNodeEvent 节点事件的可选观察者（调试输出、音效）
	OnNodeEvent func(e events.JudgementEvent)
}

// NewJudgementDispatcher 创建事件分发器，visual 可为 nil
func NewJudgementDispatcher(queue *events.JudgementQueue, visual *SlideVisualSystem, sinks ...JudgementSink) *JudgementDispatcher {
	return &JudgementDispatcher{queue: queue, visual: visual, sinks: sinks}
}

// AddSink 追加一个结果接收者
func (d *JudgementDispatcher) AddSink(sink JudgementSink) {
	d.sinks = append(d.sinks, sink)
}

// Update 分发本帧所有事件，返回分发数量
func (d *JudgementDispatcher) Update(deltaTime float64) int {
	return d.queue.Drain(d.dispatch)
}

func (d *JudgementDispatcher) dispatch(e events.JudgementEvent) {
	if d.visual != nil {
		d.visual.HandleEvent(e)
	}
	switch e.Kind {
	case events.KindNodeJudged, events.KindNodeReverted:
		if d.OnNodeEvent != nil {
			d.OnNodeEvent(e)
		}
	case events.KindSlideJudged:
		for _, sink := range d.sinks {
			sink.OnSlideJudged(e)
		}
	case events.KindSlideReverted:
		for _, sink := range d.sinks {
			sink.OnSlideReverted(e)
		}
	}
}
