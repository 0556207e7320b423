package systems

import (
	"log"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/config"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/scoring"
)

// slideNode 一帧内判定所需的节点数据
type slideNode struct {
	id        ecs.EntityID
	node      *components.SlideNodeComponent
	startTime float64
	judgement *components.JudgementComponent
}

// SlideJudgementSystem 滑条节点判定状态机
//
// 职责：
//   - 时钟倒退时撤销晚于当前时间的判定；倒退到滑条开始之前时整体重置
//   - 按节点顺序检查玩家触发（悬停 + 按下，或连续进度越过节点）与超时
//   - 可判定门槛：第 i 个节点只有在 i < 2 或第 i-2 个节点已命中时才接受玩家触发
//   - 任意节点得到结果后，把同样的命中/失误向前传递给所有未判定的节点
//   - 节点全部有结果或本体窗口超时后，给出滑条本体的汇总结果
//
// 每个状态变化都推入事件队列，由游戏循环在本帧末尾统一分发。
type SlideJudgementSystem struct {
	entityManager *ecs.EntityManager
	clock         Clock
	input         SlideInputSource
	queue         *events.JudgementQueue

	// NodeRadius 节点的悬停半径
	NodeRadius float64

	nodes []slideNode // 复用的节点缓冲
}

// NewSlideJudgementSystem 创建节点判定系统
func NewSlideJudgementSystem(em *ecs.EntityManager, clock Clock, input SlideInputSource, queue *events.JudgementQueue) *SlideJudgementSystem {
	if input == nil {
		input = NoInput()
	}
	return &SlideJudgementSystem{
		entityManager: em,
		clock:         clock,
		input:         input,
		queue:         queue,
		NodeRadius:    config.SlideNodeRadius,
	}
}

// Update 判定所有滑条
func (s *SlideJudgementSystem) Update(deltaTime float64) {
	now := s.clock.CurrentTime()
	snap := s.input.Snapshot()

	entities := ecs.GetEntitiesWith2[*components.SlideBodyComponent, *components.JudgementComponent](s.entityManager)
	for _, id := range entities {
		s.updateBody(id, now, snap)
	}
}

func (s *SlideJudgementSystem) updateBody(bodyID ecs.EntityID, now float64, snap InputSnapshot) {
	body, _ := ecs.GetComponent[*components.SlideBodyComponent](s.entityManager, bodyID)
	bodyJudgement, _ := ecs.GetComponent[*components.JudgementComponent](s.entityManager, bodyID)
	progress, _ := ecs.GetComponent[*components.SlideProgressComponent](s.entityManager, bodyID)

	nodes := s.loadNodes(body)
	if len(nodes) == 0 {
		return
	}

	if now < body.Envelope.StartTime {
		s.resetBody(bodyID, bodyJudgement, progress, nodes, now)
		return
	}
	s.revertAfter(bodyID, body, bodyJudgement, progress, nodes, now)

	if bodyJudgement.HasResult {
		return
	}

	continuous := 0.0
	if progress != nil {
		continuous = progress.Progress
	}
	for i := range nodes {
		if nodes[i].judgement.HasResult {
			continue
		}
		userTriggered := !body.Auto && s.isTriggered(body, nodes[i], continuous, snap)
		s.checkNode(bodyID, body, nodes, i, userTriggered, now-nodes[i].startTime, now)
	}

	s.checkBody(bodyID, body, bodyJudgement, nodes, now)
}

// isTriggered 节点是否被玩家触发：连续进度越过节点，或接受的指针悬停在节点上
func (s *SlideJudgementSystem) isTriggered(body *components.SlideBodyComponent, n slideNode, continuous float64, snap InputSnapshot) bool {
	if continuous >= n.node.Progress {
		return true
	}
	return snap.Active() && snap.Accepts(body.Path.PositionAt(n.node.Progress), s.NodeRadius)
}

// checkNode 检查单个节点
//
// 参数:
//   - userTriggered: 本帧玩家是否触发了该节点
//   - timeOffset: 当前时间 - 节点期望时间
func (s *SlideJudgementSystem) checkNode(bodyID ecs.EntityID, body *components.SlideBodyComponent, nodes []slideNode, i int, userTriggered bool, timeOffset, now float64) {
	n := nodes[i]

	if !userTriggered {
		// 自动演奏永远不会失误
		if timeOffset > 0 && body.Auto {
			s.applyNode(bodyID, nodes, i, scoring.ResultPerfect, timeOffset, now)
			s.hitPreviousNodes(bodyID, nodes, i, true, now)
		}
		if n.node.IsTail && !body.Windows.CanBeHit(timeOffset) {
			result := scoring.ResultMiss
			if isHittable(nodes, i) {
				result = scoring.ResultGood
			}
			s.applyNode(bodyID, nodes, i, result, timeOffset, now)
			s.hitPreviousNodes(bodyID, nodes, i, false, now)
		}
		return
	}

	// 不可判定的触发被静默吸收
	if !isHittable(nodes, i) {
		return
	}

	result := scoring.ResultPerfect
	if n.node.IsTail {
		result = body.Windows.ResultFor(timeOffset)
		if result == scoring.ResultNone {
			result = scoring.ResultMeh
		}
	}

	s.applyNode(bodyID, nodes, i, result, timeOffset, now)
	s.hitPreviousNodes(bodyID, nodes, i, result.IsHit(), now)
}

// checkBody 汇总滑条本体结果
func (s *SlideJudgementSystem) checkBody(bodyID ecs.EntityID, body *components.SlideBodyComponent, judgement *components.JudgementComponent, nodes []slideNode, now float64) {
	timeOffset := now - body.Envelope.EndTime()

	if !allJudged(nodes) {
		if body.Windows.CanBeHit(timeOffset) {
			return
		}
		// 本体窗口已过：强制最后一个节点失误，保证所有节点都有结果
		// 尾节点与本体共用窗口和时间，正常情况下尾节点先超时；这里兜底尾节点缺失组件的情况
		last := len(nodes) - 1
		s.applyNode(bodyID, nodes, last, scoring.ResultMiss, now-nodes[last].startTime, now)
		s.hitPreviousNodes(bodyID, nodes, last, false, now)
		s.applyBody(bodyID, judgement, AggregateSlideResult(nodeJudgements(nodes)), false, timeOffset, now)
		return
	}

	// 所有节点都有结果，视为玩家触发
	result := AggregateSlideResult(nodeJudgements(nodes))
	if tail := nodes[len(nodes)-1].judgement; tail.IsHit() {
		result = tail.Type
	}
	s.applyBody(bodyID, judgement, result, true, timeOffset, now)
}

// AggregateSlideResult 节点未能自然完成时的汇总规则
//
// 非命中节点不超过 2 个且节点总数大于 2 时给 Meh，否则为最差结果。
func AggregateSlideResult(nodes []*components.JudgementComponent) scoring.HitResult {
	nonHit := 0
	for _, j := range nodes {
		if !j.IsHit() {
			nonHit++
		}
	}
	if nonHit <= 2 && len(nodes) > 2 {
		return scoring.ResultMeh
	}
	return scoring.MinResult
}

// hitPreviousNodes 把命中/失误传递给 i 之前所有未判定的节点
func (s *SlideJudgementSystem) hitPreviousNodes(bodyID ecs.EntityID, nodes []slideNode, i int, successful bool, now float64) {
	result := scoring.ResultMiss
	if successful {
		result = scoring.ResultPerfect
	}
	for j := 0; j < i; j++ {
		if !nodes[j].judgement.HasResult {
			s.applyNode(bodyID, nodes, j, result, now-nodes[j].startTime, now)
		}
	}
}

// applyNode 写入节点结果；已有结果时不做任何事
func (s *SlideJudgementSystem) applyNode(bodyID ecs.EntityID, nodes []slideNode, i int, result scoring.HitResult, timeOffset, now float64) bool {
	j := nodes[i].judgement
	if j.HasResult {
		return false
	}
	j.HasResult = true
	j.Type = result
	j.TimeAbsolute = now
	j.TimeOffset = timeOffset

	s.push(events.JudgementEvent{
		Kind:   events.KindNodeJudged,
		Body:   bodyID,
		Entity: nodes[i].id,
		Index:  i,
		Result: result,
		IsHit:  result.IsHit(),
		Time:   now,
	})
	return true
}

func (s *SlideJudgementSystem) applyBody(bodyID ecs.EntityID, j *components.JudgementComponent, result scoring.HitResult, userTriggered bool, timeOffset, now float64) {
	if j.HasResult {
		return
	}
	j.HasResult = true
	j.Type = result
	j.TimeAbsolute = now
	j.TimeOffset = timeOffset
	j.UserTriggered = userTriggered

	log.Printf("[SlideJudgementSystem] 滑条 %d 判定: %s (偏移 %.0fms, 玩家完成=%v)", bodyID, result, timeOffset, userTriggered)
	s.push(events.JudgementEvent{
		Kind:   events.KindSlideJudged,
		Body:   bodyID,
		Entity: bodyID,
		Index:  -1,
		Result: result,
		IsHit:  result.IsHit(),
		Time:   now,
		Break:  s.isBreak(bodyID),
	})
}

// revertAfter 撤销时间晚于 now 的判定（回放倒退）
func (s *SlideJudgementSystem) revertAfter(bodyID ecs.EntityID, body *components.SlideBodyComponent, bodyJudgement *components.JudgementComponent, progress *components.SlideProgressComponent, nodes []slideNode, now float64) {
	if bodyJudgement.HasResult && now < bodyJudgement.TimeAbsolute {
		s.revertBody(bodyID, bodyJudgement, now)
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		j := nodes[i].judgement
		if !j.HasResult || now >= j.TimeAbsolute {
			continue
		}
		s.revertNode(bodyID, nodes, i, now)
		// 实时输入的进度退回到前一个节点，避免立刻再次触发
		if progress != nil && !body.Auto {
			prev := 0.0
			if i > 0 {
				prev = nodes[i-1].node.Progress
			}
			if progress.Progress > prev {
				progress.Progress = prev
			}
		}
	}
}

// resetBody 倒退到滑条开始之前：撤销全部结果，进度归零
func (s *SlideJudgementSystem) resetBody(bodyID ecs.EntityID, bodyJudgement *components.JudgementComponent, progress *components.SlideProgressComponent, nodes []slideNode, now float64) {
	reset := false
	if bodyJudgement.HasResult {
		s.revertBody(bodyID, bodyJudgement, now)
		reset = true
	}
	for i := range nodes {
		if nodes[i].judgement.HasResult {
			s.revertNode(bodyID, nodes, i, now)
			reset = true
		}
	}
	if progress != nil {
		progress.Progress = 0
	}
	if reset {
		log.Printf("[SlideJudgementSystem] 滑条 %d 时钟倒退到开始之前，重置全部判定", bodyID)
	}
}

func (s *SlideJudgementSystem) revertNode(bodyID ecs.EntityID, nodes []slideNode, i int, now float64) {
	j := nodes[i].judgement
	previous := j.Type
	j.Reset()
	s.push(events.JudgementEvent{
		Kind:   events.KindNodeReverted,
		Body:   bodyID,
		Entity: nodes[i].id,
		Index:  i,
		Result: previous,
		IsHit:  previous.IsHit(),
		Time:   now,
	})
}

func (s *SlideJudgementSystem) revertBody(bodyID ecs.EntityID, j *components.JudgementComponent, now float64) {
	previous := j.Type
	j.Reset()
	log.Printf("[SlideJudgementSystem] 滑条 %d 撤销判定 %s", bodyID, previous)
	s.push(events.JudgementEvent{
		Kind:   events.KindSlideReverted,
		Body:   bodyID,
		Entity: bodyID,
		Index:  -1,
		Result: previous,
		IsHit:  previous.IsHit(),
		Time:   now,
		Break:  s.isBreak(bodyID),
	})
}

func (s *SlideJudgementSystem) push(e events.JudgementEvent) {
	if s.queue != nil {
		s.queue.Push(e)
	}
}

func (s *SlideJudgementSystem) isBreak(bodyID ecs.EntityID) bool {
	lane, ok := ecs.GetComponent[*components.LaneComponent](s.entityManager, bodyID)
	return ok && lane.Break
}

// loadNodes 按下标顺序收集节点，缺少组件的节点会被跳过
func (s *SlideJudgementSystem) loadNodes(body *components.SlideBodyComponent) []slideNode {
	s.nodes = s.nodes[:0]
	for _, id := range body.Nodes {
		node, ok1 := ecs.GetComponent[*components.SlideNodeComponent](s.entityManager, id)
		hit, ok2 := ecs.GetComponent[*components.HitObjectComponent](s.entityManager, id)
		judgement, ok3 := ecs.GetComponent[*components.JudgementComponent](s.entityManager, id)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		s.nodes = append(s.nodes, slideNode{id: id, node: node, startTime: hit.StartTime, judgement: judgement})
	}
	return s.nodes
}

// isHittable 第 i 个节点是否可被玩家判定
func isHittable(nodes []slideNode, i int) bool {
	return i < 2 || nodes[i-2].judgement.IsHit()
}

func allJudged(nodes []slideNode) bool {
	for _, n := range nodes {
		if !n.judgement.HasResult {
			return false
		}
	}
	return true
}

func nodeJudgements(nodes []slideNode) []*components.JudgementComponent {
	out := make([]*components.JudgementComponent, len(nodes))
	for i, n := range nodes {
		out[i] = n.judgement
	}
	return out
}
