package systems

import (
	"testing"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/ecs"
	"github.com/gonewx/sentakki/pkg/entities"
	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/geometry"
)

// 测试滑条的时间窗口：1000ms 开始，100ms 出发延迟，2100ms 结束
const (
	testSlideStart      = 1000.0
	testSlideDuration   = 1100.0
	testSlideShootDelay = 100.0
	testSlideEnd        = testSlideStart + testSlideDuration
	// 难度 5 时滑条 Miss 窗口
	testMissWindow = 720.0
)

// fakeClock 可手动拨动的时钟
type fakeClock struct {
	now float64
}

func (c *fakeClock) CurrentTime() float64 { return c.now }

// mockSlideInput 用于测试的 mock 输入
type mockSlideInput struct {
	snap InputSnapshot
}

func (m *mockSlideInput) Snapshot() InputSnapshot { return m.snap }

// hover 鼠标停在 pos 并按住一个动作键
func (m *mockSlideInput) hover(pos geometry.Vector2) {
	m.snap = InputSnapshot{Cursor: pos, PressedActions: 1}
}

func (m *mockSlideInput) release() {
	m.snap = InputSnapshot{}
}

// slideWorld 一条水平直线滑条及其全部系统
type slideWorld struct {
	em       *ecs.EntityManager
	clock    *fakeClock
	input    *mockSlideInput
	queue    *events.JudgementQueue
	progress *SlideProgressSystem
	judge    *SlideJudgementSystem
	visual   *SlideVisualSystem
	dispatch *JudgementDispatcher
	bodyID   ecs.EntityID
}

// newSlideWorld 创建长度为 length 的水平滑条（起点为原点，向右）
func newSlideWorld(t *testing.T, length float64, auto bool) *slideWorld {
	t.Helper()

	w := &slideWorld{
		em:    ecs.NewEntityManager(),
		clock: &fakeClock{},
		input: &mockSlideInput{},
		queue: events.NewJudgementQueue(),
	}
	info := components.SlideInfo{
		Path:       geometry.NewLinePath(geometry.Vector2{}, geometry.Vector2{X: length}),
		Duration:   testSlideDuration,
		ShootDelay: testSlideShootDelay,
	}
	bodyID, err := entities.NewSlideBodyEntity(w.em, 0, testSlideStart, info, entities.SlideOptions{
		Difficulty: 5,
		Auto:       auto,
	})
	if err != nil {
		t.Fatalf("NewSlideBodyEntity error: %v", err)
	}
	w.bodyID = bodyID

	w.progress = NewSlideProgressSystem(w.em, w.clock, w.input)
	w.judge = NewSlideJudgementSystem(w.em, w.clock, w.input, w.queue)
	w.visual = NewSlideVisualSystem(w.em, w.clock)
	w.dispatch = NewJudgementDispatcher(w.queue, w.visual)
	return w
}

// tick 按游戏循环的顺序运行一帧
func (w *slideWorld) tick(now float64) {
	w.clock.now = now
	w.progress.Update(0)
	w.judge.Update(0)
	w.dispatch.Update(0)
	w.visual.Update(0)
}

// judgeOnly 只运行判定系统，不分发事件
func (w *slideWorld) judgeOnly(now float64) {
	w.clock.now = now
	w.judge.Update(0)
}

func (w *slideWorld) body() *components.SlideBodyComponent {
	b, _ := ecs.GetComponent[*components.SlideBodyComponent](w.em, w.bodyID)
	return b
}

func (w *slideWorld) bodyJudgement() *components.JudgementComponent {
	j, _ := ecs.GetComponent[*components.JudgementComponent](w.em, w.bodyID)
	return j
}

func (w *slideWorld) nodeJudgement(i int) *components.JudgementComponent {
	j, _ := ecs.GetComponent[*components.JudgementComponent](w.em, w.body().Nodes[i])
	return j
}

func (w *slideWorld) nodeCount() int {
	return len(w.body().Nodes)
}

// nodePosition 节点在路径上的位置
func (w *slideWorld) nodePosition(i int) geometry.Vector2 {
	n, _ := ecs.GetComponent[*components.SlideNodeComponent](w.em, w.body().Nodes[i])
	return w.body().Path.PositionAt(n.Progress)
}

func (w *slideWorld) nodeProgress(i int) float64 {
	n, _ := ecs.GetComponent[*components.SlideNodeComponent](w.em, w.body().Nodes[i])
	return n.Progress
}

func (w *slideWorld) visualState() *components.SlideVisualComponent {
	v, _ := ecs.GetComponent[*components.SlideVisualComponent](w.em, w.bodyID)
	return v
}

func (w *slideWorld) progressValue() float64 {
	p, _ := ecs.GetComponent[*components.SlideProgressComponent](w.em, w.bodyID)
	return p.Progress
}

// drainKinds 取出队列中所有事件的类型
func (w *slideWorld) drainKinds() []events.Kind {
	var kinds []events.Kind
	w.queue.Drain(func(e events.JudgementEvent) { kinds = append(kinds, e.Kind) })
	return kinds
}

// nodeStart 节点的期望时间
func (w *slideWorld) nodeStart(i int) (float64, bool) {
	hit, ok := ecs.GetComponent[*components.HitObjectComponent](w.em, w.body().Nodes[i])
	if !ok {
		return 0, false
	}
	return hit.StartTime, true
}
