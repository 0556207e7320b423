package systems

import (
	"testing"

	"github.com/gonewx/sentakki/pkg/components"
	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/scoring"
)

// 长度 600 的滑条：24 个检查点 → 节点在 5/10/15/20 与尾部，共 5 个
const fiveNodeLength = 600.0

// 长度 300 的滑条：12 个检查点 → 节点在 5 与尾部，共 2 个
const twoNodeLength = 300.0

func TestSlideJudgement_NodeCounts(t *testing.T) {
	if n := newSlideWorld(t, fiveNodeLength, false).nodeCount(); n != 5 {
		t.Errorf("600 length slide has %d nodes, want 5", n)
	}
	if n := newSlideWorld(t, twoNodeLength, false).nodeCount(); n != 2 {
		t.Errorf("300 length slide has %d nodes, want 2", n)
	}
}

func TestSlideJudgement_HoverCascadesToEarlierNodes(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	w.input.hover(w.nodePosition(1))
	w.judgeOnly(testSlideStart + 10)

	for i := 0; i < 2; i++ {
		if j := w.nodeJudgement(i); !j.HasResult || j.Type != scoring.ResultPerfect {
			t.Errorf("node %d = %+v, want Perfect", i, j)
		}
	}
	for i := 2; i < w.nodeCount(); i++ {
		if w.nodeJudgement(i).HasResult {
			t.Errorf("node %d should still be unjudged", i)
		}
	}

	kinds := w.drainKinds()
	if len(kinds) != 2 || kinds[0] != events.KindNodeJudged || kinds[1] != events.KindNodeJudged {
		t.Errorf("events = %v, want two NodeJudged", kinds)
	}
}

func TestSlideJudgement_CascadeCoversAllEarlierNodes(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	// 按 0 → 2 → 4 的顺序触发，每次只跳过一个节点
	for _, i := range []int{0, 2, 4} {
		w.input.hover(w.nodePosition(i))
		w.judgeOnly(testSlideStart + 100*float64(i+1))

		for k := 0; k <= i; k++ {
			if !w.nodeJudgement(k).HasResult {
				t.Fatalf("after triggering node %d, node %d has no result", i, k)
			}
		}
	}
}

func TestSlideJudgement_HittabilityGate(t *testing.T) {
	for i := 2; i < 5; i++ {
		w := newSlideWorld(t, fiveNodeLength, false)

		w.input.hover(w.nodePosition(i))
		w.judgeOnly(testSlideStart + 10)

		for k := 0; k < w.nodeCount(); k++ {
			if w.nodeJudgement(k).HasResult {
				t.Errorf("triggering unhittable node %d judged node %d", i, k)
			}
		}
		if w.queue.Len() != 0 {
			t.Errorf("triggering unhittable node %d emitted %d events", i, w.queue.Len())
		}
	}

	// node 0 命中后 node 2 变为可判定，并带上 node 1
	w := newSlideWorld(t, fiveNodeLength, false)
	w.input.hover(w.nodePosition(0))
	w.judgeOnly(testSlideStart + 10)
	w.input.hover(w.nodePosition(2))
	w.judgeOnly(testSlideStart + 20)

	for k := 0; k < 3; k++ {
		if !w.nodeJudgement(k).IsHit() {
			t.Errorf("node %d should be hit", k)
		}
	}
	if w.nodeJudgement(3).HasResult {
		t.Error("node 3 should be untouched")
	}
}

func TestSlideJudgement_InputBeforeStartIgnored(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	w.input.hover(w.nodePosition(0))
	w.judgeOnly(testSlideStart - 1)

	if w.nodeJudgement(0).HasResult {
		t.Error("node judged before the slide started")
	}
}

func TestSlideJudgement_TailTimingWindows(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		expected scoring.HitResult
	}{
		{"提前400ms为Great", -400, scoring.ResultGreat},
		{"正点为Perfect", 0, scoring.ResultPerfect},
		{"提前超出窗口退化为Meh", -1090, scoring.ResultMeh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSlideWorld(t, twoNodeLength, false)

			w.input.hover(w.nodePosition(1))
			w.judgeOnly(testSlideEnd + tt.offset)

			tail := w.nodeJudgement(1)
			if tail.Type != tt.expected {
				t.Errorf("tail = %s, want %s", tail.Type, tt.expected)
			}
			if !w.nodeJudgement(0).IsHit() {
				t.Error("node 0 should be hit by cascade")
			}

			body := w.bodyJudgement()
			if !body.HasResult || body.Type != tt.expected || !body.UserTriggered {
				t.Errorf("body = %+v, want user triggered %s", body, tt.expected)
			}
		})
	}
}

func TestSlideJudgement_NoInputAllMiss(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	for now := testSlideStart - 200; now <= testSlideEnd+testMissWindow; now += 16 {
		w.tick(now)
	}
	w.tick(testSlideEnd + testMissWindow)
	for i := 0; i < w.nodeCount(); i++ {
		if w.nodeJudgement(i).HasResult {
			t.Fatalf("node %d judged while the tail window is still open", i)
		}
	}

	w.tick(testSlideEnd + testMissWindow + 1)

	for i := 0; i < w.nodeCount(); i++ {
		if j := w.nodeJudgement(i); !j.HasResult || j.Type != scoring.ResultMiss {
			t.Errorf("node %d = %+v, want Miss", i, j)
		}
	}
	body := w.bodyJudgement()
	if !body.HasResult || body.Type != scoring.MinResult {
		t.Errorf("body = %+v, want worst grade", body)
	}
	if w.progressValue() != 0 {
		t.Errorf("progress = %v, want 0 without input", w.progressValue())
	}
}

func TestSlideJudgement_ShortSlideTailTimeoutIsLenient(t *testing.T) {
	w := newSlideWorld(t, twoNodeLength, false)

	w.judgeOnly(testSlideEnd + testMissWindow + 1)

	// 尾节点下标 < 2 始终可判定，超时给 Good；前面的节点失误
	if j := w.nodeJudgement(1); j.Type != scoring.ResultGood {
		t.Errorf("tail = %s, want Good", j.Type)
	}
	if j := w.nodeJudgement(0); j.Type != scoring.ResultMiss {
		t.Errorf("node 0 = %s, want Miss", j.Type)
	}
	if j := w.bodyJudgement(); j.Type != scoring.ResultGood {
		t.Errorf("body = %s, want tail result Good", j.Type)
	}
}

func TestSlideJudgement_TimeoutIsIdempotent(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	w.judgeOnly(testSlideEnd + testMissWindow + 1)
	w.queue.Drain(func(events.JudgementEvent) {})

	tail := *w.nodeJudgement(4)
	body := *w.bodyJudgement()

	w.judgeOnly(testSlideEnd + testMissWindow + 50)
	w.judgeOnly(testSlideEnd + testMissWindow + 100)

	b := w.body()
	nodes := w.judge.loadNodes(b)
	w.judge.checkNode(w.bodyID, b, nodes, 4, false, 2000, testSlideEnd+2000)
	w.judge.checkNode(w.bodyID, b, nodes, 4, true, 0, testSlideEnd)

	if *w.nodeJudgement(4) != tail {
		t.Errorf("tail changed: %+v -> %+v", tail, *w.nodeJudgement(4))
	}
	if *w.bodyJudgement() != body {
		t.Errorf("body changed: %+v -> %+v", body, *w.bodyJudgement())
	}
	if w.queue.Len() != 0 {
		t.Errorf("repeated timeout emitted %d events", w.queue.Len())
	}
}

func TestSlideJudgement_AutoPlayNeverMisses(t *testing.T) {
	t.Run("一帧跳到尾部窗口之后10ms", func(t *testing.T) {
		w := newSlideWorld(t, fiveNodeLength, true)

		w.tick(testSlideEnd + testMissWindow + 10)

		for i := 0; i < w.nodeCount(); i++ {
			if j := w.nodeJudgement(i); j.Type != scoring.MaxResult {
				t.Errorf("node %d = %s, want %s", i, j.Type, scoring.MaxResult)
			}
		}
		if j := w.bodyJudgement(); j.Type != scoring.MaxResult {
			t.Errorf("body = %s, want %s", j.Type, scoring.MaxResult)
		}
	})

	t.Run("逐帧推进", func(t *testing.T) {
		w := newSlideWorld(t, fiveNodeLength, true)

		for now := testSlideStart - 100; now <= testSlideEnd+100; now += 16 {
			w.tick(now)
		}

		for i := 0; i < w.nodeCount(); i++ {
			j := w.nodeJudgement(i)
			if j.Type != scoring.ResultPerfect {
				t.Errorf("node %d = %s, want Perfect", i, j.Type)
			}
			start, _ := w.nodeStart(i)
			if j.TimeAbsolute <= start {
				t.Errorf("node %d judged at %v, before its time %v", i, j.TimeAbsolute, start)
			}
		}
		if w.progressValue() != 1 {
			t.Errorf("auto progress = %v, want 1", w.progressValue())
		}
		if v := w.visualState(); v.Fill != 1 {
			t.Errorf("visual fill = %v, want 1", v.Fill)
		}
	})
}

func TestSlideJudgement_LiveFollowingStar(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	for now := testSlideStart; now <= testSlideEnd+100; now += 16 {
		p := AutoProgress(w.body().Envelope, now)
		w.input.hover(w.body().Path.PositionAt(p))
		w.tick(now)
	}

	for i := 0; i < w.nodeCount(); i++ {
		if !w.nodeJudgement(i).IsHit() {
			t.Errorf("node %d should be hit when following the star", i)
		}
	}
	body := w.bodyJudgement()
	if body.Type != scoring.ResultPerfect || !body.UserTriggered {
		t.Errorf("body = %+v, want user triggered Perfect", body)
	}
}

func TestSlideJudgement_ParentWindowExpiry(t *testing.T) {
	tests := []struct {
		name     string
		hit      int // 预先命中前几个节点
		expected scoring.HitResult
	}{
		{"5个节点中2个未命中为Meh", 3, scoring.ResultMeh},
		{"5个节点中4个未命中为Miss", 1, scoring.ResultMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSlideWorld(t, fiveNodeLength, false)
			for i := 0; i < tt.hit; i++ {
				*w.nodeJudgement(i) = components.JudgementComponent{
					HasResult:    true,
					Type:         scoring.ResultPerfect,
					TimeAbsolute: testSlideStart + 100,
				}
			}

			b := w.body()
			w.judge.checkBody(w.bodyID, b, w.bodyJudgement(), w.judge.loadNodes(b), testSlideEnd+testMissWindow+1)

			last := w.nodeJudgement(w.nodeCount() - 1)
			if last.Type != scoring.ResultMiss {
				t.Errorf("last node = %s, want forced Miss", last.Type)
			}
			for i := 0; i < w.nodeCount(); i++ {
				if !w.nodeJudgement(i).HasResult {
					t.Errorf("node %d has no result after parent expiry", i)
				}
			}
			body := w.bodyJudgement()
			if body.Type != tt.expected || body.UserTriggered {
				t.Errorf("body = %+v, want %s without user trigger", body, tt.expected)
			}
		})
	}
}

// 通过正常的帧更新走到宽松汇总：前三个节点命中后提前 650ms 触发尾节点，
// 尾节点落在 Good 与 Miss 窗口之间判为 Miss，节点 3 随之失误，本体得到 Meh
func TestSlideJudgement_EarlyTailMissGivesLenientBody(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)
	judgeFirstThree(t, w)

	w.input.hover(w.nodePosition(4))
	w.tick(testSlideEnd - 650)

	if tail := w.nodeJudgement(4); tail.Type != scoring.ResultMiss {
		t.Errorf("tail = %s, want Miss", tail.Type)
	}
	if n3 := w.nodeJudgement(3); !n3.HasResult || n3.Type != scoring.ResultMiss {
		t.Errorf("node 3 = %+v, want cascaded Miss", n3)
	}
	for i := 0; i < 3; i++ {
		if !w.nodeJudgement(i).IsHit() {
			t.Errorf("node %d should stay hit", i)
		}
	}

	body := w.bodyJudgement()
	if !body.HasResult || body.Type != scoring.ResultMeh || !body.UserTriggered {
		t.Errorf("body = %+v, want user triggered Meh", body)
	}
}

func TestAggregateSlideResult(t *testing.T) {
	mk := func(results ...scoring.HitResult) []*components.JudgementComponent {
		out := make([]*components.JudgementComponent, len(results))
		for i, r := range results {
			out[i] = &components.JudgementComponent{HasResult: true, Type: r}
		}
		return out
	}
	P, M := scoring.ResultPerfect, scoring.ResultMiss

	tests := []struct {
		name     string
		nodes    []*components.JudgementComponent
		expected scoring.HitResult
	}{
		{"5个中2个未命中", mk(P, P, P, M, M), scoring.ResultMeh},
		{"5个中3个未命中", mk(P, P, M, M, M), scoring.ResultMiss},
		{"3个中1个未命中", mk(P, P, M), scoring.ResultMeh},
		{"2个节点不满足数量要求", mk(P, M), scoring.ResultMiss},
		{"1个节点", mk(M), scoring.ResultMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateSlideResult(tt.nodes); got != tt.expected {
				t.Errorf("AggregateSlideResult() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestSlideJudgement_RewindRevertsLaterResults(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, true)

	for now := testSlideStart; now <= testSlideEnd+50; now += 16 {
		w.tick(now)
	}
	if !w.bodyJudgement().HasResult {
		t.Fatal("auto slide should be judged")
	}

	// 倒退到 node 1 与 node 2 的判定时间之间
	t1 := w.nodeJudgement(1).TimeAbsolute
	t2 := w.nodeJudgement(2).TimeAbsolute
	rewind := (t1 + t2) / 2
	w.clock.now = rewind
	w.judge.Update(0)

	reverted := 0
	var bodyReverted bool
	w.queue.Drain(func(e events.JudgementEvent) {
		switch e.Kind {
		case events.KindNodeReverted:
			reverted++
		case events.KindSlideReverted:
			bodyReverted = true
		}
	})

	if reverted != 3 || !bodyReverted {
		t.Errorf("reverted %d nodes (body %v), want 3 nodes and the body", reverted, bodyReverted)
	}
	if !w.nodeJudgement(0).HasResult || !w.nodeJudgement(1).HasResult {
		t.Error("nodes judged before the rewind point must be kept")
	}
	for i := 2; i < w.nodeCount(); i++ {
		if w.nodeJudgement(i).HasResult {
			t.Errorf("node %d should be reverted", i)
		}
	}
	if w.bodyJudgement().HasResult {
		t.Error("body should be reverted")
	}
}

func TestSlideJudgement_RewindBeforeStartResetsEverything(t *testing.T) {
	w := newSlideWorld(t, fiveNodeLength, false)

	w.input.hover(w.nodePosition(1))
	w.tick(testSlideStart + 10)
	w.input.hover(w.body().Path.PositionAt(0))
	w.tick(testSlideStart + 20)
	if w.progressValue() == 0 {
		t.Fatal("progress should have advanced")
	}

	w.input.release()
	w.tick(testSlideStart - 100)

	for i := 0; i < w.nodeCount(); i++ {
		if w.nodeJudgement(i).HasResult {
			t.Errorf("node %d should be reset", i)
		}
	}
	if w.progressValue() != 0 {
		t.Errorf("progress = %v, want 0 after rewind", w.progressValue())
	}
	if v := w.visualState(); v.Fill != 0 {
		t.Errorf("visual fill = %v, want 0 after rewind", v.Fill)
	}
}
