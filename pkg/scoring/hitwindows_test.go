package scoring

import (
	"testing"
)

func TestDifficultyValue(t *testing.T) {
	tests := []struct {
		name       string
		difficulty float64
		expected   float64
	}{
		{"难度0取Min", 0, 600},
		{"难度2.5在Min与Average之间", 2.5, 500},
		{"难度5取Average", 5, 400},
		{"难度7.5在Average与Max之间", 7.5, 300},
		{"难度10取Max", 10, 200},
		{"低于下限被限制", -3, 600},
		{"高于上限被限制", 14, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DifficultyValue(tt.difficulty, 600, 400, 200)
			if got != tt.expected {
				t.Errorf("DifficultyValue(%v) = %v, want %v", tt.difficulty, got, tt.expected)
			}
		})
	}
}

func TestHitWindows_ResultFor(t *testing.T) {
	hw := NewSlideHitWindows()
	hw.SetDifficulty(5)

	tests := []struct {
		name     string
		offset   float64
		expected HitResult
	}{
		{"正中", 0, ResultPerfect},
		{"Perfect 边界", 360, ResultPerfect},
		{"提前进入 Great", -400, ResultGreat},
		{"迟到 Good", 500, ResultGood},
		{"提前 Miss", -700, ResultMiss},
		{"超出 Miss 窗口", 721, ResultNone},
		{"提前超出 Miss 窗口", -900, ResultNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hw.ResultFor(tt.offset); got != tt.expected {
				t.Errorf("ResultFor(%v) = %v, want %v", tt.offset, got, tt.expected)
			}
		})
	}
}

func TestHitWindows_WindowsShrinkWithDifficulty(t *testing.T) {
	easy := NewSlideHitWindows()
	easy.SetDifficulty(0)
	hard := NewSlideHitWindows()
	hard.SetDifficulty(10)

	for _, r := range []HitResult{ResultMiss, ResultGood, ResultGreat, ResultPerfect} {
		if hard.WindowFor(r) >= easy.WindowFor(r) {
			t.Errorf("%s window should shrink: easy=%v hard=%v", r, easy.WindowFor(r), hard.WindowFor(r))
		}
	}
}

func TestHitWindows_CanBeHit(t *testing.T) {
	hw := NewTouchHitWindows()
	hw.SetDifficulty(5)

	tests := []struct {
		name     string
		offset   float64
		expected bool
	}{
		{"远早于窗口仍可击打", -5000, true},
		{"正中", 0, true},
		{"迟到边界", 288, true},
		{"超过迟到边界", 288.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hw.CanBeHit(tt.offset); got != tt.expected {
				t.Errorf("CanBeHit(%v) = %v, want %v", tt.offset, got, tt.expected)
			}
		})
	}
}

func TestHitWindows_PanicsBeforeInitialisation(t *testing.T) {
	var nilWindows *HitWindows
	tests := []struct {
		name string
		hw   *HitWindows
		call func(h *HitWindows)
	}{
		{"ResultFor", NewSlideHitWindows(), func(h *HitWindows) { h.ResultFor(0) }},
		{"WindowFor", NewTouchHitWindows(), func(h *HitWindows) { h.WindowFor(ResultMiss) }},
		{"CanBeHit", NewSlideHitWindows(), func(h *HitWindows) { h.CanBeHit(0) }},
		{"nil", nilWindows, func(h *HitWindows) { h.ResultFor(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.hw.IsInitialized() {
				t.Fatal("IsInitialized() = true before SetDifficulty")
			}
			defer func() {
				if recover() == nil {
					t.Errorf("%s before SetDifficulty should panic", tt.name)
				}
			}()
			tt.call(tt.hw)
		})
	}

	hw := NewSlideHitWindows()
	hw.SetDifficulty(5)
	if !hw.IsInitialized() {
		t.Error("IsInitialized() = false after SetDifficulty")
	}
}

func TestValidateRanges(t *testing.T) {
	if err := ValidateRanges(DefaultSlideRanges()); err != nil {
		t.Errorf("default slide ranges should be valid: %v", err)
	}
	if err := ValidateRanges(DefaultTouchRanges()); err != nil {
		t.Errorf("default touch ranges should be valid: %v", err)
	}

	tests := []struct {
		name   string
		ranges []DifficultyRange
	}{
		{"缺少 Miss", []DifficultyRange{{Result: ResultPerfect, Min: 1, Average: 1, Max: 1}}},
		{"负数窗口", []DifficultyRange{{Result: ResultMiss, Min: -1, Average: 1, Max: 1}}},
		{"重复定义", []DifficultyRange{
			{Result: ResultMiss, Min: 5, Average: 5, Max: 5},
			{Result: ResultMiss, Min: 5, Average: 5, Max: 5},
		}},
		{"Perfect 比 Great 宽", []DifficultyRange{
			{Result: ResultMiss, Min: 500, Average: 500, Max: 500},
			{Result: ResultGreat, Min: 200, Average: 200, Max: 200},
			{Result: ResultPerfect, Min: 300, Average: 100, Max: 100},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRanges(tt.ranges); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestHitResult_IsHit(t *testing.T) {
	if ResultNone.IsHit() || ResultMiss.IsHit() {
		t.Error("None and Miss must not count as hits")
	}
	for _, r := range []HitResult{ResultMeh, ResultGood, ResultGreat, ResultPerfect} {
		if !r.IsHit() {
			t.Errorf("%s should count as hit", r)
		}
		if ParseHitResult(r.String()) != r {
			t.Errorf("ParseHitResult(%q) mismatch", r.String())
		}
	}
}
