package scoring

import (
	"fmt"
	"math"
)

const (
	// MinDifficulty 难度下限
	MinDifficulty = 0.0
	// MidDifficulty 中档难度（DifficultyRange.Average 对应的难度）
	MidDifficulty = 5.0
	// MaxDifficulty 难度上限
	MaxDifficulty = 10.0
)

// DifficultyRange 某个判定结果的窗口随难度变化的三个档位（毫秒，单侧宽度）
// Min/Average/Max 分别对应难度 0/5/10，中间按线性插值
type DifficultyRange struct {
	Result  HitResult
	Min     float64
	Average float64
	Max     float64
}

// DifficultyValue 在三个档位之间线性插值，难度会被限制在 [0, 10]
//
// 公式:
//
//	difficulty > 5: mid + (max - mid) * (difficulty - 5) / 5
//	difficulty < 5: mid - (mid - min) * (5 - difficulty) / 5
func DifficultyValue(difficulty, min, mid, max float64) float64 {
	difficulty = math.Max(MinDifficulty, math.Min(MaxDifficulty, difficulty))
	switch {
	case difficulty > MidDifficulty:
		return mid + (max-mid)*(difficulty-MidDifficulty)/MidDifficulty
	case difficulty < MidDifficulty:
		return mid - (mid-min)*(MidDifficulty-difficulty)/MidDifficulty
	default:
		return mid
	}
}

// judgedResults 按窗口从窄到宽的检查顺序
var judgedResults = []HitResult{ResultPerfect, ResultGreat, ResultGood, ResultMeh, ResultMiss}

// HitWindows 判定窗口
//
// 使用前必须调用 SetDifficulty；未初始化就查询窗口属于编程错误，直接 panic。
type HitWindows struct {
	ranges      []DifficultyRange
	windows     map[HitResult]float64
	initialized bool
}

// NewHitWindows 根据难度档位创建判定窗口（尚未初始化）
func NewHitWindows(ranges []DifficultyRange) *HitWindows {
	rs := make([]DifficultyRange, len(ranges))
	copy(rs, ranges)
	return &HitWindows{
		ranges:  rs,
		windows: make(map[HitResult]float64, len(rs)),
	}
}

// NewSlideHitWindows 创建滑条使用的默认判定窗口
func NewSlideHitWindows() *HitWindows {
	return NewHitWindows(DefaultSlideRanges())
}

// NewTouchHitWindows 创建 Touch 音符使用的默认判定窗口
func NewTouchHitWindows() *HitWindows {
	return NewHitWindows(DefaultTouchRanges())
}

// DefaultSlideRanges 滑条默认窗口档位
func DefaultSlideRanges() []DifficultyRange {
	return []DifficultyRange{
		{Result: ResultMiss, Min: 720, Average: 720, Max: 360},
		{Result: ResultGood, Min: 576, Average: 576, Max: 288},
		{Result: ResultGreat, Min: 480, Average: 480, Max: 240},
		{Result: ResultPerfect, Min: 360, Average: 360, Max: 180},
	}
}

// DefaultTouchRanges Touch 音符默认窗口档位
func DefaultTouchRanges() []DifficultyRange {
	return []DifficultyRange{
		{Result: ResultMiss, Min: 288, Average: 288, Max: 144},
		{Result: ResultGood, Min: 288, Average: 288, Max: 144},
		{Result: ResultGreat, Min: 240, Average: 240, Max: 120},
		{Result: ResultPerfect, Min: 192, Average: 192, Max: 96},
	}
}

// ValidateRanges 检查窗口嵌套关系：Miss ⊇ Good ⊇ Great ⊇ Perfect（在三个档位上都成立）
func ValidateRanges(ranges []DifficultyRange) error {
	byResult := make(map[HitResult]DifficultyRange, len(ranges))
	for _, r := range ranges {
		if r.Min < 0 || r.Average < 0 || r.Max < 0 {
			return fmt.Errorf("%s window cannot be negative", r.Result)
		}
		if _, dup := byResult[r.Result]; dup {
			return fmt.Errorf("duplicate window for %s", r.Result)
		}
		byResult[r.Result] = r
	}
	if _, ok := byResult[ResultMiss]; !ok {
		return fmt.Errorf("miss window is required")
	}

	var wider *DifficultyRange
	for i := len(judgedResults) - 1; i >= 0; i-- {
		r, ok := byResult[judgedResults[i]]
		if !ok {
			continue
		}
		if wider != nil && (r.Min > wider.Min || r.Average > wider.Average || r.Max > wider.Max) {
			return fmt.Errorf("%s window must not be wider than %s window", r.Result, wider.Result)
		}
		rr := r
		wider = &rr
	}
	return nil
}

// SetDifficulty 按难度计算每个结果的窗口
func (h *HitWindows) SetDifficulty(difficulty float64) {
	for _, r := range h.ranges {
		h.windows[r.Result] = DifficultyValue(difficulty, r.Min, r.Average, r.Max)
	}
	h.initialized = true
}

// IsInitialized 是否已调用过 SetDifficulty
func (h *HitWindows) IsInitialized() bool {
	return h != nil && h.initialized
}

// WindowFor 返回指定结果的单侧窗口宽度（毫秒），没有配置的结果返回 0
func (h *HitWindows) WindowFor(result HitResult) float64 {
	h.mustBeInitialized()
	return h.windows[result]
}

// ResultFor 根据偏移（实际时间 - 期望时间）返回判定结果
// 超出 Miss 窗口返回 ResultNone，由调用方决定如何处理
func (h *HitWindows) ResultFor(timeOffset float64) HitResult {
	h.mustBeInitialized()
	offset := math.Abs(timeOffset)
	for _, r := range judgedResults {
		w, ok := h.windows[r]
		if !ok || w <= 0 {
			continue
		}
		if offset <= w {
			return r
		}
	}
	return ResultNone
}

// CanBeHit 该偏移下是否仍可能被判定
//
// 只比较迟到一侧：提前量再大也仍可击打，越过 Miss 窗口后沿才算超时。
func (h *HitWindows) CanBeHit(timeOffset float64) bool {
	return timeOffset <= h.WindowFor(ResultMiss)
}

func (h *HitWindows) mustBeInitialized() {
	if !h.IsInitialized() {
		panic("scoring: hit windows used before SetDifficulty")
	}
}
