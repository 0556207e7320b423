package utils

import "math"

// EaseOutCubic 三次方缓出：开始快，结束慢
// 公式：f(t) = 1 - (1-t)³，t ∈ [0, 1]
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
