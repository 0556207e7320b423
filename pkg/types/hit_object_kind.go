// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// HitObjectKind 定义打击物件的种类（封闭枚举）
type HitObjectKind int

const (
	// HitObjectUnknown 未知物件
	HitObjectUnknown HitObjectKind = iota
	// HitObjectTap 单点
	HitObjectTap
	// HitObjectSlideBody 星星滑条本体
	HitObjectSlideBody
	// HitObjectSlideNode 滑条路径上的判定节点
	HitObjectSlideNode
	// HitObjectHold 长按
	HitObjectHold
	// HitObjectTouch 触摸音符
	HitObjectTouch
)

// String 返回物件种类的字符串表示
func (k HitObjectKind) String() string {
	switch k {
	case HitObjectTap:
		return "Tap"
	case HitObjectSlideBody:
		return "SlideBody"
	case HitObjectSlideNode:
		return "SlideNode"
	case HitObjectHold:
		return "Hold"
	case HitObjectTouch:
		return "Touch"
	default:
		return "Unknown"
	}
}

// LaneCount 判定圈上的键位数量
const LaneCount = 8

// NormalizeLane 将任意整数映射到 [0, LaneCount)
func NormalizeLane(lane int) int {
	lane %= LaneCount
	if lane < 0 {
		lane += LaneCount
	}
	return lane
}
