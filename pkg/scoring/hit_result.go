// Package scoring 定义判定结果与判定窗口
package scoring

// HitResult 判定结果，数值越大越好
type HitResult int

const (
	// ResultNone 无结果（偏移超出所有窗口）
	ResultNone HitResult = iota
	// ResultMiss 失误
	ResultMiss
	// ResultMeh 勉强通过，宽松兜底时使用
	ResultMeh
	// ResultGood 良好
	ResultGood
	// ResultGreat 优秀
	ResultGreat
	// ResultPerfect 完美
	ResultPerfect
)

// MinResult 最差的有效判定
const MinResult = ResultMiss

// MaxResult 最好的判定
const MaxResult = ResultPerfect

// IsHit 是否为命中（任何优于 Miss 的结果）
func (r HitResult) IsHit() bool {
	return r > ResultMiss
}

// String 返回判定结果的字符串表示
func (r HitResult) String() string {
	switch r {
	case ResultMiss:
		return "Miss"
	case ResultMeh:
		return "Meh"
	case ResultGood:
		return "Good"
	case ResultGreat:
		return "Great"
	case ResultPerfect:
		return "Perfect"
	default:
		return "None"
	}
}

// ParseHitResult 将字符串解析为判定结果，未知字符串返回 ResultNone
func ParseHitResult(s string) HitResult {
	for r := ResultMiss; r <= ResultPerfect; r++ {
		if r.String() == s {
			return r
		}
	}
	return ResultNone
}
