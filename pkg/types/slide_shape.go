package types

// SlideShape 键位之间的滑条形状
type SlideShape int

const (
	// SlideShapeStraight 两个键位之间的直线
	SlideShapeStraight SlideShape = iota
	// SlideShapeCircle 沿判定圈顺时针
	SlideShapeCircle
	// SlideShapeCircleReverse 沿判定圈逆时针
	SlideShapeCircleReverse
	// SlideShapeV 经过圆心折返
	SlideShapeV
)

var slideShapeNames = map[SlideShape]string{
	SlideShapeStraight:      "straight",
	SlideShapeCircle:        "circle",
	SlideShapeCircleReverse: "circle-reverse",
	SlideShapeV:             "v",
}

// String 返回形状名称
func (s SlideShape) String() string {
	if name, ok := slideShapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSlideShape 解析形状名称
func ParseSlideShape(name string) (SlideShape, bool) {
	for shape, n := range slideShapeNames {
		if n == name {
			return shape, true
		}
	}
	return 0, false
}
