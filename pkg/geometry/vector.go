// Package geometry 提供滑条路径所需的二维几何基础类型
// 这个包不依赖任何其他业务包
package geometry

import (
	"math"

	"honnef.co/go/curve"
)

// Vector2 二维向量（游戏区坐标，原点为判定圈圆心）
type Vector2 struct {
	X, Y float64
}

// point 转换为 curve 库的点
func (v Vector2) point() curve.Point {
	return curve.Point{X: v.X, Y: v.Y}
}

func fromPoint(p curve.Point) Vector2 {
	return Vector2{X: p.X, Y: p.Y}
}

// Add 向量相加
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量相减
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 数乘
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Length 向量长度
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceTo 两点间距离
func (v Vector2) DistanceTo(o Vector2) float64 {
	return v.Sub(o).Length()
}

// Lerp 在 v 与 o 之间线性插值
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// DegreesTo 返回从 v 指向 o 的角度（度，0 度指向正上方，顺时针为正）
//
// 与屏幕坐标系一致：Y 轴向下。
func (v Vector2) DegreesTo(o Vector2) float64 {
	d := o.Sub(v)
	return math.Atan2(d.X, -d.Y) * 180 / math.Pi
}

// CircularPosition 返回距圆心 distance、角度为 angle（度）的点
// 角度定义与 DegreesTo 相同
func CircularPosition(distance, angle float64) Vector2 {
	rad := angle * math.Pi / 180
	return Vector2{X: distance * math.Sin(rad), Y: -distance * math.Cos(rad)}
}

// DeltaAngle 返回两个角度之间的最小夹角（0~180 度）
func DeltaAngle(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
