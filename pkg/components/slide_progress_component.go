package components

// SlideProgressComponent 滑条的连续进度
//
// 实时输入模式下单调不减；物件重新进入作用域（复用/回退）时归零。
type SlideProgressComponent struct {
	Progress float64 // 0.0 ~ 1.0
}

// SlideStarComponent 沿路径移动的星星（目标点）的显示状态
type SlideStarComponent struct {
	X, Y     float64 // 游戏区坐标
	Rotation float64 // 朝向（度）
	Scale    float64 // 出现动画缩放 0.0 ~ 1.0
	Visible  bool
}
