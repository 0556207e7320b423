package utils

// 坐标系统：
//   - 屏幕坐标：相对于游戏窗口左上角，Y 轴向下（ebiten 默认）
//   - 判定区坐标：以判定圈圆心为原点，Y 轴向下
//
// 转换公式：
//
//	playX = screenX - screenWidth/2
//	playY = screenY - screenHeight/2

// ScreenToPlayfield 屏幕坐标转换为判定区坐标
func ScreenToPlayfield(screenX, screenY, screenWidth, screenHeight float64) (x, y float64) {
	return screenX - screenWidth/2, screenY - screenHeight/2
}

// PlayfieldToScreen 判定区坐标转换为屏幕坐标
func PlayfieldToScreen(x, y, screenWidth, screenHeight float64) (screenX, screenY float64) {
	return x + screenWidth/2, y + screenHeight/2
}
