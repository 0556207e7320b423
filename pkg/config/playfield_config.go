package config

// ==============================
// 判定圈与滑条布局常量
// ==============================
// 坐标系：以判定圈圆心为原点，Y 轴向下，0° 指向正上方，顺时针为正

const (
	// ----------------
	// 窗口
	// ----------------
	ScreenWidth  float64 = 768 // 游戏窗口宽度
	ScreenHeight float64 = 768 // 游戏窗口高度

	// ----------------
	// 判定圈
	// ----------------
	RingRadius       float64 = 296.5 // 判定圈半径（键位所在圆）
	LaneAngleStep    float64 = 45    // 相邻键位的角度差
	LaneAngleOffset  float64 = 22.5  // 0 号键位相对正上方的角度
	RingStrokeWidth  float32 = 4     // 调试绘制时判定圈线宽
	StarPieceRadius  float32 = 18    // 调试绘制时星星半径
	NodeMarkerRadius float32 = 6     // 调试绘制时节点标记半径

	// ----------------
	// 滑条
	// ----------------
	SlideChevronDistance float64 = 25   // 相邻箭头（检查点）的路径距离
	SlideNodeStride      int     = 5    // 每隔多少个检查点放置一个判定节点
	SlideNodeTailGap     int     = 2    // 最后一个中间节点距尾部至少相隔的检查点数
	ChevronHideAngle     float64 = 89   // 转角大于等于该值的箭头不显示
	StarRotationDelta    float64 = .001 // 计算星星朝向时前后采样的进度差
	StarFadeInLead       float64 = 50   // 星星在滑条开始前多少毫秒出现

	// ----------------
	// 输入跟踪
	// ----------------
	SlideNodeRadius     float64 = 80    // 节点的悬停半径（节点尺寸 160 的一半）
	SlideTrackingRadius float64 = 80    // 跟踪进度时指针与目标点的最大距离
	SlideTrackingStep   float64 = 0.001 // 每次推进的进度步长
)

// LaneAngle 返回键位中心的角度（度）
func LaneAngle(lane int) float64 {
	return LaneAngleOffset + float64(lane)*LaneAngleStep
}
