package game

import "math"

// GameplayClock 游戏时间（毫秒）
//
// 由主循环按固定步长推进，可暂停、调速，也可以通过 Seek 回退（回放拖动）。
// 所有判定系统只通过 CurrentTime 读取时间。
type GameplayClock struct {
	current float64
	rate    float64
	paused  bool
}

// NewGameplayClock 创建从 start 毫秒开始的时钟，倍速为 1
func NewGameplayClock(start float64) *GameplayClock {
	return &GameplayClock{current: start, rate: 1}
}

// CurrentTime 当前游戏时间（毫秒）
func (c *GameplayClock) CurrentTime() float64 {
	return c.current
}

// Advance 推进 deltaTime 秒（乘以倍速），暂停时不动
func (c *GameplayClock) Advance(deltaTime float64) {
	if c.paused || deltaTime <= 0 {
		return
	}
	c.current += deltaTime * 1000 * c.rate
}

// Seek 跳转到指定时间，允许向后跳
func (c *GameplayClock) Seek(time float64) {
	if math.IsNaN(time) || math.IsInf(time, 0) {
		return
	}
	c.current = time
}

// Rate 当前倍速
func (c *GameplayClock) Rate() float64 {
	return c.rate
}

// SetRate 设置倍速，非正数忽略
func (c *GameplayClock) SetRate(rate float64) {
	if rate > 0 && !math.IsInf(rate, 0) {
		c.rate = rate
	}
}

// Pause 暂停
func (c *GameplayClock) Pause() {
	c.paused = true
}

// Resume 继续
func (c *GameplayClock) Resume() {
	c.paused = false
}

// IsPaused 是否暂停
func (c *GameplayClock) IsPaused() bool {
	return c.paused
}
