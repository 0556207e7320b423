package components

// LaneComponent 键位与绝赞（Break）标记
//
// 字段是物件私有的普通字段，修改必须通过 SetLane / SetBreak，
// 这样构造时传入的 OnChange 回调才能被通知到。
type LaneComponent struct {
	Lane  int  // 键位（0-7）
	Break bool // 是否为绝赞物件

	// OnChange 键位或绝赞标记变化时的回调，可为 nil
	OnChange func(lane int, isBreak bool)
}

// SetLane 修改键位并通知回调
func (c *LaneComponent) SetLane(lane int) {
	if c.Lane == lane {
		return
	}
	c.Lane = lane
	c.notify()
}

// SetBreak 修改绝赞标记并通知回调
func (c *LaneComponent) SetBreak(isBreak bool) {
	if c.Break == isBreak {
		return
	}
	c.Break = isBreak
	c.notify()
}

func (c *LaneComponent) notify() {
	if c.OnChange != nil {
		c.OnChange(c.Lane, c.Break)
	}
}
