package layout

// Cursor 是当前的纵向书写位置。绘制原语只能让 y 减小。
type Cursor struct {
	y float64
}

// NewCursor 以给定位置创建游标。
func NewCursor(y float64) Cursor { return Cursor{y: y} }

// Y 返回当前位置。
func (c *Cursor) Y() float64 { return c.y }

// MoveDown 向下移动 dy；负值被忽略。
func (c *Cursor) MoveDown(dy float64) {
	if dy > 0 {
		c.y -= dy
	}
}

// rewind 回到某个快照位置，仅供多列布局使用。
func (c *Cursor) rewind(y float64) { c.y = y }
