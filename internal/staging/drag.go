package staging

// Rect is the drop target's bounding box in terminal cells, edges inclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Contains reports whether the point lies on or inside the rectangle.
// Leaving the drop target is only honoured for points outside it, so crossing
// between child regions of the target does not flicker the hover state.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Empty reports whether the rectangle has not been laid out yet.
func (r Rect) Empty() bool {
	return r == Rect{}
}
