package app

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// dragState 拖拽状态
type dragState int

const (
	dragNone     dragState = iota // 无拖拽
	dragStarted                   // 刚按下
	dragDragging                  // 按住移动
	dragEnded                     // 刚释放，只持续一帧
)

// panTracker 用鼠标或触摸拖拽平移俯视图
// 偏移以屏幕像素记录，与缩放无关；镜头继续行进，视图跟随镜头加上偏移
type panTracker struct {
	state        dragState
	lastX, lastY int
	offsetX      float64
	offsetY      float64
}

// update 每帧调用一次，传入指针是否按下和当前位置
func (p *panTracker) update(pressed bool, x, y int) {
	switch p.state {
	case dragNone, dragEnded:
		if !pressed {
			p.state = dragNone
			return
		}
		p.state = dragStarted
		p.lastX, p.lastY = x, y

	case dragStarted, dragDragging:
		if !pressed {
			p.state = dragEnded
			return
		}
		p.state = dragDragging
		p.offsetX += float64(x - p.lastX)
		p.offsetY += float64(y - p.lastY)
		p.lastX, p.lastY = x, y
	}
}

// reset 清除偏移，视图回到镜头
func (p *panTracker) reset() {
	*p = panTracker{}
}

// pointerState 返回指针是否按下及位置
// 优先使用第一个触摸点，没有触摸时使用鼠标左键
func pointerState() (pressed bool, x, y int) {
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}
	x, y = ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y
}
