package geometry

import "math"

// ============================================================
// Viewport (zoom / pan)
// ============================================================

// Viewport описывает, как пиксели изображения ложатся на холст: screen = image*Scale + Offset.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// FitViewport вписывает изображение в область boxW x boxH с началом в (originX, originY),
// сохраняя пропорции и центрируя по свободной оси.
func FitViewport(img ImageSize, boxW, boxH, originX, originY float64) Viewport {
	mustBeValid(img)
	w, h := float64(img.Width), float64(img.Height)
	scale := math.Min(boxW/w, boxH/h)
	return Viewport{
		Scale:   scale,
		OffsetX: originX + (boxW-w*scale)/2,
		OffsetY: originY + (boxH-h*scale)/2,
	}
}

func (v Viewport) ToScreen(p Point) Point {
	return Point{X: p.X*v.Scale + v.OffsetX, Y: p.Y*v.Scale + v.OffsetY}
}

func (v Viewport) ToImage(p Point) Point {
	return Point{X: (p.X - v.OffsetX) / v.Scale, Y: (p.Y - v.OffsetY) / v.Scale}
}

// RectToScreen переводит пиксельный прямоугольник в координаты холста.
func (v Viewport) RectToScreen(r PixelRect) PixelRect {
	return PixelRect{
		X:      r.X*v.Scale + v.OffsetX,
		Y:      r.Y*v.Scale + v.OffsetY,
		Width:  r.Width * v.Scale,
		Height: r.Height * v.Scale,
		Image:  r.Image,
	}
}
