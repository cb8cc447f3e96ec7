// Package geometry реализует движок координат и пересечений комнат на плане этажа.
//
// Все прямоугольники хранятся в нормализованном виде: доли ширины и высоты
// изображения плана. Функции пакета чистые и не держат состояния, поэтому их
// можно вызывать конкурентно из любых обработчиков.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Constants
// ============================================================

const (
	// Минимальная ширина/высота комнаты (0.5% изображения).
	MinDimension = 0.005

	MinAspectRatio = 0.1
	MaxAspectRatio = 10.0

	DefaultOverlapTolerance = 0.05
	DefaultNeighborDistance = 0.1
)

// ============================================================
// Value types
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizedRect хранит прямоугольник в долях изображения (0..1).
type NormalizedRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r NormalizedRect) XEnd() float64 { return r.X + r.Width }
func (r NormalizedRect) YEnd() float64 { return r.Y + r.Height }
func (r NormalizedRect) Area() float64 { return r.Width * r.Height }

func (r NormalizedRect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ContainsPoint проверяет попадание точки в прямоугольник, границы включительно.
func (r NormalizedRect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.XEnd() &&
		p.Y >= r.Y && p.Y <= r.YEnd()
}

type ImageSize struct {
	Width  int `json:"imageWidth"`
	Height int `json:"imageHeight"`
}

// Validate возвращает ошибку для нулевых или отрицательных размеров.
var ErrInvalidImageSize = errors.New("image dimensions must be positive")

func (s ImageSize) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w (got %dx%d)", ErrInvalidImageSize, s.Width, s.Height)
	}
	return nil
}

// PixelRect задан в пикселях конкретного изображения.
type PixelRect struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Image  ImageSize `json:"image"`
}

// ============================================================
// Drawing helpers
// ============================================================

// FromCorners строит прямоугольник по двум углам, в каком бы направлении ни тянули мышь.
func FromCorners(a, b Point) NormalizedRect {
	return NormalizedRect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Clamp прижимает прямоугольник внутрь единичного квадрата.
func Clamp(r NormalizedRect) NormalizedRect {
	x := clamp01(r.X)
	y := clamp01(r.Y)
	return NormalizedRect{
		X:      x,
		Y:      y,
		Width:  math.Max(0, math.Min(r.Width, 1-x)),
		Height: math.Max(0, math.Min(r.Height, 1-y)),
	}
}

// BoundingBox возвращает наименьший прямоугольник, покрывающий все входные.
func BoundingBox(rects []NormalizedRect) (NormalizedRect, bool) {
	if len(rects) == 0 {
		return NormalizedRect{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.XEnd())
		maxY = math.Max(maxY, r.YEnd())
	}

	return NormalizedRect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
