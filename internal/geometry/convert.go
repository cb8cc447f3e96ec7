package geometry

import (
	"fmt"
	"math"
)

// ============================================================
// Pixel <-> Normalized
// ============================================================

// Normalize переводит пиксельный прямоугольник в доли изображения. Без округления.
func Normalize(p PixelRect) NormalizedRect {
	mustBeValid(p.Image)
	w, h := float64(p.Image.Width), float64(p.Image.Height)
	return NormalizedRect{
		X:      p.X / w,
		Y:      p.Y / h,
		Width:  p.Width / w,
		Height: p.Height / h,
	}
}

// Denormalize переводит нормализованный прямоугольник в пиксели без округления.
func Denormalize(r NormalizedRect, img ImageSize) PixelRect {
	mustBeValid(img)
	w, h := float64(img.Width), float64(img.Height)
	return PixelRect{
		X:      r.X * w,
		Y:      r.Y * h,
		Width:  r.Width * w,
		Height: r.Height * h,
		Image:  img,
	}
}

// DenormalizeRounded округляет пиксели до целых для отображения и выгрузок.
func DenormalizeRounded(r NormalizedRect, img ImageSize) PixelRect {
	p := Denormalize(r, img)
	p.X = math.Round(p.X)
	p.Y = math.Round(p.Y)
	p.Width = math.Round(p.Width)
	p.Height = math.Round(p.Height)
	return p
}

func NormalizePoint(p Point, img ImageSize) Point {
	mustBeValid(img)
	return Point{X: p.X / float64(img.Width), Y: p.Y / float64(img.Height)}
}

func DenormalizePoint(p Point, img ImageSize) Point {
	mustBeValid(img)
	return Point{X: p.X * float64(img.Width), Y: p.Y * float64(img.Height)}
}

// mustBeValid паникует на неположительных размерах: это ошибка вызывающего кода,
// а не пользовательского ввода.
func mustBeValid(img ImageSize) {
	if err := img.Validate(); err != nil {
		panic(fmt.Sprintf("geometry: %v", err))
	}
}
