package geometry

import "math"

// Начиная с fullOverlap пересечение считается полным при любом допуске.
const fullOverlap = 1 - 1e-9

// ============================================================
// Overlap detection
// ============================================================

// Sibling описывает уже размещённую комнату того же этажа.
type Sibling struct {
	ID   string
	Rect NormalizedRect
}

type OverlapQuery struct {
	Candidate NormalizedRect
	Siblings  []Sibling
	// ExcludeID пропускает прежнее положение перемещаемой комнаты.
	ExcludeID string
	// Tolerance вне (0, 1] заменяется на DefaultOverlapTolerance.
	Tolerance float64
}

type Conflict struct {
	ID         string         `json:"id"`
	Rect       NormalizedRect `json:"coordinates"`
	Fraction   float64        `json:"overlapFraction"`
	Percentage float64        `json:"overlapPercentage"`
}

type OverlapResult struct {
	HasOverlap  bool               `json:"hasOverlap"`
	Conflicts   []Conflict         `json:"conflicts"`
	Percentages map[string]float64 `json:"percentages"`
}

// Intersection возвращает общую часть двух прямоугольников. Касание по границе
// пересечением не считается.
func Intersection(a, b NormalizedRect) (NormalizedRect, bool) {
	left := math.Max(a.X, b.X)
	top := math.Max(a.Y, b.Y)
	right := math.Min(a.XEnd(), b.XEnd())
	bottom := math.Min(a.YEnd(), b.YEnd())

	if right <= left || bottom <= top {
		return NormalizedRect{}, false
	}
	return NormalizedRect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// OverlapFraction считает площадь пересечения относительно меньшего из прямоугольников.
// Маленькая комната целиком внутри большой даёт 1.0.
func OverlapFraction(a, b NormalizedRect) float64 {
	inter, ok := Intersection(a, b)
	if !ok {
		return 0
	}
	return inter.Area() / math.Min(a.Area(), b.Area())
}

// CheckOverlap сравнивает кандидата с каждой соседней комнатой и собирает те,
// чья доля пересечения превышает допуск. Полное совпадение конфликтует всегда.
func CheckOverlap(q OverlapQuery) OverlapResult {
	tolerance := q.Tolerance
	if !(tolerance > 0 && tolerance <= 1) {
		tolerance = DefaultOverlapTolerance
	}

	result := OverlapResult{
		Conflicts:   []Conflict{},
		Percentages: map[string]float64{},
	}

	for _, s := range q.Siblings {
		if q.ExcludeID != "" && s.ID == q.ExcludeID {
			continue
		}

		fraction := OverlapFraction(q.Candidate, s.Rect)
		if fraction <= tolerance && fraction < fullOverlap {
			continue
		}

		pct := fraction * 100
		result.Conflicts = append(result.Conflicts, Conflict{
			ID:         s.ID,
			Rect:       s.Rect,
			Fraction:   fraction,
			Percentage: pct,
		})
		result.Percentages[s.ID] = pct
	}

	result.HasOverlap = len(result.Conflicts) > 0
	return result
}
