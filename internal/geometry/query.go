package geometry

import "math"

// ============================================================
// Point & neighbor queries
// ============================================================

// FindAtPoint возвращает комнату, содержащую точку. Если таких несколько,
// побеждает меньшая по площади, при равной площади первая по порядку.
func FindAtPoint(p Point, rooms []Sibling) (Sibling, bool) {
	best := -1
	for i, room := range rooms {
		if !room.Rect.ContainsPoint(p) {
			continue
		}
		if best == -1 || room.Rect.Area() < rooms[best].Rect.Area() {
			best = i
		}
	}

	if best == -1 {
		return Sibling{}, false
	}
	return rooms[best], true
}

// Distance измеряет евклидово расстояние между центрами.
func Distance(a, b NormalizedRect) float64 {
	ca, cb := a.Center(), b.Center()
	return math.Hypot(cb.X-ca.X, cb.Y-ca.Y)
}

// FindNeighbors возвращает комнаты не дальше maxDistance от target (по центрам).
// Сама target исключается всегда.
func FindNeighbors(target Sibling, rooms []Sibling, maxDistance float64) []Sibling {
	if maxDistance <= 0 {
		maxDistance = DefaultNeighborDistance
	}

	neighbors := []Sibling{}
	for _, room := range rooms {
		if room.ID == target.ID {
			continue
		}
		if Distance(target.Rect, room.Rect) <= maxDistance {
			neighbors = append(neighbors, room)
		}
	}
	return neighbors
}
