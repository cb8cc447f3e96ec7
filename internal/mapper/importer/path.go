package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hotel-mapper/internal/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath разбирает SVG path из прямых отрезков (M, L, H, V, Z) в список
// точек. Лишние пары координат после M/L трактуются как LineTo.
func ParsePath(d string) ([]geometry.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Point
	var x, y float64

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				if relative {
					x += coords[i]
					y += coords[i+1]
				} else {
					x, y = coords[i], coords[i+1]
				}
				points = append(points, geometry.Point{X: x, Y: y})
			}
		case "H":
			for _, c := range coords {
				if relative {
					x += c
				} else {
					x = c
				}
				points = append(points, geometry.Point{X: x, Y: y})
			}
		case "V":
			for _, c := range coords {
				if relative {
					y += c
				} else {
					y = c
				}
				points = append(points, geometry.Point{X: x, Y: y})
			}
		case "Z":
			if len(points) > 0 {
				x, y = points[0].X, points[0].Y
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path has no points")
	}
	return points, nil
}

// pointsBounds возвращает описывающий прямоугольник точек в исходных единицах.
func pointsBounds(points []geometry.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ",", " ")
	var coords []float64
	for _, part := range strings.Fields(s) {
		if val, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
