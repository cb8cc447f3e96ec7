package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"hotel-mapper/internal/geometry"
)

// ============================================================
// SVG Import
// ============================================================

// frame задаёт систему координат SVG: начало и размер в пользовательских единицах.
type frame struct {
	minX, minY, width, height float64
}

func (f frame) normalize(x, y, w, h float64) geometry.NormalizedRect {
	return geometry.NormalizedRect{
		X:      (x - f.minX) / f.width,
		Y:      (y - f.minY) / f.height,
		Width:  w / f.width,
		Height: h / f.height,
	}
}

type svgShape struct {
	number     string
	x, y, w, h float64
}

// ParseSVG ищет <rect> и <path> с id комнаты (Room_101, Hall_room) на любой
// глубине вложенности. Кадр задаёт viewBox, иначе width/height корня.
func ParseSVG(data []byte) *Result {
	res := &Result{Format: "svg"}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var (
		fr     frame
		hasFr  bool
		seen   bool
		shapes []svgShape
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.errorf("Cannot parse SVG: %v", err)
			return res
		}

		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch el.Name.Local {
		case "svg":
			if !seen {
				seen = true
				fr, hasFr = rootFrame(el)
			}
		case "rect":
			number := roomNumberFromID(attr(el, "id"))
			if number == "" {
				continue
			}
			w, h := parseLength(attr(el, "width")), parseLength(attr(el, "height"))
			if w <= 0 || h <= 0 {
				res.warnf("Skipped rect %s with empty size", attr(el, "id"))
				continue
			}
			shapes = append(shapes, svgShape{number: number,
				x: parseLength(attr(el, "x")), y: parseLength(attr(el, "y")), w: w, h: h})
		case "path":
			id := attr(el, "id")
			number := roomNumberFromID(id)
			if number == "" {
				continue
			}
			points, err := ParsePath(attr(el, "d"))
			if err != nil {
				res.warnf("Skipped path %s: %v", id, err)
				continue
			}
			minX, minY, maxX, maxY := pointsBounds(points)
			shapes = append(shapes, svgShape{number: number, x: minX, y: minY, w: maxX - minX, h: maxY - minY})
		}
	}

	if !seen {
		res.errorf("File is not an SVG document")
		return res
	}
	if len(shapes) == 0 {
		res.errorf("No room elements found (expected ids like Room_101 or Hall_room)")
		return res
	}
	if !hasFr {
		res.errorf("SVG has neither viewBox nor width/height")
		return res
	}

	for _, s := range shapes {
		res.add(s.number, fr.normalize(s.x, s.y, s.w, s.h))
	}
	return res
}

func rootFrame(el xml.StartElement) (frame, bool) {
	if vb := parseCoords(attr(el, "viewBox")); len(vb) == 4 && vb[2] > 0 && vb[3] > 0 {
		return frame{minX: vb[0], minY: vb[1], width: vb[2], height: vb[3]}, true
	}
	w, h := parseLength(attr(el, "width")), parseLength(attr(el, "height"))
	if w > 0 && h > 0 {
		return frame{width: w, height: h}, true
	}
	return frame{}, false
}

// roomNumberFromID извлекает номер комнаты: Room_101 -> 101, Hall_room -> Hall.
func roomNumberFromID(id string) string {
	switch {
	case strings.HasPrefix(id, "Room_"):
		return strings.TrimPrefix(id, "Room_")
	case strings.HasSuffix(id, "_room"):
		return strings.TrimSuffix(id, "_room")
	case strings.HasSuffix(id, "_Room"):
		return strings.TrimSuffix(id, "_Room")
	}
	return ""
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseLength читает длину SVG, отбрасывая единицу px.
func parseLength(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
