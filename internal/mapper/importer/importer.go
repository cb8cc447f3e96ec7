// Package importer превращает чертежи и таблицы (SVG, XLSX, CSV, DXF) в
// кандидатов в комнаты в нормализованных координатах плана.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"hotel-mapper/internal/geometry"
)

// Candidate найден в файле, но ещё не проверен и не сохранён.
type Candidate struct {
	RoomNumber string                  `json:"roomNumber"`
	Rect       geometry.NormalizedRect `json:"coordinates"`
}

type Result struct {
	Format     string      `json:"format"`
	Candidates []Candidate `json:"candidates"`
	Errors     []string    `json:"errors"`
	Warnings   []string    `json:"warnings"`
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// add нормализованный прямоугольник прижимается к плану; обрезка попадает в предупреждения.
func (r *Result) add(number string, rect geometry.NormalizedRect) {
	clamped := geometry.Clamp(rect)
	if clamped != rect {
		r.warnf("Room %s was clipped to the plan bounds", number)
	}
	r.Candidates = append(r.Candidates, Candidate{RoomNumber: number, Rect: clamped})
}

var Formats = []string{".svg", ".xlsx", ".csv", ".dxf"}

// Parse выбирает разборщик по расширению файла. img нужен таблицам с
// пиксельными координатами; для SVG и DXF кадр берётся из самого файла.
func Parse(filename string, data []byte, img geometry.ImageSize) *Result {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".svg":
		return ParseSVG(data)
	case ".xlsx":
		return ParseXLSX(data, img)
	case ".csv":
		return ParseCSV(data, img)
	case ".dxf":
		return ParseDXF(data)
	default:
		res := &Result{Format: strings.TrimPrefix(ext, ".")}
		res.errorf("Unsupported file type %q. Supported: %s", ext, strings.Join(Formats, ", "))
		return res
	}
}
