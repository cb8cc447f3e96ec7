package importer

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"hotel-mapper/internal/geometry"

	"github.com/xuri/excelize/v2"
)

// ============================================================
// Tabular Import (XLSX, CSV)
// ============================================================

type columnMapping struct {
	Number, X, Y, Width, Height int
}

var headerAliases = map[string][]string{
	"number": {"room", "room number", "room_number", "roomnumber", "number", "no", "номер"},
	"x":      {"x", "left"},
	"y":      {"y", "top"},
	"width":  {"width", "w"},
	"height": {"height", "h"},
}

// detectColumns ищет роли колонок по заголовку без учёта регистра.
func detectColumns(row []string) (columnMapping, bool) {
	m := columnMapping{Number: -1, X: -1, Y: -1, Width: -1, Height: -1}
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if name != alias {
					continue
				}
				switch role {
				case "number":
					if m.Number == -1 {
						m.Number = i
					}
				case "x":
					if m.X == -1 {
						m.X = i
					}
				case "y":
					if m.Y == -1 {
						m.Y = i
					}
				case "width":
					if m.Width == -1 {
						m.Width = i
					}
				case "height":
					if m.Height == -1 {
						m.Height = i
					}
				}
			}
		}
	}
	ok := m.Number >= 0 && m.X >= 0 && m.Y >= 0 && m.Width >= 0 && m.Height >= 0
	return m, ok
}

// importRows разбирает строки таблицы. Строка, где все четыре числа не больше 1,
// считается нормализованной, иначе пиксельной и пересчитывается по img.
func importRows(res *Result, rows [][]string, img geometry.ImageSize, rowPrefix string) {
	headerAt := -1
	var m columnMapping
	for i, row := range rows {
		if mapping, ok := detectColumns(row); ok {
			headerAt, m = i, mapping
			break
		}
	}
	if headerAt < 0 {
		res.errorf("Header row not found (need columns: room, x, y, width, height)")
		return
	}

	imgErr := img.Validate()
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1
		if isBlank(row) {
			continue
		}

		number := cell(row, m.Number)
		if number == "" {
			res.warnf("%s %d: missing room number, skipped", rowPrefix, line)
			continue
		}

		var vals [4]float64
		bad := false
		for j, col := range []int{m.X, m.Y, m.Width, m.Height} {
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, col), ",", "."), 64)
			if err != nil {
				bad = true
				break
			}
			vals[j] = v
		}
		if bad {
			res.warnf("%s %d: room %s has non-numeric coordinates, skipped", rowPrefix, line, number)
			continue
		}

		rect := geometry.NormalizedRect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
		if vals[0] > 1 || vals[1] > 1 || vals[2] > 1 || vals[3] > 1 {
			if imgErr != nil {
				res.warnf("%s %d: room %s uses pixels but the plan size is unknown, skipped", rowPrefix, line, number)
				continue
			}
			rect = geometry.Normalize(geometry.PixelRect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3], Image: img})
		}
		res.add(number, rect)
	}

	if len(res.Candidates) == 0 && len(res.Errors) == 0 {
		res.errorf("No data rows found")
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseCSV разбирает CSV с автоопределением разделителя.
func ParseCSV(data []byte, img geometry.ImageSize) *Result {
	res := &Result{Format: "csv"}
	if len(bytes.TrimSpace(data)) == 0 {
		res.errorf("File is empty")
		return res
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		res.errorf("Cannot read CSV: %v", err)
		return res
	}

	importRows(res, records, img, "Line")
	return res
}

// detectDelimiter выбирает разделитель по первой строке.
func detectDelimiter(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ParseXLSX читает первый лист книги Excel.
func ParseXLSX(data []byte, img geometry.ImageSize) *Result {
	res := &Result{Format: "xlsx"}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		res.errorf("Cannot open Excel file: %v", err)
		return res
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		res.errorf("Excel file has no sheets")
		return res
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		res.errorf("Cannot read Excel data: %v", err)
		return res
	}

	importRows(res, rows, img, "Row")
	return res
}
