package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// ============================================================
// Room Labels
// ============================================================

// LabelInfo зашивается в QR-код этикетки комнаты.
type LabelInfo struct {
	RoomID     string `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	Floor      string `json:"floor"`
	Hotel      string `json:"hotel"`
	URL        string `json:"url,omitempty"`
}

// Сетка этикеток: 3 колонки на 8 рядов на A4.
const (
	labelMarginTop  = 10.0
	labelMarginLeft = 7.0
	labelWidth      = 65.0
	labelHeight     = 34.0
	labelCols       = 3
	labelRows       = 8
	labelsPerPage   = labelCols * labelRows
	qrSize          = 26.0
	labelPadding    = 3.0
)

// CollectLabels собирает данные этикеток в порядке комнат этажа.
func CollectLabels(plan FloorPlan, publicURL string) []LabelInfo {
	labels := make([]LabelInfo, 0, len(plan.Rooms))
	base := strings.TrimRight(publicURL, "/")
	for _, r := range plan.Rooms {
		info := LabelInfo{
			RoomID:     r.ID,
			RoomNumber: r.RoomNumber,
			Floor:      plan.Floor.Name,
			Hotel:      plan.Hotel.Name,
		}
		if base != "" {
			info.URL = base + "/api/v1/rooms/" + r.ID
		}
		labels = append(labels, info)
	}
	return labels
}

// RoomLabelsPDF печатает по этикетке с QR-кодом на каждую комнату этажа.
func RoomLabelsPDF(w io.Writer, plan FloorPlan, publicURL string) error {
	labels := CollectLabels(plan, publicURL)
	if len(labels) == 0 {
		return fmt.Errorf("floor %s has no rooms to label", plan.Floor.ID)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("render label for room %s: %w", label.RoomNumber, err)
		}
	}

	return pdf.Output(w)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate qr code: %w", err)
	}

	name := "qr_" + info.RoomID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding+2)
	pdf.CellFormat(textW, 8, fit(pdf, info.RoomNumber, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(textX, y+labelPadding+13)
	pdf.CellFormat(textW, 4, fit(pdf, info.Floor, textW), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+18)
	pdf.CellFormat(textW, 4, fit(pdf, info.Hotel, textW), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}

// fit обрезает строку с многоточием под ширину ячейки.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
