package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"hotel-mapper/internal/geometry"

	"github.com/go-pdf/fpdf"
)

// ============================================================
// Floor Plan PDF
// ============================================================

const (
	pageWidth    = 297.0 // A4 landscape, mm
	pageHeight   = 210.0
	marginLeft   = 10.0
	marginRight  = 10.0
	marginTop    = 10.0
	marginBottom = 10.0
	headerHeight = 8.0
	footerHeight = 8.0
)

// FloorPlanPDF рисует план этажа на странице A4: изображение плана вписано в
// страницу, каждая комната нарисована прямоугольником цвета своего статуса.
func FloorPlanPDF(w io.Writer, plan FloorPlan) error {
	if err := plan.validate(); err != nil {
		return err
	}
	img := plan.Hotel.ImageSize()

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - %s (floor %d)", plan.Hotel.Name, plan.Floor.Name, plan.Floor.FloorNumber)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	boxW := pageWidth - marginLeft - marginRight
	boxH := pageHeight - marginTop - headerHeight - footerHeight - marginBottom
	vp := geometry.FitViewport(img, boxW, boxH, marginLeft, marginTop+headerHeight)
	canvasW, canvasH := float64(img.Width)*vp.Scale, float64(img.Height)*vp.Scale

	if err := drawPlanImage(pdf, plan, vp.OffsetX, vp.OffsetY, canvasW, canvasH); err != nil {
		return err
	}

	for _, room := range plan.Rooms {
		r := vp.RectToScreen(geometry.DenormalizeRounded(room.Coordinates, img))
		col := colorFor(room.Status)

		pdf.SetAlpha(0.35, "Normal")
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")
		pdf.SetAlpha(1, "Normal")

		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(0.4)
		pdf.Rect(r.X, r.Y, r.Width, r.Height, "D")

		pdf.SetFont("Helvetica", "B", labelFontSize(r.Width, r.Height))
		pdf.SetTextColor(0, 0, 0)
		labelW := pdf.GetStringWidth(room.RoomNumber)
		if labelW < r.Width {
			pdf.SetXY(r.X+(r.Width-labelW)/2, r.Y+r.Height/2-2)
			pdf.CellFormat(labelW, 4, room.RoomNumber, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, pageHeight-marginBottom-footerHeight+2)
	summary := fmt.Sprintf("%d rooms | plan %dx%d px", len(plan.Rooms), img.Width, img.Height)
	pdf.CellFormat(boxW, 5, summary, "", 0, "L", false, 0, "")

	return pdf.Output(w)
}

// drawPlanImage кладёт изображение плана; если файла нет, рисует серую подложку.
func drawPlanImage(pdf *fpdf.Fpdf, plan FloorPlan, x, y, w, h float64) error {
	data, err := os.ReadFile(plan.Hotel.ImagePath)
	if err != nil {
		pdf.SetFillColor(235, 235, 235)
		pdf.SetDrawColor(150, 150, 150)
		pdf.SetLineWidth(0.3)
		pdf.Rect(x, y, w, h, "FD")
		return nil
	}

	opts := fpdf.ImageOptions{ImageType: imageType(plan.Hotel.ImageType)}
	name := "plan_" + plan.Hotel.ID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("embed plan image: %w", err)
	}
	return nil
}

func imageType(contentType string) string {
	if contentType == "image/jpeg" {
		return "JPG"
	}
	return "PNG"
}

func labelFontSize(w, h float64) float64 {
	size := min(w, h) / 2
	return max(5, min(size, 12))
}
