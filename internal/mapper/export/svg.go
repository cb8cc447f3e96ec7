package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hotel-mapper/internal/geometry"
)

// ============================================================
// SVG Overlay
// ============================================================

var xmlEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", `'`, "&apos;")

// RoomsSVG собирает SVG-оверлей в пикселях плана: по <rect id="Room_<номер>">
// на каждую комнату. Такой файл читается импортом обратно.
func RoomsSVG(plan FloorPlan) (string, error) {
	if err := plan.validate(); err != nil {
		return "", err
	}
	img := plan.Hotel.ImageSize()
	w, h := formatFloat(float64(img.Width)), formatFloat(float64(img.Height))

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h))
	builder.WriteString("\n")

	for _, room := range plan.Rooms {
		px := geometry.DenormalizeRounded(room.Coordinates, img)
		col := colorFor(room.Status)
		builder.WriteString(fmt.Sprintf(
			`  <rect id="Room_%s" data-room-id="%s" data-status="%s" x="%s" y="%s" width="%s" height="%s" fill="rgb(%d,%d,%d)" fill-opacity="0.35" stroke="rgb(%d,%d,%d)" stroke-width="2"/>`,
			xmlEscaper.Replace(room.RoomNumber), xmlEscaper.Replace(room.ID), xmlEscaper.Replace(room.Status),
			formatFloat(px.X), formatFloat(px.Y), formatFloat(px.Width), formatFloat(px.Height),
			col.R, col.G, col.B, col.R, col.G, col.B))
		builder.WriteString("\n")

		center := geometry.DenormalizePoint(room.Coordinates.Center(), img)
		builder.WriteString(fmt.Sprintf(
			`  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica" font-size="14">%s</text>`,
			formatFloat(center.X), formatFloat(center.Y), xmlEscaper.Replace(room.RoomNumber)))
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func formatFloat(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
