package export

import (
	"bytes"
	"fmt"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/models"

	"github.com/xuri/excelize/v2"
)

// ============================================================
// Room Schedule Workbook
// ============================================================

const scheduleSheet = "Rooms"

// Колонки Room, X, Y, Width, Height читаются импортом обратно.
var scheduleHeader = []any{
	"Floor", "Floor Number", "Room", "Type", "Bed", "Capacity", "Status",
	"X", "Y", "Width", "Height", "X px", "Y px", "Width px", "Height px",
	"Base Price", "Currency",
}

// RoomScheduleXLSX собирает книгу со строкой на каждую комнату отеля.
func RoomScheduleXLSX(hotel models.Hotel, floors []FloorRooms) (*bytes.Buffer, error) {
	img := hotel.ImageSize()
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotel.ID, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), scheduleSheet); err != nil {
		return nil, err
	}

	row := 1
	if err := setRow(f, row, scheduleHeader); err != nil {
		return nil, err
	}

	for _, fl := range floors {
		for _, r := range fl.Rooms {
			row++
			px := geometry.DenormalizeRounded(r.Coordinates, img)
			var price any
			if r.BasePrice != nil {
				price = *r.BasePrice
			}
			values := []any{
				fl.Floor.Name, fl.Floor.FloorNumber, r.RoomNumber, r.RoomType, r.BedType, r.Capacity, r.Status,
				r.Coordinates.X, r.Coordinates.Y, r.Coordinates.Width, r.Coordinates.Height,
				px.X, px.Y, px.Width, px.Height,
				price, r.Currency,
			}
			if err := setRow(f, row, values); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(scheduleSheet, "A", "A", 20); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func setRow(f *excelize.File, row int, values []any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		ref, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(scheduleSheet, ref, v); err != nil {
			return err
		}
	}
	return nil
}
