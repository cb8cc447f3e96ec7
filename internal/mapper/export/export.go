// Package export выгружает размеченные этажи: PDF с планом, лист этикеток с
// QR-кодами, книгу Excel со списком комнат и SVG-оверлей.
package export

import (
	"fmt"

	"hotel-mapper/internal/mapper/models"
)

// FloorPlan связывает этаж с комнатами и отель, которому принадлежит план.
type FloorPlan struct {
	Hotel models.Hotel
	Floor models.Floor
	Rooms []models.Room
}

type FloorRooms struct {
	Floor models.Floor
	Rooms []models.Room
}

type rgb struct{ R, G, B int }

var statusColors = map[string]rgb{
	"available":    {76, 175, 80},
	"occupied":     {244, 67, 54},
	"maintenance":  {255, 152, 0},
	"out_of_order": {158, 158, 158},
	"cleaning":     {33, 150, 243},
}

func colorFor(status string) rgb {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return rgb{120, 120, 120}
}

func (p FloorPlan) validate() error {
	if err := p.Hotel.ImageSize().Validate(); err != nil {
		return fmt.Errorf("hotel %s: %w", p.Hotel.ID, err)
	}
	return nil
}
