package models

import "hotel-mapper/internal/geometry"

// ============================================================
// Hotel Model
// ============================================================

const (
	HotelActive   = "active"
	HotelInactive = "inactive"
	HotelDraft    = "draft"
)

var HotelStatuses = []string{HotelActive, HotelInactive, HotelDraft}

type Hotel struct {
	ID          string
	Name        string
	Slug        string
	Description string
	ImagePath   string
	ImageType   string
	ImageWidth  int
	ImageHeight int
	TotalFloors int
	TotalRooms  int
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// ImageSize возвращает размеры плана для пересчёта координат.
func (h *Hotel) ImageSize() geometry.ImageSize {
	return geometry.ImageSize{Width: h.ImageWidth, Height: h.ImageHeight}
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// HotelFilter задаёт постраничный список отелей.
type HotelFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// Normalized приводит page и limit к допустимым значениям.
func (f HotelFilter) Normalized() HotelFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

type HotelStats struct {
	HotelID       string         `json:"hotelId"`
	HotelName     string         `json:"hotelName"`
	TotalFloors   int            `json:"totalFloors"`
	TotalRooms    int            `json:"totalRooms"`
	RoomsByType   map[string]int `json:"roomsByType"`
	RoomsByStatus map[string]int `json:"roomsByStatus"`
	OccupancyRate string         `json:"occupancyRate"`
}
