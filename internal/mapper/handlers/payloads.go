package handlers

import (
	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/service"
)

// ============================================================
// Response Payloads
// ============================================================

type coordinatesPayload struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	XEnd    float64 `json:"xEnd"`
	YEnd    float64 `json:"yEnd"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Area    float64 `json:"area"`
}

type hotelPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ImageType   string `json:"imageType"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	TotalFloors int    `json:"totalFloors"`
	TotalRooms  int    `json:"totalRooms"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type hotelDetailPayload struct {
	hotelPayload
	Floors []floorDetailPayload `json:"floors"`
}

type floorPayload struct {
	ID           string   `json:"id"`
	HotelID      string   `json:"hotelId"`
	FloorNumber  int      `json:"floorNumber"`
	Name         string   `json:"name"`
	DisplayOrder int      `json:"displayOrder"`
	TotalRooms   int      `json:"totalRooms"`
	FloorAreaSqm *float64 `json:"floorAreaSqm"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

type floorDetailPayload struct {
	floorPayload
	Rooms []roomPayload `json:"rooms"`
}

type roomPayload struct {
	ID          string             `json:"id"`
	FloorID     string             `json:"floorId"`
	RoomNumber  string             `json:"roomNumber"`
	RoomType    string             `json:"roomType"`
	BedType     string             `json:"bedType"`
	Capacity    int                `json:"capacity"`
	Status      string             `json:"status"`
	Coordinates coordinatesPayload `json:"coordinates"`
	BasePrice   *float64           `json:"basePrice"`
	Currency    string             `json:"currency"`
	Metadata    map[string]any     `json:"metadata"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

type paginationPayload struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func mapCoordinates(r geometry.NormalizedRect) coordinatesPayload {
	c := r.Center()
	return coordinatesPayload{
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
		XEnd:    r.XEnd(),
		YEnd:    r.YEnd(),
		CenterX: c.X,
		CenterY: c.Y,
		Area:    r.Area(),
	}
}

func mapHotel(h *models.Hotel) hotelPayload {
	return hotelPayload{
		ID:          h.ID,
		Name:        h.Name,
		Slug:        h.Slug,
		Description: h.Description,
		ImageURL:    "/hotels/" + h.ID + "/image",
		ImageType:   h.ImageType,
		ImageWidth:  h.ImageWidth,
		ImageHeight: h.ImageHeight,
		TotalFloors: h.TotalFloors,
		TotalRooms:  h.TotalRooms,
		Status:      h.Status,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func mapHotels(hotels []models.Hotel) []hotelPayload {
	out := make([]hotelPayload, 0, len(hotels))
	for i := range hotels {
		out = append(out, mapHotel(&hotels[i]))
	}
	return out
}

func mapHotelDetail(d *service.HotelDetail) hotelDetailPayload {
	out := hotelDetailPayload{
		hotelPayload: mapHotel(&d.Hotel),
		Floors:       make([]floorDetailPayload, 0, len(d.Floors)),
	}
	for i := range d.Floors {
		out.Floors = append(out.Floors, mapFloorDetail(&d.Floors[i]))
	}
	return out
}

func mapFloor(f *models.Floor) floorPayload {
	return floorPayload{
		ID:           f.ID,
		HotelID:      f.HotelID,
		FloorNumber:  f.FloorNumber,
		Name:         f.Name,
		DisplayOrder: f.DisplayOrder,
		TotalRooms:   f.TotalRooms,
		FloorAreaSqm: f.FloorAreaSqm,
		Status:       f.Status,
		Notes:        f.Notes,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func mapFloors(floors []models.Floor) []floorPayload {
	out := make([]floorPayload, 0, len(floors))
	for i := range floors {
		out = append(out, mapFloor(&floors[i]))
	}
	return out
}

func mapFloorDetail(f *service.FloorWithRooms) floorDetailPayload {
	return floorDetailPayload{
		floorPayload: mapFloor(&f.Floor),
		Rooms:        mapRooms(f.Rooms),
	}
}

func mapRoom(r *models.Room) roomPayload {
	metadata := r.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return roomPayload{
		ID:          r.ID,
		FloorID:     r.FloorID,
		RoomNumber:  r.RoomNumber,
		RoomType:    r.RoomType,
		BedType:     r.BedType,
		Capacity:    r.Capacity,
		Status:      r.Status,
		Coordinates: mapCoordinates(r.Coordinates),
		BasePrice:   r.BasePrice,
		Currency:    r.Currency,
		Metadata:    metadata,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func mapRooms(rooms []models.Room) []roomPayload {
	out := make([]roomPayload, 0, len(rooms))
	for i := range rooms {
		out = append(out, mapRoom(&rooms[i]))
	}
	return out
}

func mapPagination(f models.HotelFilter, total int) paginationPayload {
	pages := 0
	if f.Limit > 0 {
		pages = (total + f.Limit - 1) / f.Limit
	}
	return paginationPayload{Page: f.Page, Limit: f.Limit, Total: total, TotalPages: pages}
}
