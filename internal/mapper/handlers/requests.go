package handlers

import (
	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/service"
)

// ============================================================
// Request Payloads
// ============================================================

type updateHotelRequest struct {
	Name        *string `json:"name,omitempty" jsonschema:"minLength=1,maxLength=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" jsonschema:"enum=active,enum=inactive,enum=draft"`
}

type createFloorRequest struct {
	FloorNumber  *int     `json:"floorNumber" jsonschema:"required,minimum=-10,maximum=200"`
	Name         string   `json:"name" jsonschema:"required,minLength=1,maxLength=255"`
	DisplayOrder *int     `json:"displayOrder,omitempty"`
	FloorAreaSqm *float64 `json:"floorAreaSqm,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

type updateFloorRequest struct {
	Name         *string  `json:"name,omitempty" jsonschema:"minLength=1,maxLength=255"`
	DisplayOrder *int     `json:"displayOrder,omitempty"`
	FloorAreaSqm *float64 `json:"floorAreaSqm,omitempty"`
	Status       *string  `json:"status,omitempty" jsonschema:"enum=active,enum=inactive,enum=maintenance"`
	Notes        *string  `json:"notes,omitempty"`
}

type createRoomRequest struct {
	RoomNumber  string                   `json:"roomNumber" jsonschema:"required,minLength=1,maxLength=50"`
	RoomType    string                   `json:"roomType,omitempty" jsonschema:"enum=standard,enum=deluxe,enum=suite,enum=presidential,enum=accessible"`
	BedType     string                   `json:"bedType,omitempty" jsonschema:"enum=single,enum=double,enum=queen,enum=king,enum=twin,enum=sofa_bed"`
	Capacity    *int                     `json:"capacity,omitempty" jsonschema:"minimum=1,maximum=20"`
	Coordinates *geometry.NormalizedRect `json:"coordinates" jsonschema:"required"`
	BasePrice   *float64                 `json:"basePrice,omitempty"`
	Currency    string                   `json:"currency,omitempty" jsonschema:"minLength=3,maxLength=3"`
	Metadata    map[string]any           `json:"metadata,omitempty"`
}

type updateRoomRequest struct {
	RoomNumber *string        `json:"roomNumber,omitempty" jsonschema:"minLength=1,maxLength=50"`
	RoomType   *string        `json:"roomType,omitempty" jsonschema:"enum=standard,enum=deluxe,enum=suite,enum=presidential,enum=accessible"`
	BedType    *string        `json:"bedType,omitempty" jsonschema:"enum=single,enum=double,enum=queen,enum=king,enum=twin,enum=sofa_bed"`
	Capacity   *int           `json:"capacity,omitempty" jsonschema:"minimum=1,maximum=20"`
	Status     *string        `json:"status,omitempty" jsonschema:"enum=available,enum=occupied,enum=maintenance,enum=out_of_order,enum=cleaning"`
	BasePrice  *float64       `json:"basePrice,omitempty"`
	Currency   *string        `json:"currency,omitempty" jsonschema:"minLength=3,maxLength=3"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type updateCoordinatesRequest struct {
	Coordinates  *geometry.NormalizedRect `json:"coordinates" jsonschema:"required"`
	ChangeReason string                   `json:"changeReason,omitempty"`
}

type pixelCoordinates struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type validatePlacementRequest struct {
	Coordinates      *geometry.NormalizedRect `json:"coordinates,omitempty"`
	PixelCoordinates *pixelCoordinates        `json:"pixelCoordinates,omitempty"`
	ExcludeRoomID    string                   `json:"excludeRoomId,omitempty"`
}

func (r createFloorRequest) input() service.CreateFloorInput {
	return service.CreateFloorInput{
		FloorNumber:  *r.FloorNumber,
		Name:         r.Name,
		DisplayOrder: r.DisplayOrder,
		FloorAreaSqm: r.FloorAreaSqm,
		Notes:        r.Notes,
	}
}

func (r createRoomRequest) input() service.CreateRoomInput {
	return service.CreateRoomInput{
		RoomNumber:  r.RoomNumber,
		RoomType:    r.RoomType,
		BedType:     r.BedType,
		Capacity:    r.Capacity,
		Coordinates: *r.Coordinates,
		BasePrice:   r.BasePrice,
		Currency:    r.Currency,
		Metadata:    r.Metadata,
	}
}

func (r validatePlacementRequest) input() service.PlacementInput {
	in := service.PlacementInput{
		Coordinates:   r.Coordinates,
		ExcludeRoomID: r.ExcludeRoomID,
	}
	if p := r.PixelCoordinates; p != nil {
		in.Pixels = &geometry.PixelRect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
	}
	return in
}
