package models

import "hotel-mapper/internal/geometry"

// ============================================================
// Room Model
// ============================================================

var (
	RoomTypes    = []string{"standard", "deluxe", "suite", "presidential", "accessible"}
	BedTypes     = []string{"single", "double", "queen", "king", "twin", "sofa_bed"}
	RoomStatuses = []string{"available", "occupied", "maintenance", "out_of_order", "cleaning"}
)

const (
	DefaultRoomType   = "standard"
	DefaultBedType    = "double"
	DefaultRoomStatus = "available"
	DefaultCapacity   = 2
	DefaultCurrency   = "USD"

	MinCapacity = 1
	MaxCapacity = 20
)

type Room struct {
	ID          string
	FloorID     string
	RoomNumber  string
	RoomType    string
	BedType     string
	Capacity    int
	Status      string
	Coordinates geometry.NormalizedRect
	BasePrice   *float64
	Currency    string
	Metadata    map[string]any
	CreatedAt   string
	UpdatedAt   string
}

// Sibling представляет комнату для движка пересечений.
func (r *Room) Sibling() geometry.Sibling {
	return geometry.Sibling{ID: r.ID, Rect: r.Coordinates}
}

// Siblings переводит комнаты этажа во входные данные движка, сохраняя порядок.
func Siblings(rooms []Room) []geometry.Sibling {
	out := make([]geometry.Sibling, 0, len(rooms))
	for i := range rooms {
		out = append(out, rooms[i].Sibling())
	}
	return out
}

// CoordinateChange хранит одну запись истории перемещений комнаты.
type CoordinateChange struct {
	ID        string                  `json:"id"`
	RoomID    string                  `json:"roomId"`
	Old       geometry.NormalizedRect `json:"oldCoordinates"`
	New       geometry.NormalizedRect `json:"newCoordinates"`
	Reason    string                  `json:"changeReason,omitempty"`
	ChangedAt string                  `json:"changedAt"`
}
