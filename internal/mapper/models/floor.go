package models

// ============================================================
// Floor Model
// ============================================================

const (
	FloorActive      = "active"
	FloorInactive    = "inactive"
	FloorMaintenance = "maintenance"

	MinFloorNumber = -10
	MaxFloorNumber = 200
)

var FloorStatuses = []string{FloorActive, FloorInactive, FloorMaintenance}

// Floor ограничивает проверку пересечений: конфликтуют только комнаты одного этажа.
type Floor struct {
	ID           string
	HotelID      string
	FloorNumber  int
	Name         string
	DisplayOrder int
	TotalRooms   int
	FloorAreaSqm *float64
	Status       string
	Notes        string
	CreatedAt    string
	UpdatedAt    string
}
