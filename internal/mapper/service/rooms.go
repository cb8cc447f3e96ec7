package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"hotel-mapper/internal/common/config"
	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/repository"
)

// ============================================================
// Room Service
// ============================================================

const maxRoomNumberLength = 50

// RoomService размещает комнаты на этаже: проверяет прямоугольник движком
// геометрии и сохраняет результат. Проверка и запись идут в одной транзакции.
type RoomService struct {
	repo             *repository.Repository
	tolerance        float64
	neighborDistance float64
}

func NewRoomService(repo *repository.Repository, cfg config.MappingConfig) *RoomService {
	return &RoomService{
		repo:             repo,
		tolerance:        cfg.OverlapTolerance,
		neighborDistance: cfg.NeighborDistance,
	}
}

type CreateRoomInput struct {
	RoomNumber  string
	RoomType    string
	BedType     string
	Capacity    *int
	Coordinates geometry.NormalizedRect
	BasePrice   *float64
	Currency    string
	Metadata    map[string]any
}

type UpdateRoomInput struct {
	RoomNumber *string
	RoomType   *string
	BedType    *string
	Capacity   *int
	Status     *string
	BasePrice  *float64
	Currency   *string
	Metadata   map[string]any
}

func (s *RoomService) Create(ctx context.Context, floorID string, in CreateRoomInput) (*models.Room, error) {
	room := &models.Room{
		FloorID:     floorID,
		RoomNumber:  strings.TrimSpace(in.RoomNumber),
		RoomType:    orDefault(in.RoomType, models.DefaultRoomType),
		BedType:     orDefault(in.BedType, models.DefaultBedType),
		Capacity:    models.DefaultCapacity,
		Status:      models.DefaultRoomStatus,
		Coordinates: in.Coordinates,
		BasePrice:   in.BasePrice,
		Currency:    strings.ToUpper(orDefault(in.Currency, models.DefaultCurrency)),
		Metadata:    in.Metadata,
	}
	if in.Capacity != nil {
		room.Capacity = *in.Capacity
	}
	if err := checkRoomDetails(room); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetFloor(ctx, floorID); err != nil {
			return notFound("Floor", err)
		}
		taken, err := tx.RoomNumberTaken(ctx, floorID, room.RoomNumber, "")
		if err != nil {
			return err
		}
		if taken {
			return conflictf("Room number %s already exists on this floor", room.RoomNumber)
		}
		if err := s.checkPlacement(ctx, tx, floorID, room.Coordinates, ""); err != nil {
			return err
		}
		return tx.CreateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOMS] Created room %s (floor %s, number %s)", room.ID, floorID, room.RoomNumber)
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, notFound("Room", err)
	}
	return r, nil
}

// List возвращает комнаты этажа по номерам.
func (s *RoomService) List(ctx context.Context, floorID string) ([]models.Room, error) {
	if _, err := s.repo.GetFloor(ctx, floorID); err != nil {
		return nil, notFound("Floor", err)
	}
	return s.repo.ListRooms(ctx, floorID)
}

// Update меняет описательные поля; координаты меняются только через UpdateCoordinates.
func (s *RoomService) Update(ctx context.Context, id string, in UpdateRoomInput) (*models.Room, error) {
	var room *models.Room
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if room, err = tx.GetRoom(ctx, id); err != nil {
			return notFound("Room", err)
		}

		if in.RoomNumber != nil {
			number := strings.TrimSpace(*in.RoomNumber)
			if number != room.RoomNumber {
				taken, err := tx.RoomNumberTaken(ctx, room.FloorID, number, room.ID)
				if err != nil {
					return err
				}
				if taken {
					return conflictf("Room number %s already exists on this floor", number)
				}
			}
			room.RoomNumber = number
		}
		if in.RoomType != nil {
			room.RoomType = *in.RoomType
		}
		if in.BedType != nil {
			room.BedType = *in.BedType
		}
		if in.Capacity != nil {
			room.Capacity = *in.Capacity
		}
		if in.Status != nil {
			room.Status = *in.Status
		}
		if in.BasePrice != nil {
			room.BasePrice = in.BasePrice
		}
		if in.Currency != nil {
			room.Currency = strings.ToUpper(*in.Currency)
		}
		if in.Metadata != nil {
			room.Metadata = in.Metadata
		}

		if err := checkRoomDetails(room); err != nil {
			return err
		}
		if err := tx.UpdateRoom(ctx, room); err != nil {
			return err
		}
		room, err = tx.GetRoom(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOMS] Updated room %s", id)
	return room, nil
}

// UpdateCoordinates перемещает комнату. Сама комната исключается из проверки
// пересечений, изменение пишется в историю.
func (s *RoomService) UpdateCoordinates(ctx context.Context, id string, rect geometry.NormalizedRect, reason string) (*models.Room, error) {
	var room *models.Room
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetRoom(ctx, id)
		if err != nil {
			return notFound("Room", err)
		}
		if err := s.checkPlacement(ctx, tx, current.FloorID, rect, current.ID); err != nil {
			return err
		}

		if rect != current.Coordinates {
			if err := tx.UpdateRoomCoordinates(ctx, id, rect); err != nil {
				return err
			}
			change := &models.CoordinateChange{
				RoomID: id,
				Old:    current.Coordinates,
				New:    rect,
				Reason: strings.TrimSpace(reason),
			}
			if err := tx.AddCoordinateChange(ctx, change); err != nil {
				return err
			}
		}

		room, err = tx.GetRoom(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOMS] Moved room %s to (%.4f, %.4f, %.4f x %.4f)", id, rect.X, rect.Y, rect.Width, rect.Height)
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		return notFound("Room", err)
	}
	log.Printf("[ROOMS] Deleted room %s", id)
	return nil
}

// History возвращает историю координат комнаты.
func (s *RoomService) History(ctx context.Context, id string) ([]models.CoordinateChange, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListCoordinateChanges(ctx, id)
}

// ============================================================
// Spatial Queries
// ============================================================

// Neighbors ищет комнаты того же этажа, центры которых не дальше maxDistance.
// maxDistance <= 0 заменяется значением из конфигурации.
func (s *RoomService) Neighbors(ctx context.Context, id string, maxDistance float64) ([]models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if maxDistance <= 0 {
		maxDistance = s.neighborDistance
	}

	rooms, err := s.repo.ListRooms(ctx, room.FloorID)
	if err != nil {
		return nil, err
	}

	found := geometry.FindNeighbors(room.Sibling(), models.Siblings(rooms), maxDistance)
	return pickRooms(rooms, found), nil
}

// RoomAt возвращает комнату этажа под нормализованной точкой.
func (s *RoomService) RoomAt(ctx context.Context, floorID string, p geometry.Point) (*models.Room, error) {
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return nil, invalidf("point must be inside the unit square (got %g, %g)", p.X, p.Y)
	}

	rooms, err := s.List(ctx, floorID)
	if err != nil {
		return nil, err
	}

	hit, ok := geometry.FindAtPoint(p, models.Siblings(rooms))
	if !ok {
		return nil, &NotFoundError{Resource: "Room"}
	}
	picked := pickRooms(rooms, []geometry.Sibling{hit})
	return &picked[0], nil
}

// ============================================================
// Dry-run Validation
// ============================================================

// PlacementInput принимает кандидата в нормализованных или пиксельных координатах.
// Пиксели пересчитываются по размеру плана отеля.
type PlacementInput struct {
	Coordinates   *geometry.NormalizedRect
	Pixels        *geometry.PixelRect
	ExcludeRoomID string
}

type PlacementVerdict struct {
	Valid            bool                      `json:"valid"`
	Coordinates      geometry.NormalizedRect   `json:"coordinates"`
	Validation       geometry.ValidationResult `json:"validation"`
	HasOverlap       bool                      `json:"hasOverlap"`
	OverlappingRooms []OverlappingRoom         `json:"overlappingRooms"`
}

// ValidatePlacement выносит вердикт по кандидату, ничего не сохраняя.
func (s *RoomService) ValidatePlacement(ctx context.Context, floorID string, in PlacementInput) (*PlacementVerdict, error) {
	var rect geometry.NormalizedRect
	switch {
	case in.Coordinates != nil:
		rect = *in.Coordinates
	case in.Pixels != nil:
		img, err := s.FloorImageSize(ctx, floorID)
		if err != nil {
			return nil, err
		}
		px := *in.Pixels
		px.Image = img
		rect = geometry.Normalize(px)
	default:
		return nil, invalidf("coordinates or pixelCoordinates are required")
	}

	rooms, err := s.List(ctx, floorID)
	if err != nil {
		return nil, err
	}

	verdict := &PlacementVerdict{
		Coordinates:      rect,
		Validation:       geometry.Validate(rect),
		OverlappingRooms: []OverlappingRoom{},
	}
	overlap := geometry.CheckOverlap(geometry.OverlapQuery{
		Candidate: rect,
		Siblings:  models.Siblings(rooms),
		ExcludeID: in.ExcludeRoomID,
		Tolerance: s.tolerance,
	})
	if oe := newOverlapError(overlap, roomNumbers(rooms)); oe != nil {
		verdict.HasOverlap = true
		verdict.OverlappingRooms = oe.Rooms
	}
	verdict.Valid = verdict.Validation.Valid && !verdict.HasOverlap
	return verdict, nil
}

// FloorImageSize возвращает размер плана отеля, которому принадлежит этаж.
func (s *RoomService) FloorImageSize(ctx context.Context, floorID string) (geometry.ImageSize, error) {
	floor, err := s.repo.GetFloor(ctx, floorID)
	if err != nil {
		return geometry.ImageSize{}, notFound("Floor", err)
	}
	hotel, err := s.repo.GetHotel(ctx, floor.HotelID)
	if err != nil {
		return geometry.ImageSize{}, notFound("Hotel", err)
	}
	img := hotel.ImageSize()
	if err := img.Validate(); err != nil {
		return geometry.ImageSize{}, fmt.Errorf("hotel %s: %w", hotel.ID, err)
	}
	return img, nil
}

// ============================================================
// Helpers
// ============================================================

// checkPlacement валидирует прямоугольник и проверяет пересечения с комнатами этажа.
func (s *RoomService) checkPlacement(ctx context.Context, tx *repository.Repository, floorID string, rect geometry.NormalizedRect, excludeID string) error {
	if err := geometry.Validate(rect).Err(); err != nil {
		return err
	}

	rooms, err := tx.ListRooms(ctx, floorID)
	if err != nil {
		return err
	}

	res := geometry.CheckOverlap(geometry.OverlapQuery{
		Candidate: rect,
		Siblings:  models.Siblings(rooms),
		ExcludeID: excludeID,
		Tolerance: s.tolerance,
	})
	if oe := newOverlapError(res, roomNumbers(rooms)); oe != nil {
		return oe
	}
	return nil
}

func checkRoomDetails(r *models.Room) error {
	var problems []string
	if n := len([]rune(r.RoomNumber)); n == 0 || n > maxRoomNumberLength {
		problems = append(problems, fmt.Sprintf("roomNumber must be 1-%d characters", maxRoomNumberLength))
	}
	if !slices.Contains(models.RoomTypes, r.RoomType) {
		problems = append(problems, fmt.Sprintf("roomType must be one of %v", models.RoomTypes))
	}
	if !slices.Contains(models.BedTypes, r.BedType) {
		problems = append(problems, fmt.Sprintf("bedType must be one of %v", models.BedTypes))
	}
	if !slices.Contains(models.RoomStatuses, r.Status) {
		problems = append(problems, fmt.Sprintf("status must be one of %v", models.RoomStatuses))
	}
	if r.Capacity < models.MinCapacity || r.Capacity > models.MaxCapacity {
		problems = append(problems, fmt.Sprintf("capacity must be between %d and %d", models.MinCapacity, models.MaxCapacity))
	}
	if r.BasePrice != nil && *r.BasePrice < 0 {
		problems = append(problems, "basePrice must not be negative")
	}
	if len(r.Currency) != 3 {
		problems = append(problems, "currency must be a 3-letter code")
	}
	if len(problems) > 0 {
		return invalidf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func roomNumbers(rooms []models.Room) map[string]string {
	out := make(map[string]string, len(rooms))
	for _, r := range rooms {
		out[r.ID] = r.RoomNumber
	}
	return out
}

// pickRooms возвращает комнаты в порядке найденных движком.
func pickRooms(rooms []models.Room, found []geometry.Sibling) []models.Room {
	byID := make(map[string]models.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	out := make([]models.Room, 0, len(found))
	for _, f := range found {
		if r, ok := byID[f.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
