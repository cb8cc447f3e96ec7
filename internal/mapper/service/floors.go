package service

import (
	"context"
	"log"
	"slices"
	"strings"

	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/repository"
)

// ============================================================
// Floor Service
// ============================================================

type FloorService struct {
	repo *repository.Repository
}

func NewFloorService(repo *repository.Repository) *FloorService {
	return &FloorService{repo: repo}
}

type CreateFloorInput struct {
	FloorNumber  int
	Name         string
	DisplayOrder *int
	FloorAreaSqm *float64
	Notes        string
}

type UpdateFloorInput struct {
	Name         *string
	DisplayOrder *int
	FloorAreaSqm *float64
	Status       *string
	Notes        *string
}

func (s *FloorService) Create(ctx context.Context, hotelID string, in CreateFloorInput) (*models.Floor, error) {
	if in.FloorNumber < models.MinFloorNumber || in.FloorNumber > models.MaxFloorNumber {
		return nil, invalidf("floorNumber must be between %d and %d", models.MinFloorNumber, models.MaxFloorNumber)
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.FloorAreaSqm != nil && *in.FloorAreaSqm <= 0 {
		return nil, invalidf("floorAreaSqm must be positive")
	}

	floor := &models.Floor{
		HotelID:      hotelID,
		FloorNumber:  in.FloorNumber,
		Name:         name,
		DisplayOrder: in.FloorNumber,
		FloorAreaSqm: in.FloorAreaSqm,
		Status:       models.FloorActive,
		Notes:        in.Notes,
	}
	if in.DisplayOrder != nil {
		floor.DisplayOrder = *in.DisplayOrder
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetHotel(ctx, hotelID); err != nil {
			return notFound("Hotel", err)
		}
		taken, err := tx.FloorNumberTaken(ctx, hotelID, in.FloorNumber, "")
		if err != nil {
			return err
		}
		if taken {
			return conflictf("Floor number %d already exists for this hotel", in.FloorNumber)
		}
		return tx.CreateFloor(ctx, floor)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[FLOORS] Created floor %s (hotel %s, number %d)", floor.ID, hotelID, floor.FloorNumber)
	return floor, nil
}

func (s *FloorService) List(ctx context.Context, hotelID string) ([]models.Floor, error) {
	if _, err := s.repo.GetHotel(ctx, hotelID); err != nil {
		return nil, notFound("Hotel", err)
	}
	return s.repo.ListFloors(ctx, hotelID)
}

func (s *FloorService) Get(ctx context.Context, id string) (*models.Floor, error) {
	f, err := s.repo.GetFloor(ctx, id)
	if err != nil {
		return nil, notFound("Floor", err)
	}
	return f, nil
}

// Detail возвращает этаж с комнатами.
func (s *FloorService) Detail(ctx context.Context, id string) (*FloorWithRooms, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.ListRooms(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FloorWithRooms{Floor: *f, Rooms: rooms}, nil
}

func (s *FloorService) Update(ctx context.Context, id string, in UpdateFloorInput) (*models.Floor, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if f.Name, err = cleanName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.DisplayOrder != nil {
		f.DisplayOrder = *in.DisplayOrder
	}
	if in.FloorAreaSqm != nil {
		if *in.FloorAreaSqm <= 0 {
			return nil, invalidf("floorAreaSqm must be positive")
		}
		f.FloorAreaSqm = in.FloorAreaSqm
	}
	if in.Status != nil {
		if !slices.Contains(models.FloorStatuses, *in.Status) {
			return nil, invalidf("status must be one of %v", models.FloorStatuses)
		}
		f.Status = *in.Status
	}
	if in.Notes != nil {
		f.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.UpdateFloor(ctx, f); err != nil {
		return nil, notFound("Floor", err)
	}

	log.Printf("[FLOORS] Updated floor %s", f.ID)
	return s.Get(ctx, id)
}

// Delete удаляет пустой этаж; этаж с комнатами удалить нельзя.
func (s *FloorService) Delete(ctx context.Context, id string) error {
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetFloor(ctx, id); err != nil {
			return notFound("Floor", err)
		}
		count, err := tx.CountRooms(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return conflictf("Cannot delete floor with %d rooms. Delete rooms first.", count)
		}
		return tx.DeleteFloor(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Printf("[FLOORS] Deleted floor %s", id)
	return nil
}
