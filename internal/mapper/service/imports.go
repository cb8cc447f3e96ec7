package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/importer"
	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/repository"
)

// ============================================================
// Room Import
// ============================================================

const (
	ImportCreated  = "created"
	ImportAccepted = "accepted"
	ImportRejected = "rejected"
)

type ImportOutcome struct {
	RoomNumber  string                  `json:"roomNumber"`
	Coordinates geometry.NormalizedRect `json:"coordinates"`
	Status      string                  `json:"status"`
	RoomID      string                  `json:"roomId,omitempty"`
	Errors      []string                `json:"errors,omitempty"`
}

type ImportReport struct {
	DryRun   bool            `json:"dryRun"`
	Accepted int             `json:"accepted"`
	Rejected int             `json:"rejected"`
	Rooms    []ImportOutcome `json:"rooms"`
}

// ImportRooms проверяет кандидатов по очереди: номер, валидатор, пересечения с
// комнатами этажа и уже принятыми кандидатами. Принятые сохраняются одной
// транзакцией, если это не пробный прогон.
func (s *RoomService) ImportRooms(ctx context.Context, floorID string, candidates []importer.Candidate, dryRun bool) (*ImportReport, error) {
	report := &ImportReport{DryRun: dryRun, Rooms: make([]ImportOutcome, 0, len(candidates))}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetFloor(ctx, floorID); err != nil {
			return notFound("Floor", err)
		}
		existing, err := tx.ListRooms(ctx, floorID)
		if err != nil {
			return err
		}

		siblings := models.Siblings(existing)
		numbers := roomNumbers(existing)
		taken := make(map[string]bool, len(existing))
		for _, r := range existing {
			taken[r.RoomNumber] = true
		}

		for i, c := range candidates {
			out := ImportOutcome{RoomNumber: strings.TrimSpace(c.RoomNumber), Coordinates: c.Rect}
			out.Errors = s.judgeCandidate(out, siblings, numbers, taken)
			if len(out.Errors) > 0 {
				out.Status = ImportRejected
				report.Rejected++
				report.Rooms = append(report.Rooms, out)
				continue
			}

			id := fmt.Sprintf("import-%d", i)
			out.Status = ImportAccepted
			if !dryRun {
				room := &models.Room{
					FloorID:     floorID,
					RoomNumber:  out.RoomNumber,
					RoomType:    models.DefaultRoomType,
					BedType:     models.DefaultBedType,
					Capacity:    models.DefaultCapacity,
					Status:      models.DefaultRoomStatus,
					Coordinates: c.Rect,
					Currency:    models.DefaultCurrency,
					Metadata:    map[string]any{"importedFrom": "file"},
				}
				if err := tx.CreateRoom(ctx, room); err != nil {
					return err
				}
				id = room.ID
				out.RoomID = room.ID
				out.Status = ImportCreated
			}

			siblings = append(siblings, geometry.Sibling{ID: id, Rect: c.Rect})
			numbers[id] = out.RoomNumber
			taken[out.RoomNumber] = true
			report.Accepted++
			report.Rooms = append(report.Rooms, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOMS] Import on floor %s: %d accepted, %d rejected (dry run: %v)",
		floorID, report.Accepted, report.Rejected, dryRun)
	return report, nil
}

func (s *RoomService) judgeCandidate(c ImportOutcome, siblings []geometry.Sibling, numbers map[string]string, taken map[string]bool) []string {
	var problems []string
	switch {
	case c.RoomNumber == "":
		problems = append(problems, "Room number is required")
	case len([]rune(c.RoomNumber)) > maxRoomNumberLength:
		problems = append(problems, fmt.Sprintf("Room number must be at most %d characters", maxRoomNumberLength))
	case taken[c.RoomNumber]:
		problems = append(problems, fmt.Sprintf("Room number %s already exists on this floor", c.RoomNumber))
	}

	validation := geometry.Validate(c.Coordinates)
	problems = append(problems, validation.Errors...)
	if !validation.Valid {
		return problems
	}

	res := geometry.CheckOverlap(geometry.OverlapQuery{
		Candidate: c.Coordinates,
		Siblings:  siblings,
		Tolerance: s.tolerance,
	})
	if oe := newOverlapError(res, numbers); oe != nil {
		problems = append(problems, oe.Error())
	}
	return problems
}
