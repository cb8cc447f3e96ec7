package service

import (
	"errors"
	"fmt"
	"strings"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/repository"
)

// ============================================================
// Service Errors
// ============================================================

var (
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("conflict")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundError сообщает, какая сущность не найдена.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == repository.ErrNotFound }

// notFound подменяет repository.ErrNotFound на NotFoundError с именем сущности.
func notFound(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return err
}

type OverlappingRoom struct {
	ID                string                  `json:"id"`
	RoomNumber        string                  `json:"roomNumber"`
	OverlapPercentage float64                 `json:"overlapPercentage"`
	Coordinates       geometry.NormalizedRect `json:"coordinates"`
}

// OverlapError означает, что кандидат пересекает соседей сверх допуска.
type OverlapError struct {
	Rooms []OverlappingRoom
}

func (e *OverlapError) Error() string {
	numbers := make([]string, 0, len(e.Rooms))
	for _, r := range e.Rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	return "Room overlaps with existing rooms: " + strings.Join(numbers, ", ")
}

// newOverlapError переводит конфликты движка в комнаты с номерами.
func newOverlapError(res geometry.OverlapResult, numbers map[string]string) *OverlapError {
	if !res.HasOverlap {
		return nil
	}
	rooms := make([]OverlappingRoom, 0, len(res.Conflicts))
	for _, c := range res.Conflicts {
		rooms = append(rooms, OverlappingRoom{
			ID:                c.ID,
			RoomNumber:        numbers[c.ID],
			OverlapPercentage: c.Percentage,
			Coordinates:       c.Rect,
		})
	}
	return &OverlapError{Rooms: rooms}
}
