package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/models"

	"github.com/google/uuid"
)

// ============================================================
// Rooms
// ============================================================

const roomColumns = `r.id, r.floor_id, r.room_number, r.room_type, r.bed_type, r.capacity, r.status,
        r.x_coordinate, r.y_coordinate, r.width, r.height, r.base_price, r.currency, r.metadata,
        r.created_at, r.updated_at`

func scanRoom(row rowScanner) (*models.Room, error) {
	var (
		rm       models.Room
		price    sql.NullFloat64
		metadata string
	)
	err := row.Scan(&rm.ID, &rm.FloorID, &rm.RoomNumber, &rm.RoomType, &rm.BedType, &rm.Capacity, &rm.Status,
		&rm.Coordinates.X, &rm.Coordinates.Y, &rm.Coordinates.Width, &rm.Coordinates.Height,
		&price, &rm.Currency, &metadata, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	rm.BasePrice = floatPtr(price)
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &rm.Metadata); err != nil {
			return nil, fmt.Errorf("decode room metadata: %w", err)
		}
	}
	return &rm, nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode room metadata: %w", err)
	}
	return string(data), nil
}

func (r *Repository) queryRooms(ctx context.Context, query string, args ...any) ([]models.Room, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	return rooms, rows.Err()
}

// CreateRoom вставляет комнату и увеличивает счётчики этажа и отеля.
func (r *Repository) CreateRoom(ctx context.Context, rm *models.Room) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	metadata, err := encodeMetadata(rm.Metadata)
	if err != nil {
		return err
	}

	c := rm.Coordinates
	_, err = r.q.ExecContext(ctx, `
        INSERT INTO rooms (id, floor_id, room_number, room_type, bed_type, capacity, status,
                           x_coordinate, y_coordinate, width, height, base_price, currency, metadata)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, rm.ID, rm.FloorID, rm.RoomNumber, rm.RoomType, rm.BedType, rm.Capacity, rm.Status,
		c.X, c.Y, c.Width, c.Height, nullFloat(rm.BasePrice), rm.Currency, metadata)
	if err != nil {
		return fmt.Errorf("insert room: %w", mapError(err))
	}
	if err := r.adjustRoomCounters(ctx, rm.FloorID, 1); err != nil {
		return err
	}

	created, err := r.GetRoom(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = *created
	return nil
}

func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = ?`, id)
	return scanRoom(row)
}

// ListRooms возвращает комнаты этажа, упорядоченные по номеру.
func (r *Repository) ListRooms(ctx context.Context, floorID string) ([]models.Room, error) {
	return r.queryRooms(ctx, `SELECT `+roomColumns+` FROM rooms r
        WHERE r.floor_id = ? ORDER BY r.room_number ASC, r.created_at ASC`, floorID)
}

// ListHotelRooms возвращает все комнаты отеля по этажам.
func (r *Repository) ListHotelRooms(ctx context.Context, hotelID string) ([]models.Room, error) {
	return r.queryRooms(ctx, `SELECT `+roomColumns+` FROM rooms r
        JOIN floors f ON f.id = r.floor_id
        WHERE f.hotel_id = ?
        ORDER BY f.display_order ASC, f.floor_number ASC, r.room_number ASC`, hotelID)
}

// RoomNumberTaken проверяет номер комнаты на этаже, не считая excludeID.
func (r *Repository) RoomNumberTaken(ctx context.Context, floorID, number, excludeID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE floor_id = ? AND room_number = ? AND id <> ?`,
		floorID, number, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateRoom сохраняет описательные поля комнаты; координаты не трогает.
func (r *Repository) UpdateRoom(ctx context.Context, rm *models.Room) error {
	metadata, err := encodeMetadata(rm.Metadata)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx, `
        UPDATE rooms
        SET room_number = ?, room_type = ?, bed_type = ?, capacity = ?, status = ?,
            base_price = ?, currency = ?, metadata = ?, updated_at = `+nowSQL+`
        WHERE id = ?
    `, rm.RoomNumber, rm.RoomType, rm.BedType, rm.Capacity, rm.Status,
		nullFloat(rm.BasePrice), rm.Currency, metadata, rm.ID)
	if err != nil {
		return fmt.Errorf("update room: %w", mapError(err))
	}
	return expectAffected(res)
}

func (r *Repository) UpdateRoomCoordinates(ctx context.Context, id string, c geometry.NormalizedRect) error {
	res, err := r.q.ExecContext(ctx, `
        UPDATE rooms
        SET x_coordinate = ?, y_coordinate = ?, width = ?, height = ?, updated_at = `+nowSQL+`
        WHERE id = ?
    `, c.X, c.Y, c.Width, c.Height, id)
	if err != nil {
		return fmt.Errorf("update room coordinates: %w", err)
	}
	return expectAffected(res)
}

// DeleteRoom удаляет комнату и уменьшает счётчики.
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	rm, err := r.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	return r.adjustRoomCounters(ctx, rm.FloorID, -1)
}

// ============================================================
// Coordinate History
// ============================================================

func (r *Repository) AddCoordinateChange(ctx context.Context, ch *models.CoordinateChange) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}

	_, err := r.q.ExecContext(ctx, `
        INSERT INTO room_coordinate_history
            (id, room_id, old_x, old_y, old_width, old_height, new_x, new_y, new_width, new_height, reason)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, ch.ID, ch.RoomID, ch.Old.X, ch.Old.Y, ch.Old.Width, ch.Old.Height,
		ch.New.X, ch.New.Y, ch.New.Width, ch.New.Height, ch.Reason)
	if err != nil {
		return fmt.Errorf("insert coordinate change: %w", mapError(err))
	}
	return nil
}

// ListCoordinateChanges возвращает историю комнаты, новые записи первыми.
func (r *Repository) ListCoordinateChanges(ctx context.Context, roomID string) ([]models.CoordinateChange, error) {
	rows, err := r.q.QueryContext(ctx, `
        SELECT id, room_id, old_x, old_y, old_width, old_height, new_x, new_y, new_width, new_height, reason, changed_at
        FROM room_coordinate_history
        WHERE room_id = ?
        ORDER BY changed_at DESC, rowid DESC
    `, roomID)
	if err != nil {
		return nil, fmt.Errorf("list coordinate changes: %w", err)
	}
	defer rows.Close()

	changes := []models.CoordinateChange{}
	for rows.Next() {
		var ch models.CoordinateChange
		if err := rows.Scan(&ch.ID, &ch.RoomID,
			&ch.Old.X, &ch.Old.Y, &ch.Old.Width, &ch.Old.Height,
			&ch.New.X, &ch.New.Y, &ch.New.Width, &ch.New.Height,
			&ch.Reason, &ch.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}
	return changes, rows.Err()
}
