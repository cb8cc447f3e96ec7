package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hotel-mapper/internal/mapper/models"

	"github.com/google/uuid"
)

// ============================================================
// Floors
// ============================================================

const floorColumns = `id, hotel_id, floor_number, name, display_order, total_rooms, floor_area_sqm,
        status, notes, created_at, updated_at`

func scanFloor(row rowScanner) (*models.Floor, error) {
	var f models.Floor
	var area sql.NullFloat64
	err := row.Scan(&f.ID, &f.HotelID, &f.FloorNumber, &f.Name, &f.DisplayOrder, &f.TotalRooms, &area,
		&f.Status, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	f.FloorAreaSqm = floatPtr(area)
	return &f, nil
}

// CreateFloor вставляет этаж и увеличивает счётчик этажей отеля.
func (r *Repository) CreateFloor(ctx context.Context, f *models.Floor) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = models.FloorActive
	}

	_, err := r.q.ExecContext(ctx, `
        INSERT INTO floors (id, hotel_id, floor_number, name, display_order, floor_area_sqm, status, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, f.ID, f.HotelID, f.FloorNumber, f.Name, f.DisplayOrder, nullFloat(f.FloorAreaSqm), f.Status, f.Notes)
	if err != nil {
		return fmt.Errorf("insert floor: %w", mapError(err))
	}
	if err := r.adjustHotelCounters(ctx, f.HotelID, 1, 0); err != nil {
		return err
	}

	created, err := r.GetFloor(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

func (r *Repository) GetFloor(ctx context.Context, id string) (*models.Floor, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+floorColumns+` FROM floors WHERE id = ?`, id)
	return scanFloor(row)
}

// ListFloors возвращает этажи отеля в порядке отображения.
func (r *Repository) ListFloors(ctx context.Context, hotelID string) ([]models.Floor, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+floorColumns+` FROM floors
        WHERE hotel_id = ? ORDER BY display_order ASC, floor_number ASC`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	defer rows.Close()

	floors := []models.Floor{}
	for rows.Next() {
		f, err := scanFloor(rows)
		if err != nil {
			return nil, err
		}
		floors = append(floors, *f)
	}
	return floors, rows.Err()
}

// FloorNumberTaken проверяет номер этажа в отеле, не считая excludeID.
func (r *Repository) FloorNumberTaken(ctx context.Context, hotelID string, number int, excludeID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM floors WHERE hotel_id = ? AND floor_number = ? AND id <> ?`,
		hotelID, number, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) UpdateFloor(ctx context.Context, f *models.Floor) error {
	res, err := r.q.ExecContext(ctx, `
        UPDATE floors
        SET floor_number = ?, name = ?, display_order = ?, floor_area_sqm = ?, status = ?, notes = ?,
            updated_at = `+nowSQL+`
        WHERE id = ?
    `, f.FloorNumber, f.Name, f.DisplayOrder, nullFloat(f.FloorAreaSqm), f.Status, f.Notes, f.ID)
	if err != nil {
		return fmt.Errorf("update floor: %w", mapError(err))
	}
	return expectAffected(res)
}

// DeleteFloor удаляет этаж и уменьшает счётчики отеля.
func (r *Repository) DeleteFloor(ctx context.Context, id string) error {
	f, err := r.GetFloor(ctx, id)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM floors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete floor: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	return r.adjustHotelCounters(ctx, f.HotelID, -1, -f.TotalRooms)
}

func (r *Repository) CountRooms(ctx context.Context, floorID string) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE floor_id = ?`, floorID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// adjustRoomCounters сдвигает счётчик комнат этажа и его отеля.
func (r *Repository) adjustRoomCounters(ctx context.Context, floorID string, delta int) error {
	var hotelID string
	err := r.q.QueryRowContext(ctx, `SELECT hotel_id FROM floors WHERE id = ?`, floorID).Scan(&hotelID)
	if err != nil {
		return mapError(err)
	}

	_, err = r.q.ExecContext(ctx, `UPDATE floors SET total_rooms = MAX(total_rooms + ?, 0) WHERE id = ?`, delta, floorID)
	if err != nil {
		return fmt.Errorf("adjust floor counters: %w", err)
	}
	return r.adjustHotelCounters(ctx, hotelID, 0, delta)
}
