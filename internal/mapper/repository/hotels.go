package repository

import (
	"context"
	"fmt"
	"strings"

	"hotel-mapper/internal/mapper/models"

	"github.com/google/uuid"
)

// ============================================================
// Hotels
// ============================================================

const hotelColumns = `id, name, slug, description, image_path, image_type, image_width, image_height,
        total_floors, total_rooms, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(row rowScanner) (*models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.Slug, &h.Description, &h.ImagePath, &h.ImageType,
		&h.ImageWidth, &h.ImageHeight, &h.TotalFloors, &h.TotalRooms, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &h, nil
}

// CreateHotel вставляет отель и дополняет h значениями из базы (id, даты).
func (r *Repository) CreateHotel(ctx context.Context, h *models.Hotel) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Status == "" {
		h.Status = models.HotelActive
	}

	_, err := r.q.ExecContext(ctx, `
        INSERT INTO hotels (id, name, slug, description, image_path, image_type, image_width, image_height, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, h.ID, h.Name, h.Slug, h.Description, h.ImagePath, h.ImageType, h.ImageWidth, h.ImageHeight, h.Status)
	if err != nil {
		return fmt.Errorf("insert hotel: %w", mapError(err))
	}

	created, err := r.GetHotel(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *created
	return nil
}

func (r *Repository) GetHotel(ctx context.Context, id string) (*models.Hotel, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id)
	return scanHotel(row)
}

// ListHotels возвращает страницу отелей и общее количество по фильтру.
func (r *Repository) ListHotels(ctx context.Context, f models.HotelFilter) ([]models.Hotel, int, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count hotels: %w", err)
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+hotelColumns+` FROM hotels`+clause+
		` ORDER BY created_at DESC, name ASC LIMIT ? OFFSET ?`, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	hotels := []models.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, total, rows.Err()
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels WHERE slug = ?`, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateHotel сохраняет редактируемые поля, включая данные изображения.
func (r *Repository) UpdateHotel(ctx context.Context, h *models.Hotel) error {
	res, err := r.q.ExecContext(ctx, `
        UPDATE hotels
        SET name = ?, slug = ?, description = ?, status = ?,
            image_path = ?, image_type = ?, image_width = ?, image_height = ?,
            updated_at = `+nowSQL+`
        WHERE id = ?
    `, h.Name, h.Slug, h.Description, h.Status, h.ImagePath, h.ImageType, h.ImageWidth, h.ImageHeight, h.ID)
	if err != nil {
		return fmt.Errorf("update hotel: %w", mapError(err))
	}
	return expectAffected(res)
}

// DeleteHotel удаляет отель; этажи, комнаты и история уходят каскадом.
func (r *Repository) DeleteHotel(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	return expectAffected(res)
}

// adjustHotelCounters сдвигает денормализованные счётчики этажей и комнат.
func (r *Repository) adjustHotelCounters(ctx context.Context, hotelID string, floors, rooms int) error {
	_, err := r.q.ExecContext(ctx, `
        UPDATE hotels
        SET total_floors = MAX(total_floors + ?, 0), total_rooms = MAX(total_rooms + ?, 0)
        WHERE id = ?
    `, floors, rooms, hotelID)
	if err != nil {
		return fmt.Errorf("adjust hotel counters: %w", err)
	}
	return nil
}
