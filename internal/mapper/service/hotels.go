package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ============================================================
// Hotel Service
// ============================================================

const maxNameLength = 255

type HotelService struct {
	repo    *repository.Repository
	storage *FileStorage
	images  *ImageInspector
}

func NewHotelService(repo *repository.Repository, storage *FileStorage, images *ImageInspector) *HotelService {
	return &HotelService{repo: repo, storage: storage, images: images}
}

type CreateHotelInput struct {
	Name        string
	Description string
	Image       []byte
}

type UpdateHotelInput struct {
	Name        *string
	Description *string
	Status      *string
}

type FloorWithRooms struct {
	models.Floor
	Rooms []models.Room
}

type HotelDetail struct {
	models.Hotel
	Floors []FloorWithRooms
}

func (s *HotelService) Create(ctx context.Context, in CreateHotelInput) (*models.Hotel, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}

	info, err := s.images.Inspect(in.Image)
	if err != nil {
		return nil, err
	}

	hotelSlug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	hotel := &models.Hotel{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        hotelSlug,
		Description: strings.TrimSpace(in.Description),
		ImageType:   info.ContentType,
		ImageWidth:  info.Width,
		ImageHeight: info.Height,
		Status:      models.HotelActive,
	}

	path, err := s.storage.SaveImage(hotel.ID, imageFileName(info), in.Image)
	if err != nil {
		return nil, err
	}
	hotel.ImagePath = path

	if err := s.repo.CreateHotel(ctx, hotel); err != nil {
		_ = s.storage.RemoveHotel(hotel.ID)
		return nil, err
	}

	log.Printf("[HOTELS] Created hotel %s (%s, %dx%d)", hotel.ID, hotel.Name, hotel.ImageWidth, hotel.ImageHeight)
	return hotel, nil
}

// List возвращает страницу отелей; page и limit приводятся к допустимым значениям.
func (s *HotelService) List(ctx context.Context, f models.HotelFilter) ([]models.Hotel, int, error) {
	if f.Status != "" && !slices.Contains(models.HotelStatuses, f.Status) {
		return nil, 0, invalidf("status must be one of %v", models.HotelStatuses)
	}
	return s.repo.ListHotels(ctx, f.Normalized())
}

func (s *HotelService) Get(ctx context.Context, id string) (*models.Hotel, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, notFound("Hotel", err)
	}
	return h, nil
}

// Detail собирает отель с этажами и комнатами.
func (s *HotelService) Detail(ctx context.Context, id string) (*HotelDetail, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	floors, err := s.repo.ListFloors(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &HotelDetail{Hotel: *h, Floors: make([]FloorWithRooms, 0, len(floors))}
	for _, f := range floors {
		rooms, err := s.repo.ListRooms(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		detail.Floors = append(detail.Floors, FloorWithRooms{Floor: f, Rooms: rooms})
	}
	return detail, nil
}

func (s *HotelService) Update(ctx context.Context, id string, in UpdateHotelInput) (*models.Hotel, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		if name != h.Name {
			if h.Slug, err = s.uniqueSlug(ctx, name); err != nil {
				return nil, err
			}
		}
		h.Name = name
	}
	if in.Description != nil {
		h.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !slices.Contains(models.HotelStatuses, *in.Status) {
			return nil, invalidf("status must be one of %v", models.HotelStatuses)
		}
		h.Status = *in.Status
	}

	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return nil, notFound("Hotel", err)
	}

	log.Printf("[HOTELS] Updated hotel %s", h.ID)
	return s.Get(ctx, id)
}

// ReplaceImage меняет план этажа. Координаты комнат нормализованы и не
// пересчитываются.
func (s *HotelService) ReplaceImage(ctx context.Context, id string, data []byte) (*models.Hotel, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	info, err := s.images.Inspect(data)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.SaveImage(h.ID, imageFileName(info), data)
	if err != nil {
		return nil, err
	}

	old := h.ImagePath
	h.ImagePath = path
	h.ImageType = info.ContentType
	h.ImageWidth = info.Width
	h.ImageHeight = info.Height

	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		_ = s.storage.RemoveFile(path)
		return nil, notFound("Hotel", err)
	}
	if old != path {
		if err := s.storage.RemoveFile(old); err != nil {
			log.Printf("[HOTELS] Failed to remove old image %s: %v", old, err)
		}
	}

	log.Printf("[HOTELS] Replaced image of hotel %s (%dx%d)", h.ID, h.ImageWidth, h.ImageHeight)
	return s.Get(ctx, id)
}

// Delete удаляет отель каскадом вместе с файлами плана.
func (s *HotelService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return notFound("Hotel", err)
	}
	if err := s.storage.RemoveHotel(id); err != nil {
		log.Printf("[HOTELS] Failed to remove files of hotel %s: %v", id, err)
	}
	log.Printf("[HOTELS] Deleted hotel %s", id)
	return nil
}

// Stats считает комнаты по типам и статусам и долю занятых.
func (s *HotelService) Stats(ctx context.Context, id string) (*models.HotelStats, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	floors, err := s.repo.ListFloors(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.ListHotelRooms(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.HotelStats{
		HotelID:       h.ID,
		HotelName:     h.Name,
		TotalFloors:   len(floors),
		TotalRooms:    len(rooms),
		RoomsByType:   map[string]int{},
		RoomsByStatus: map[string]int{},
		OccupancyRate: "0%",
	}
	for _, r := range rooms {
		stats.RoomsByType[r.RoomType]++
		stats.RoomsByStatus[r.Status]++
	}
	if len(rooms) > 0 {
		rate := float64(stats.RoomsByStatus["occupied"]) / float64(len(rooms)) * 100
		stats.OccupancyRate = fmt.Sprintf("%.2f%%", rate)
	}
	return stats, nil
}

// ============================================================
// Helpers
// ============================================================

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidf("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", invalidf("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func (s *HotelService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "hotel"
	}
	for {
		candidate := base + "-" + uuid.NewString()[:8]
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// Slugify переводит название в латиницу и собирает из него slug.
func Slugify(s string) string {
	return slug.Make(s)
}

func imageFileName(info *ImageInfo) string {
	return "plan-" + uuid.NewString()[:8] + info.Extension
}
