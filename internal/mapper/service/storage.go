package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage хранит планы этажей на диске: <root>/<hotelID>/plan-<stamp><ext>.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) HotelDir(hotelID string) string {
	return filepath.Join(s.root, hotelID)
}

func (s *FileStorage) ImagePath(hotelID, name string) string {
	return filepath.Join(s.HotelDir(hotelID), name)
}

func (s *FileStorage) EnsureDir(hotelID string) error {
	path := s.HotelDir(hotelID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir hotel dir: %w", err)
	}
	return nil
}

// SaveImage записывает файл плана и возвращает путь к нему.
func (s *FileStorage) SaveImage(hotelID, name string, data []byte) (string, error) {
	if err := s.EnsureDir(hotelID); err != nil {
		return "", err
	}
	target := s.ImagePath(hotelID, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return target, nil
}

// RemoveFile удаляет файл; отсутствие файла ошибкой не считается.
func (s *FileStorage) RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *FileStorage) RemoveHotel(hotelID string) error {
	if err := os.RemoveAll(s.HotelDir(hotelID)); err != nil {
		return fmt.Errorf("remove hotel dir: %w", err)
	}
	return nil
}
