package service

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"slices"

	"hotel-mapper/internal/common/config"
	"hotel-mapper/internal/geometry"
)

// ============================================================
// Image Inspection
// ============================================================

// ImageInfo читается из заголовка файла плана.
type ImageInfo struct {
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Extension   string `json:"extension"`
}

func (i *ImageInfo) ImageSize() geometry.ImageSize {
	return geometry.ImageSize{Width: i.Width, Height: i.Height}
}

type ImageInspector struct {
	cfg config.UploadConfig
}

func NewImageInspector(cfg config.UploadConfig) *ImageInspector {
	return &ImageInspector{cfg: cfg}
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Inspect проверяет тип, размер файла и размеры изображения в пикселях.
func (i *ImageInspector) Inspect(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, invalidf("Image file is required")
	}
	if len(data) > i.cfg.MaxFileSize {
		return nil, invalidf("File too large. Maximum size is %d bytes", i.cfg.MaxFileSize)
	}

	contentType := http.DetectContentType(data)
	if !slices.Contains(i.cfg.AllowedTypes, contentType) {
		return nil, invalidf("Invalid file type %s. Allowed types: %v", contentType, i.cfg.AllowedTypes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalidf("Unable to read image dimensions: %v", err)
	}

	if cfg.Width < i.cfg.MinImageWidth || cfg.Height < i.cfg.MinImageHeight {
		return nil, invalidf("Image too small (%dx%d). Minimum is %dx%d",
			cfg.Width, cfg.Height, i.cfg.MinImageWidth, i.cfg.MinImageHeight)
	}
	if cfg.Width > i.cfg.MaxImageDimension || cfg.Height > i.cfg.MaxImageDimension {
		return nil, invalidf("Image too large (%dx%d). Maximum dimension is %d",
			cfg.Width, cfg.Height, i.cfg.MaxImageDimension)
	}

	return &ImageInfo{
		ContentType: contentType,
		Size:        len(data),
		Width:       cfg.Width,
		Height:      cfg.Height,
		Extension:   extensions[contentType],
	}, nil
}
