package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"environment"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	DBPath      string   `yaml:"db_path"`
	StorageRoot string   `yaml:"storage_root"`
	PublicURL   string   `yaml:"public_url"`
	MapperURL   string   `yaml:"mapper_url"`
	CORSOrigins []string `yaml:"cors_origins"`

	Upload  UploadConfig  `yaml:"upload"`
	Mapping MappingConfig `yaml:"mapping"`
}

// UploadConfig задаёт ограничения на загружаемые планы этажей.
type UploadConfig struct {
	MaxFileSize       int      `yaml:"max_file_size"`
	AllowedTypes      []string `yaml:"allowed_types"`
	MinImageWidth     int      `yaml:"min_image_width"`
	MinImageHeight    int      `yaml:"min_image_height"`
	MaxImageDimension int      `yaml:"max_image_dimension"`
}

// MappingConfig настраивает движок пересечений.
type MappingConfig struct {
	OverlapTolerance float64 `yaml:"overlap_tolerance"`
	NeighborDistance float64 `yaml:"neighbor_distance"`
}

func defaults(port string) *Config {
	return &Config{
		Port:         port,
		Environment:  "development",
		ReadTimeout:  10,
		WriteTimeout: 10,
		DBPath:       "data/db/mapper.db",
		StorageRoot:  "data/uploads",
		PublicURL:    "http://localhost:3000",
		MapperURL:    "http://localhost:3001",
		CORSOrigins:  []string{"*"},
		Upload: UploadConfig{
			MaxFileSize:       10 << 20,
			AllowedTypes:      []string{"image/png", "image/jpeg"},
			MinImageWidth:     800,
			MinImageHeight:    600,
			MaxImageDimension: 10000,
		},
		Mapping: MappingConfig{
			OverlapTolerance: 0.05,
			NeighborDistance: 0.1,
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE
// (если задан), затем переменные окружения. defaultPort используется, только
// если порт не задан ни файлом, ни PORT.
func Load(defaultPort string) (*Config, error) {
	cfg := defaults(defaultPort)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.StorageRoot = getEnv("STORAGE_ROOT", cfg.StorageRoot)
	cfg.PublicURL = strings.TrimRight(getEnv("PUBLIC_URL", cfg.PublicURL), "/")
	cfg.MapperURL = strings.TrimRight(getEnv("MAPPER_URL", cfg.MapperURL), "/")
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Upload.MaxFileSize = getEnvAsInt("MAX_FILE_SIZE", cfg.Upload.MaxFileSize)
	cfg.Upload.AllowedTypes = getEnvAsList("ALLOWED_FILE_TYPES", cfg.Upload.AllowedTypes)
	cfg.Upload.MinImageWidth = getEnvAsInt("MIN_IMAGE_WIDTH", cfg.Upload.MinImageWidth)
	cfg.Upload.MinImageHeight = getEnvAsInt("MIN_IMAGE_HEIGHT", cfg.Upload.MinImageHeight)
	cfg.Upload.MaxImageDimension = getEnvAsInt("MAX_IMAGE_DIMENSION", cfg.Upload.MaxImageDimension)

	cfg.Mapping.OverlapTolerance = getEnvAsFloat("OVERLAP_TOLERANCE", cfg.Mapping.OverlapTolerance)
	cfg.Mapping.NeighborDistance = getEnvAsFloat("NEIGHBOR_DISTANCE", cfg.Mapping.NeighborDistance)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate отклоняет значения, с которыми сервис работать не сможет.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if t := c.Mapping.OverlapTolerance; !(t > 0 && t <= 1) {
		errs = append(errs, fmt.Errorf("overlap_tolerance must be in (0, 1], got %g", t))
	}
	if c.Mapping.NeighborDistance <= 0 {
		errs = append(errs, fmt.Errorf("neighbor_distance must be positive, got %g", c.Mapping.NeighborDistance))
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, errors.New("upload.max_file_size must be positive"))
	}
	if len(c.Upload.AllowedTypes) == 0 {
		errs = append(errs, errors.New("upload.allowed_types must not be empty"))
	}
	if c.Upload.MaxImageDimension < c.Upload.MinImageWidth || c.Upload.MaxImageDimension < c.Upload.MinImageHeight {
		errs = append(errs, errors.New("upload.max_image_dimension is below the minimum image size"))
	}
	return errors.Join(errs...)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
