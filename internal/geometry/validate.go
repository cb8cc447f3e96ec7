package geometry

import (
	"fmt"
	"strings"
)

// ============================================================
// Validation
// ============================================================

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Err возвращает *ValidationError для невалидного результата, иначе nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// ValidationError несёт все нарушения сразу, чтобы UI подсветил каждое.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid coordinates: " + strings.Join(e.Errors, "; ")
}

// Validate проверяет прямоугольник без учёта соседей. Проверки не прерываются
// на первой ошибке: в результат попадают все нарушения.
func Validate(r NormalizedRect) ValidationResult {
	errs := []string{}

	if !inUnitRange(r.X) {
		errs = append(errs, fmt.Sprintf("X coordinate must be between 0 and 1 (got %g)", r.X))
	}
	if !inUnitRange(r.Y) {
		errs = append(errs, fmt.Sprintf("Y coordinate must be between 0 and 1 (got %g)", r.Y))
	}
	if !inUnitRange(r.Width) {
		errs = append(errs, fmt.Sprintf("Width must be between 0 and 1 (got %g)", r.Width))
	}
	if !inUnitRange(r.Height) {
		errs = append(errs, fmt.Sprintf("Height must be between 0 and 1 (got %g)", r.Height))
	}

	if r.Width < MinDimension {
		errs = append(errs, fmt.Sprintf("Width must be at least %g (0.5%% of image)", MinDimension))
	}
	if r.Height < MinDimension {
		errs = append(errs, fmt.Sprintf("Height must be at least %g (0.5%% of image)", MinDimension))
	}

	if r.XEnd() > 1 {
		errs = append(errs, "Room extends beyond right edge of image (x + width > 1.0)")
	}
	if r.YEnd() > 1 {
		errs = append(errs, "Room extends beyond bottom edge of image (y + height > 1.0)")
	}

	ratio := r.Width / r.Height
	if !(ratio >= MinAspectRatio && ratio <= MaxAspectRatio) {
		errs = append(errs, fmt.Sprintf("Aspect ratio is too extreme (%.2f). Should be between %g and %g",
			ratio, MinAspectRatio, MaxAspectRatio))
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// inUnitRange ложно и для NaN.
func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
