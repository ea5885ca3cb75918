//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"strip-vision/internal/domain/entity"
)

type Normalizer struct {
	BlurKernel       int
	CannyLow         float32
	CannyHigh        float32
	DilateKernel     int
	DilateIterations int
	MinContourArea   float64
	AspectScoreCap   float64
	CropPadding      int
}

// NewNormalizer создаёт конвейер-заглушку (без OpenCV).
func NewNormalizer() *Normalizer {
	return &Normalizer{
		BlurKernel:       5,
		CannyLow:         50,
		CannyHigh:        150,
		DilateKernel:     3,
		DilateIterations: 2,
		MinContourArea:   100,
		AspectScoreCap:   10,
		CropPadding:      8,
	}
}

// Normalize возвращает ошибку, если сборка без тега gocv.
func (n *Normalizer) Normalize(ctx context.Context, imageData []byte) (*entity.StripCrop, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Outline возвращает ошибку, если сборка без тега gocv.
func (n *Normalizer) Outline(imageData []byte, detection entity.Detection) ([]byte, error) {
	_ = imageData
	_ = detection
	return nil, errors.New("gocv build tag is not enabled")
}
