package app

import (
	"context"
	"errors"
	"log"

	"strip-vision/internal/domain/entity"
	"strip-vision/internal/domain/port"
)

type NormalizeService struct {
	users      *UserService
	normalizer port.StripNormalizer
}

// NewNormalizeService создаёт сервис, который управляет нормализацией фото.
func NewNormalizeService(users *UserService, normalizer port.StripNormalizer) *NormalizeService {
	return &NormalizeService{
		users:      users,
		normalizer: normalizer,
	}
}

// ProcessPhoto запускает конвейер и возвращает обрезанную полоску.
func (s *NormalizeService) ProcessPhoto(ctx context.Context, photo []byte) (*entity.StripCrop, error) {
	if s.normalizer == nil {
		return nil, errors.New("normalizer is not configured")
	}

	result, err := s.normalizer.Normalize(ctx, photo)
	if err != nil {
		return nil, err
	}

	if result.Detection.Fallback {
		log.Printf("Warning: strip was not confidently detected, fallback rect used")
	}

	return result, nil
}

// OutlinePhoto возвращает исходное фото с обведённой областью детекции.
func (s *NormalizeService) OutlinePhoto(photo []byte, detection entity.Detection) ([]byte, error) {
	if s.normalizer == nil {
		return nil, errors.New("normalizer is not configured")
	}
	return s.normalizer.Outline(photo, detection)
}
