package port

import (
	"context"

	"strip-vision/internal/domain/entity"
)

// StripNormalizer интерфейс конвейера нормализации тест-полоски
type StripNormalizer interface {
	// Normalize находит полоску на фото, доворачивает её до вертикали
	// и возвращает обрезанный PNG вместе с геометрией детекции
	Normalize(ctx context.Context, imageData []byte) (*entity.StripCrop, error)

	// Outline рисует найденный прямоугольник поверх исходного фото
	Outline(imageData []byte, detection entity.Detection) ([]byte, error)
}
