package entity

import "errors"

// ErrDecodeFailed входные байты не распознаны ни одним поддерживаемым
// форматом изображения. Повтор запроса с теми же байтами бессмысленен.
var ErrDecodeFailed = errors.New("failed to decode image")

// Detection результат поиска полоски на изображении.
// Fallback=true означает, что уверенной детекции не было и Rect покрывает
// либо крупнейший найденный контур, либо весь кадр.
type Detection struct {
	Rect     RotatedRect
	Fallback bool
}

// FullImageDetection возвращает резервную детекцию на весь кадр под углом 0.
func FullImageDetection(imageWidth, imageHeight int) Detection {
	return Detection{
		Rect: RotatedRect{
			CenterX: float64(imageWidth) / 2,
			CenterY: float64(imageHeight) / 2,
			Width:   float64(imageWidth),
			Height:  float64(imageHeight),
			Angle:   0,
		},
		Fallback: true,
	}
}

// StripCrop итог нормализации: вертикально ориентированная обрезанная
// полоска в PNG плюс промежуточная геометрия для диагностики.
type StripCrop struct {
	ImageWidth  int       // ширина исходного изображения
	ImageHeight int       // высота исходного изображения
	Detection   Detection // детекция на исходном изображении
	Rotation    float64   // применённый поворот в градусах
	Crop        CropRect  // итоговая область обрезки на повёрнутом кадре
	PNG         []byte    // закодированный результат
}
