package entity

import "math"

// Point точка на изображении в координатах с плавающей запятой.
type Point struct {
	X float64
	Y float64
}

// RotatedRect прямоугольник минимальной площади вокруг контура.
// Angle — поворот ребра Width от горизонтали в градусах. Диапазон угла
// зависит от версии OpenCV ([-90, 0) или (0, 90]), поэтому код ниже
// не полагается на конкретную конвенцию.
type RotatedRect struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
	Angle   float64
}

// LongSide возвращает длинную сторону прямоугольника.
func (r RotatedRect) LongSide() float64 {
	return math.Max(r.Width, r.Height)
}

// ShortSide возвращает короткую сторону прямоугольника.
func (r RotatedRect) ShortSide() float64 {
	return math.Min(r.Width, r.Height)
}

// AspectRatio возвращает отношение длинной стороны к короткой.
// Для вырожденного прямоугольника возвращает 0.
func (r RotatedRect) AspectRatio() float64 {
	short := r.ShortSide()
	if short <= 0 {
		return 0
	}
	return r.LongSide() / short
}

// Corners возвращает четыре угла прямоугольника.
func (r RotatedRect) Corners() [4]Point {
	rad := r.Angle * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	halfW := r.Width / 2
	halfH := r.Height / 2

	return [4]Point{
		{X: r.CenterX + halfW*cos - halfH*sin, Y: r.CenterY + halfW*sin + halfH*cos},
		{X: r.CenterX - halfW*cos - halfH*sin, Y: r.CenterY - halfW*sin + halfH*cos},
		{X: r.CenterX - halfW*cos + halfH*sin, Y: r.CenterY - halfW*sin - halfH*cos},
		{X: r.CenterX + halfW*cos + halfH*sin, Y: r.CenterY + halfW*sin - halfH*cos},
	}
}

// SolveRotation вычисляет минимальный угол поворота (в градусах, против
// часовой стрелки при положительном значении), который делает длинную ось
// прямоугольника вертикальной. Результат всегда в диапазоне [-90, 90].
// Поворот на 180° эквивалентен нулевому: верх и низ полоски не различаются.
func SolveRotation(r RotatedRect) float64 {
	longAxis := r.Angle
	if r.Height > r.Width {
		longAxis += 90
	}

	// Нормализуем ось в (-180, 180].
	for longAxis > 180 {
		longAxis -= 360
	}
	for longAxis <= -180 {
		longAxis += 360
	}

	rotation := 90 - longAxis
	for rotation > 90 {
		rotation -= 180
	}
	for rotation < -90 {
		rotation += 180
	}

	return rotation
}

// CropRect целочисленный прямоугольник обрезки, выровненный по осям.
// SolveCrop гарантирует, что он не выходит за границы изображения.
type CropRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty сообщает, выродился ли прямоугольник в пустую область.
func (c CropRect) Empty() bool {
	return c.Width <= 0 || c.Height <= 0
}

// FullCrop возвращает прямоугольник, покрывающий всё изображение.
func FullCrop(imageWidth, imageHeight int) CropRect {
	return CropRect{X: 0, Y: 0, Width: imageWidth, Height: imageHeight}
}

// SolveCrop строит осевой прямоугольник обрезки вокруг найденной полоски:
// берёт ограничивающую рамку углов, расширяет её на padding пикселей с
// каждой стороны и прижимает к границам изображения.
func SolveCrop(r RotatedRect, imageWidth, imageHeight, padding int) CropRect {
	corners := r.Corners()

	minX, maxX := corners[0].X, corners[0].X
	minY, maxY := corners[0].Y, corners[0].Y
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// Сдвиг на эпсилон гасит ошибку плавающей запятой на углах, кратных 90°.
	const eps = 1e-9
	x0 := clampInt(int(math.Floor(minX+eps))-padding, 0, imageWidth)
	x1 := clampInt(int(math.Ceil(maxX-eps))+padding, 0, imageWidth)
	y0 := clampInt(int(math.Floor(minY+eps))-padding, 0, imageHeight)
	y1 := clampInt(int(math.Ceil(maxY-eps))+padding, 0, imageHeight)

	return CropRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
