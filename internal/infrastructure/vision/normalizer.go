//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"gocv.io/x/gocv"

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

// NewNormalizer создаёт конвейер нормализации с порогами по умолчанию.
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

// Normalize находит полоску, доворачивает кадр так, чтобы её длинная ось
// стала вертикальной, и возвращает обрезанный PNG. Отмену контекста
// проверяем между стадиями: отдельные вызовы OpenCV не прерываются.
func (n *Normalizer) Normalize(ctx context.Context, imageData []byte) (*entity.StripCrop, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	srcWidth, srcHeight := mat.Cols(), mat.Rows()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detection := n.locate(mat)

	rotation := entity.SolveRotation(detection.Rect)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rotated := n.rotate(mat, rotation)
	defer rotated.Close()

	// Повторная детекция на повёрнутом кадре даёт точные границы обрезки.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	relocated := n.locate(rotated)
	detection.Fallback = detection.Fallback || relocated.Fallback

	crop := entity.SolveCrop(relocated.Rect, rotated.Cols(), rotated.Rows(), n.CropPadding)
	if crop.Empty() {
		log.Printf("Warning: degenerate crop rect, using full image")
		crop = entity.FullCrop(rotated.Cols(), rotated.Rows())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region := rotated.Region(image.Rect(crop.X, crop.Y, crop.X+crop.Width, crop.Y+crop.Height))
	cropped := region.Clone()
	region.Close()
	defer cropped.Close()

	png, err := encodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &entity.StripCrop{
		ImageWidth:  srcWidth,
		ImageHeight: srcHeight,
		Detection:   detection,
		Rotation:    rotation,
		Crop:        crop,
		PNG:         png,
	}, nil
}

// locate ищет самый крупный вытянутый контур и возвращает прямоугольник
// минимальной площади вокруг него. Никогда не падает: без подходящих
// контуров возвращает резервный прямоугольник.
func (n *Normalizer) locate(mat gocv.Mat) entity.Detection {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(n.BlurKernel, n.BlurKernel), 0, 0, gocv.BorderDefault)

	// Порог подбирается по гистограмме, это снимает зависимость от освещения.
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(binary, &edges, n.CannyLow, n.CannyHigh)

	// Дилатация сшивает разрывы границы, чтобы контур полоски был замкнут.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(n.DilateKernel, n.DilateKernel))
	defer kernel.Close()
	for i := 0; i < n.DilateIterations; i++ {
		gocv.Dilate(edges, &edges, kernel)
	}

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best, largest entity.RotatedRect
	bestScore := -1.0
	largestArea := -1.0

	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		rect := toRotatedRect(gocv.MinAreaRect(c))

		if area > largestArea {
			largestArea = area
			largest = rect
		}
		if area < n.MinContourArea {
			continue
		}

		// Большой вытянутый объект выигрывает и у мелкого шума, и у крупных
		// бесформенных теней; кап по вытянутости отсекает тонкие щепки.
		score := area * math.Min(rect.AspectRatio(), n.AspectScoreCap)
		if score > bestScore {
			bestScore = score
			best = rect
		}
	}

	if bestScore >= 0 {
		return entity.Detection{Rect: best}
	}
	if largestArea >= 0 {
		log.Printf("Warning: no contour above area floor, falling back to largest contour")
		return entity.Detection{Rect: largest, Fallback: true}
	}

	log.Printf("Warning: no contours found, falling back to full image")
	return entity.FullImageDetection(mat.Cols(), mat.Rows())
}

// rotate поворачивает кадр вокруг центра, расширяя холст так, чтобы ничего
// не обрезалось. Открывшиеся поля заливаются белым: полоски обычно сняты
// на светлом фоне, и белая заливка не порождает ложных границ при
// повторной детекции.
func (n *Normalizer) rotate(mat gocv.Mat, angle float64) gocv.Mat {
	width, height := mat.Cols(), mat.Rows()

	rad := angle * math.Pi / 180
	cos := math.Abs(math.Cos(rad))
	sin := math.Abs(math.Sin(rad))
	newWidth := int(math.Ceil(float64(width)*cos + float64(height)*sin))
	newHeight := int(math.Ceil(float64(width)*sin + float64(height)*cos))

	m := gocv.GetRotationMatrix2D(image.Pt(width/2, height/2), angle, 1.0)
	defer m.Close()

	// Сдвигаем перенос так, чтобы центр исходника попал в центр нового холста.
	m.SetDoubleAt(0, 2, m.GetDoubleAt(0, 2)+float64(newWidth)/2-float64(width)/2)
	m.SetDoubleAt(1, 2, m.GetDoubleAt(1, 2)+float64(newHeight)/2-float64(height)/2)

	rotated := gocv.NewMat()
	gocv.WarpAffineWithParams(mat, &rotated, m, image.Pt(newWidth, newHeight),
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return rotated
}

// Outline рисует найденный прямоугольник поверх исходного фото.
func (n *Normalizer) Outline(imageData []byte, detection entity.Detection) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	green := color.RGBA{G: 255, A: 255}
	corners := detection.Rect.Corners()
	for i := 0; i < len(corners); i++ {
		start := corners[i]
		end := corners[(i+1)%len(corners)]
		gocv.Line(&mat,
			image.Pt(int(math.Round(start.X)), int(math.Round(start.Y))),
			image.Pt(int(math.Round(end.X)), int(math.Round(end.Y))),
			green, 2)
	}

	return encodePNG(mat)
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), entity.ErrDecodeFailed
}

// encodePNG кодирует Mat в PNG и копирует байты из нативного буфера.
func encodePNG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func toRotatedRect(r gocv.RotatedRect) entity.RotatedRect {
	return entity.RotatedRect{
		CenterX: float64(r.Center.X),
		CenterY: float64(r.Center.Y),
		Width:   float64(r.Width),
		Height:  float64(r.Height),
		Angle:   r.Angle,
	}
}
