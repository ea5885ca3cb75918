package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveRotation_HorizontalStrip(t *testing.T) {
	// Длинная ось горизонтальна, нужен поворот на 90°.
	r := RotatedRect{CenterX: 100, CenterY: 100, Width: 200, Height: 20, Angle: 0}
	require.InDelta(t, 90, SolveRotation(r), 1e-9)
}

func TestSolveRotation_VerticalStrip(t *testing.T) {
	// Длинная ось уже вертикальна, поворот не нужен.
	r := RotatedRect{CenterX: 100, CenterY: 100, Width: 20, Height: 200, Angle: 0}
	require.InDelta(t, 0, SolveRotation(r), 1e-9)
}

func TestSolveRotation_TiltedStrip(t *testing.T) {
	r := RotatedRect{CenterX: 100, CenterY: 100, Width: 200, Height: 20, Angle: -30}
	require.InDelta(t, -60, SolveRotation(r), 1e-9)

	r = RotatedRect{CenterX: 100, CenterY: 100, Width: 20, Height: 200, Angle: -30}
	require.InDelta(t, 30, SolveRotation(r), 1e-9)
}

func TestSolveRotation_BoundaryAngles(t *testing.T) {
	cases := []struct {
		name   string
		rect   RotatedRect
		expect float64
	}{
		{"width edge at -45", RotatedRect{Width: 200, Height: 20, Angle: -45}, -45},
		{"width edge at 45", RotatedRect{Width: 200, Height: 20, Angle: 45}, 45},
		{"width edge at -90, long axis vertical", RotatedRect{Width: 200, Height: 20, Angle: -90}, 0},
		{"width edge at 90, long axis vertical", RotatedRect{Width: 200, Height: 20, Angle: 90}, 0},
		{"height edge long at -90", RotatedRect{Width: 20, Height: 200, Angle: -90}, 90},
		{"height edge long at 45", RotatedRect{Width: 20, Height: 200, Angle: 45}, -45},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, SolveRotation(tc.rect), 1e-9)
		})
	}
}

func TestSolveRotation_AlwaysWithinRange(t *testing.T) {
	// Диапазон угла minAreaRect зависит от версии OpenCV, поэтому
	// результат обязан быть в [-90, 90] для любого входного угла.
	for angle := -360.0; angle <= 360.0; angle += 7.5 {
		for _, size := range [][2]float64{{200, 20}, {20, 200}, {50, 50}} {
			r := RotatedRect{Width: size[0], Height: size[1], Angle: angle}
			got := SolveRotation(r)
			require.GreaterOrEqual(t, got, -90.0, "angle=%v size=%v", angle, size)
			require.LessOrEqual(t, got, 90.0, "angle=%v size=%v", angle, size)
		}
	}
}

func TestRotatedRect_Corners(t *testing.T) {
	r := RotatedRect{CenterX: 50, CenterY: 50, Width: 20, Height: 10, Angle: 0}
	corners := r.Corners()

	minX, maxX := corners[0].X, corners[0].X
	minY, maxY := corners[0].Y, corners[0].Y
	for _, p := range corners[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	require.InDelta(t, 40, minX, 1e-9)
	require.InDelta(t, 60, maxX, 1e-9)
	require.InDelta(t, 45, minY, 1e-9)
	require.InDelta(t, 55, maxY, 1e-9)
}

func TestRotatedRect_CornersRotated90(t *testing.T) {
	// Поворот на 90° меняет стороны местами.
	r := RotatedRect{CenterX: 50, CenterY: 50, Width: 20, Height: 10, Angle: 90}
	crop := SolveCrop(r, 100, 100, 0)
	require.Equal(t, 10, crop.Width)
	require.Equal(t, 20, crop.Height)
}

func TestRotatedRect_AspectRatio(t *testing.T) {
	r := RotatedRect{Width: 200, Height: 20}
	require.InDelta(t, 10, r.AspectRatio(), 1e-9)

	r = RotatedRect{Width: 20, Height: 200}
	require.InDelta(t, 10, r.AspectRatio(), 1e-9)

	require.Zero(t, RotatedRect{Width: 20, Height: 0}.AspectRatio())
}

func TestSolveCrop_Padding(t *testing.T) {
	r := RotatedRect{CenterX: 50, CenterY: 50, Width: 20, Height: 40, Angle: 0}
	crop := SolveCrop(r, 100, 100, 5)

	require.Equal(t, CropRect{X: 35, Y: 25, Width: 30, Height: 50}, crop)
}

func TestSolveCrop_ClampsAtImageEdge(t *testing.T) {
	// Полоска у самой границы: отступ прижимается, координаты не уходят в минус.
	r := RotatedRect{CenterX: 10, CenterY: 100, Width: 20, Height: 200, Angle: 0}
	crop := SolveCrop(r, 120, 200, 8)

	require.Equal(t, 0, crop.X)
	require.Equal(t, 0, crop.Y)
	require.Equal(t, 28, crop.Width)
	require.Equal(t, 200, crop.Height)
}

func TestSolveCrop_AlwaysInsideImage(t *testing.T) {
	rects := []RotatedRect{
		{CenterX: -20, CenterY: -20, Width: 100, Height: 10, Angle: 33},
		{CenterX: 500, CenterY: 500, Width: 300, Height: 40, Angle: -75},
		{CenterX: 200, CenterY: 150, Width: 600, Height: 600, Angle: 12},
	}

	for _, r := range rects {
		crop := SolveCrop(r, 400, 300, 10)
		require.GreaterOrEqual(t, crop.X, 0)
		require.GreaterOrEqual(t, crop.Y, 0)
		require.GreaterOrEqual(t, crop.Width, 0)
		require.GreaterOrEqual(t, crop.Height, 0)
		require.LessOrEqual(t, crop.X+crop.Width, 400)
		require.LessOrEqual(t, crop.Y+crop.Height, 300)
	}
}

func TestSolveCrop_DegenerateRect(t *testing.T) {
	r := RotatedRect{CenterX: -100, CenterY: 50, Width: 10, Height: 10, Angle: 0}
	crop := SolveCrop(r, 400, 300, 5)
	require.True(t, crop.Empty())
}

func TestFullCrop(t *testing.T) {
	require.Equal(t, CropRect{X: 0, Y: 0, Width: 640, Height: 480}, FullCrop(640, 480))
	require.False(t, FullCrop(1, 1).Empty())
}

func TestFullImageDetection(t *testing.T) {
	d := FullImageDetection(300, 400)
	require.True(t, d.Fallback)
	require.InDelta(t, 150, d.Rect.CenterX, 1e-9)
	require.InDelta(t, 200, d.Rect.CenterY, 1e-9)
	require.InDelta(t, 0, d.Rect.Angle, 1e-9)
	// Портретный кадр уже вертикален, довод не нужен.
	require.InDelta(t, 0, SolveRotation(d.Rect), 1e-9)

	crop := SolveCrop(d.Rect, 300, 400, 8)
	require.Equal(t, FullCrop(300, 400), crop)
}
