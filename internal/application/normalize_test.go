package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"strip-vision/internal/domain/entity"
	"strip-vision/internal/domain/port"
	"strip-vision/internal/infrastructure/storage"
)

type fakeNormalizer struct {
	result *entity.StripCrop
	err    error
}

func (f *fakeNormalizer) Normalize(ctx context.Context, imageData []byte) (*entity.StripCrop, error) {
	return f.result, f.err
}

func (f *fakeNormalizer) Outline(imageData []byte, detection entity.Detection) ([]byte, error) {
	return imageData, f.err
}

var _ port.StripNormalizer = (*fakeNormalizer)(nil)

func TestNormalizeService_ProcessPhoto(t *testing.T) {
	want := &entity.StripCrop{
		ImageWidth:  400,
		ImageHeight: 400,
		Crop:        entity.CropRect{X: 10, Y: 20, Width: 40, Height: 220},
		PNG:         []byte("png"),
	}
	svc := newTestService(&fakeNormalizer{result: want})

	got, err := svc.ProcessPhoto(context.Background(), []byte("photo"))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestNormalizeService_ProcessPhotoDecodeError(t *testing.T) {
	svc := newTestService(&fakeNormalizer{err: entity.ErrDecodeFailed})

	_, err := svc.ProcessPhoto(context.Background(), []byte("not an image"))
	require.ErrorIs(t, err, entity.ErrDecodeFailed)
}

func TestNormalizeService_NormalizerNotConfigured(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.ProcessPhoto(context.Background(), []byte("photo"))
	require.Error(t, err)

	_, err = svc.OutlinePhoto([]byte("photo"), entity.Detection{})
	require.Error(t, err)
}

func TestNormalizeService_OutlinePhoto(t *testing.T) {
	svc := newTestService(&fakeNormalizer{})

	out, err := svc.OutlinePhoto([]byte("photo"), entity.Detection{})
	require.NoError(t, err)
	require.Equal(t, []byte("photo"), out)
}

func newTestService(normalizer port.StripNormalizer) *NormalizeService {
	users := NewUserService(storage.NewMemoryUserRepository())
	return NewNormalizeService(users, normalizer)
}
