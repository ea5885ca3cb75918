package container

import (
	app "strip-vision/internal/application"
	"strip-vision/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	NormalizeService *app.NormalizeService
}

func New(userRepo port.UserRepository, normalizer port.StripNormalizer) *Container {
	userService := app.NewUserService(userRepo)
	normalizeService := app.NewNormalizeService(userService, normalizer)

	return &Container{
		UserService:      userService,
		NormalizeService: normalizeService,
	}
}
