package main

import (
	"log"
	"net/http"

	"strip-vision/config"
	telegram "strip-vision/internal/api"
	"strip-vision/internal/container"
	httphandler "strip-vision/internal/handler/http"
	"strip-vision/internal/infrastructure/storage"
	"strip-vision/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаём хранилище пользователей и конвейер нормализации
	userRepo := storage.NewMemoryUserRepository()
	normalizer := vision.NewNormalizer()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, normalizer)

	// HTTP-границу поднимаем всегда
	handler := httphandler.NewHandler(appContainer.NormalizeService)
	mux := http.NewServeMux()
	mux.HandleFunc("/normalize", handler.NormalizeHandler)
	mux.HandleFunc("/health", handler.HealthHandler)

	addr := ":" + cfg.HTTPPort
	if cfg.TelegramToken == "" {
		log.Printf("TELEGRAM_TOKEN is empty, running HTTP only on %s", addr)
		log.Fatal(http.ListenAndServe(addr, mux))
	}

	go func() {
		log.Printf("HTTP server is running on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.NormalizeService)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
