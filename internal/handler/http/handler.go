package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	app "strip-vision/internal/application"
	"strip-vision/internal/domain/entity"
)

type Handler struct {
	normalizer *app.NormalizeService
}

func NewHandler(normalizer *app.NormalizeService) *Handler {
	return &Handler{
		normalizer: normalizer,
	}
}

// NormalizeHandler обрабатывает POST /normalize
func (h *Handler) NormalizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Парсим multipart form
	err := r.ParseMultipartForm(50 << 20) // 50MB max
	if err != nil {
		respondError(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	// Получаем файл
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	result, err := h.normalizer.ProcessPhoto(r.Context(), imageData)
	if err != nil {
		if errors.Is(err, entity.ErrDecodeFailed) {
			respondError(w, "File is not a supported image", http.StatusUnprocessableEntity)
			return
		}
		respondError(w, fmt.Sprintf("Processing failed: %v", err), http.StatusInternalServerError)
		return
	}

	// Отдаём PNG, геометрию кладём в заголовки.
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Strip-Fallback", strconv.FormatBool(result.Detection.Fallback))
	w.Header().Set("X-Strip-Rotation", strconv.FormatFloat(result.Rotation, 'f', 2, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(result.PNG)
}

// HealthHandler проверка здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
