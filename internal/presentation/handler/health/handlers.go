package health

import (
	"net/http"

	"github.com/computebench/backend/internal/infrastructure/json"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:  "ok",
		Message: "Rust backend is running",
	}
	json.Write(w, http.StatusOK, data)
}
