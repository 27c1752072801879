package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/core/service"
)

type HTTPHandler struct {
	display *service.DisplayService
}

type ShowHTTPRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type ShowHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(display *service.DisplayService) *HTTPHandler {
	return &HTTPHandler{display: display}
}

func (h *HTTPHandler) ShowUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeShowRequest(w, r)
	if !ok {
		return
	}

	user := domain.NewUser(req.Name, req.Age)
	if err := h.display.ShowUser(user); err != nil {
		writeJSON(w, http.StatusInternalServerError, ShowHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, ShowHTTPResponse{
		Success: true,
		Message: user.String(),
	})
}

func (h *HTTPHandler) ShowVehicle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeShowRequest(w, r)
	if !ok {
		return
	}

	vehicle := domain.NewVehicle(req.Name, req.Age)
	if err := h.display.ShowVehicle(vehicle); err != nil {
		writeJSON(w, http.StatusInternalServerError, ShowHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, ShowHTTPResponse{
		Success: true,
		Message: vehicle.String(),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeShowRequest(w http.ResponseWriter, r *http.Request) (ShowHTTPRequest, bool) {
	var req ShowHTTPRequest
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ShowHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
