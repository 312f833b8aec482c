package api

import (
	"encoding/json"
	"net/http"

	"fleetrental/internal/service"
)

type AdminHandler struct {
	Bookings *service.BookingService
	Fleet    *service.FleetService
}

func NewAdminHandler(bookings *service.BookingService, fleet *service.FleetService) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Fleet: fleet}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	status := r.URL.Query().Get("status")
	bookings, err := h.Bookings.ListBookings(r.Context(), kind, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ScheduleMaintenance admits a maintenance window through the same
// coordinator path as rentals and reservations; a window overlapping a
// blocking claim is rejected with 409.
func (h *AdminHandler) ScheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	var req CreateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	parsed, err := req.toEntity()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.Bookings.ScheduleMaintenance(r.Context(), parsed)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// RefreshAvailability recomputes the vehicle's label from its claim set.
// The label cannot be set directly; it is always derived.
func (h *AdminHandler) RefreshAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := vehicleIDVar(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}
	label, err := h.Fleet.RefreshAvailability(r.Context(), vehicleID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"availability": string(label)})
}
