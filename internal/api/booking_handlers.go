package api

import (
	"context"
	"encoding/json"
	"net/http"

	"fleetrental/internal/entities"
	"fleetrental/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Bookings *service.BookingService
	Fleet    *service.FleetService
}

func NewBookingHandler(bookings *service.BookingService, fleet *service.FleetService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Fleet: fleet}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.Fleet.CheckAvailability(r.Context(), req.VehicleID, start, end)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	h.createBooking(w, r, h.Bookings.CreateRental)
}

func (h *BookingHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	h.createBooking(w, r, h.Bookings.CreateReservation)
}

func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request,
	create func(context.Context, *entities.BookingRequest) (*entities.BookingResponse, error)) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	parsed, err := req.toEntity()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := create(r.Context(), parsed)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	resp, err := h.Bookings.GetBooking(r.Context(), code)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransitionBooking handles lifecycle requests: start or complete a
// rental, cancel a reservation, finish a maintenance window. The target
// status names the edge; illegal edges come back as 422.
func (h *BookingHandler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Bookings.TransitionBooking(r.Context(), code, req.Status)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
