package api

import (
	"net/http"
	"strconv"

	"fleetrental/internal/service"

	"github.com/gorilla/mux"
)

type FleetHandler struct {
	Fleet   *service.FleetService
	Reports *service.ReportService
}

func NewFleetHandler(fleet *service.FleetService, reports *service.ReportService) *FleetHandler {
	return &FleetHandler{Fleet: fleet, Reports: reports}
}

func (h *FleetHandler) FindAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vehicles, err := h.Fleet.FindAvailableVehicles(r.Context(), start, end)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *FleetHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Fleet.GetStatistics(r.Context())
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *FleetHandler) GetActiveInsurance(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := vehicleIDVar(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}
	policy, err := h.Reports.ActiveInsurance(r.Context(), vehicleID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if policy == nil {
		http.Error(w, "No active insurance", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (h *FleetHandler) GetRentalHistory(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := vehicleIDVar(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}
	history, err := h.Reports.RentalHistory(r.Context(), vehicleID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *FleetHandler) GetMaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := vehicleIDVar(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}
	history, err := h.Reports.MaintenanceHistory(r.Context(), vehicleID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func vehicleIDVar(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
