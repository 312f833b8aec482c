package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"fleetrental/internal/api"
	"fleetrental/internal/auth"
	"fleetrental/internal/booking"
	"fleetrental/internal/repository"
	"fleetrental/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	claimRepo := repository.NewClaimRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	insuranceRepo := repository.NewInsuranceRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	coordinator := booking.NewCoordinator(claimRepo, vehicleRepo, lockTimeout())

	notifier := service.NewNotifyService()
	bookingSvc := service.NewBookingService(coordinator, claimRepo, vehicleRepo, notifier)
	fleetSvc := service.NewFleetService(coordinator, claimRepo, vehicleRepo)
	reportSvc := service.NewReportService(claimRepo, insuranceRepo)
	jobSvc := service.NewJobService(jobRepo, vehicleRepo, coordinator)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc, fleetSvc)
	fleetHandler := api.NewFleetHandler(fleetSvc, reportSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, fleetSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/vehicles/available", fleetHandler.FindAvailableVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/statistics", fleetHandler.GetStatistics).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/insurance", fleetHandler.GetActiveInsurance).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/rentals/history", fleetHandler.GetRentalHistory).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/maintenance/history", fleetHandler.GetMaintenanceHistory).Methods("GET")
	r.HandleFunc("/api/rentals", bookingHandler.CreateRental).Methods("POST")
	r.HandleFunc("/api/reservations", bookingHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{code}/status", bookingHandler.TransitionBooking).Methods("POST")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/maintenance", adminHandler.ScheduleMaintenance).Methods("POST")
	admin.HandleFunc("/vehicles/{id}/availability", adminHandler.RefreshAvailability).Methods("PATCH")
	admin.HandleFunc("/users", adminAuthHandler.CreateAdmin).Methods("POST")

	startCron(jobSvc)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}

// startCron schedules the background sweeps: completing claims past their
// dates, cancelling stale pending rentals, and the hourly fleet relabel
// that repairs any stale availability cache.
func startCron(jobSvc *service.JobService) {
	c := cron.New()

	if _, err := c.AddFunc("*/15 * * * *", func() {
		if err := jobSvc.CompleteFinishedClaims(context.Background()); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule claim completion job: %v", err)
	}

	if _, err := c.AddFunc("30 * * * *", func() {
		if err := jobSvc.CancelStalePendingRentals(context.Background(), 24*time.Hour); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule stale rental job: %v", err)
	}

	if _, err := c.AddFunc("0 * * * *", func() {
		if err := jobSvc.RelabelFleet(context.Background()); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule relabel job: %v", err)
	}

	c.Start()
}

func lockTimeout() time.Duration {
	raw := os.Getenv("VEHICLE_LOCK_TIMEOUT_MS")
	if raw == "" {
		return 5 * time.Second
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		log.Printf("Invalid VEHICLE_LOCK_TIMEOUT_MS %q, using default", raw)
		return 5 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}
