package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
	"github.com/kozaktomas/face-attendance/internal/web/static"
)

func (s *Server) setupRoutes() {
	cameraHandler := handlers.NewCameraHandler(s.kiosk, s.logger)
	recognizeHandler := handlers.NewRecognizeHandler(s.kiosk)
	studentsHandler := handlers.NewStudentsHandler(s.kiosk, s.logger)
	registerHandler := handlers.NewRegisterHandler(s.kiosk, studentsHandler, s.logger)
	attendanceHandler := handlers.NewAttendanceHandler(s.kiosk)
	eventsHandler := handlers.NewEventsHandler(s.kiosk)
	s.httpServer.RegisterOnShutdown(eventsHandler.Close)
	journalHandler := handlers.NewJournalHandler(s.kiosk, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		// Camera session
		r.Get("/camera", cameraHandler.Status)
		r.Post("/camera/start", cameraHandler.Start)
		r.Post("/camera/stop", cameraHandler.Stop)
		r.Get("/camera/frame", cameraHandler.Frame)

		// Face recognition
		r.Get("/recognize", recognizeHandler.Last)
		r.Post("/recognize", recognizeHandler.Recognize)

		// Registration
		r.Get("/register", registerHandler.Get)
		r.Put("/register/name", registerHandler.SetName)
		r.Post("/register", registerHandler.Register)

		// Dashboard and ledger
		r.Get("/students", studentsHandler.List)
		r.Get("/attendance", attendanceHandler.Get)
		r.Post("/attendance/refresh", attendanceHandler.Refresh)

		// Notifications and navigation
		r.Get("/events", eventsHandler.Stream)
		r.Get("/notifications", eventsHandler.Notifications)
		r.Delete("/notifications/{id}", eventsHandler.Dismiss)
		r.Post("/navigate", eventsHandler.Navigate)

		r.Get("/journal", journalHandler.List)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders())
		r.Get("/", s.serveKiosk)
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.GetFileSystem())))
	})
}

// serveKiosk serves the browser shell.
func (s *Server) serveKiosk(w http.ResponseWriter, r *http.Request) {
	page, err := static.IndexHTML()
	if err != nil {
		s.logger.Error("kiosk page missing", "error", err)
		http.Error(w, "kiosk page not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
