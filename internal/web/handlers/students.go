package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/roster"
)

const studentsCacheTTL = 30 * time.Second

// studentsCache holds the student list with expiry
type studentsCache struct {
	mu        sync.RWMutex
	data      []recognition.Student
	expiresAt time.Time
}

func (c *studentsCache) get() ([]recognition.Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

func (c *studentsCache) set(data []recognition.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = time.Now().Add(studentsCacheTTL)
}

func (c *studentsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// StudentsHandler serves the dashboard student list
type StudentsHandler struct {
	kiosk  *kiosk.Kiosk
	logger *slog.Logger
	cache  studentsCache
}

// NewStudentsHandler creates a new students handler
func NewStudentsHandler(k *kiosk.Kiosk, logger *slog.Logger) *StudentsHandler {
	return &StudentsHandler{kiosk: k, logger: logger}
}

// StudentsResponse is the dashboard list
type StudentsResponse struct {
	Students []recognition.Student `json:"students"`
	Total    int                   `json:"total"`
	Cached   bool                  `json:"cached"`
}

// List returns enrolled students, optionally filtered by the q query parameter
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, cached := h.cache.get()
	if !cached {
		var err error
		students, err = h.kiosk.Students(r.Context())
		if err != nil {
			respondError(w, http.StatusBadGateway, "Failed to load students")
			return
		}
		if students == nil {
			students = []recognition.Student{}
		}
		h.cache.set(students)
	}

	filtered := roster.Filter(students, func(s recognition.Student) string { return s.Name }, r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, StudentsResponse{
		Students: filtered,
		Total:    len(students),
		Cached:   cached,
	})
}
