// Package ledger is the view model behind the attendance records screen.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// ErrNoData is returned by Load when the attendance list could not be fetched.
var ErrNoData = errors.New("no attendance data")

// LoadFailedMessage is the persistent error shown after a failed load.
const LoadFailedMessage = "Failed to load attendance records. Please try again later."

// Source fetches the attendance list.
type Source interface {
	Attendance(ctx context.Context) ([]recognition.AttendanceEntry, error)
}

// Record is one row of the ledger. LastAttendance is nil when the student was never marked present.
type Record struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	LastAttendance *time.Time `json:"lastAttendance"`
}

// View is a consistent snapshot of the view model.
type View struct {
	Records   []Record  `json:"records"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	SortKey   SortKey   `json:"sort,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// ViewModel holds the fetched list and the currently displayed ordering.
// It is safe for concurrent use.
type ViewModel struct {
	source   Source
	notifier notify.Notifier
	logger   *slog.Logger

	mu        sync.RWMutex
	fetched   []Record
	records   []Record
	loading   bool
	errMsg    string
	sortKey   SortKey
	direction Direction
}

// NewViewModel creates an empty view model. notifier and logger may be nil.
func NewViewModel(source Source, notifier notify.Notifier, logger *slog.Logger) *ViewModel {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewModel{
		source:   source,
		notifier: notifier,
		logger:   logger.With("component", "ledger"),
	}
}

// Load fetches the attendance list. On success the list replaces the held one in
// fetch order and any previous error is cleared. On failure the held list is kept
// and a persistent error message is set until the next successful load.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.mu.Lock()
	vm.loading = true
	vm.errMsg = ""
	vm.mu.Unlock()

	entries, err := vm.source.Attendance(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loading = false

	if err != nil {
		vm.errMsg = LoadFailedMessage
		vm.logger.Error("error loading attendance records", "error", err)
		notify.Error(vm.notifier, LoadFailedMessage)
		return fmt.Errorf("%w: %w", ErrNoData, err)
	}

	vm.fetched = vm.toRecords(entries)
	vm.records = slices.Clone(vm.fetched)
	vm.sortKey = ""
	vm.direction = DirectionNone
	vm.logger.Debug("attendance records loaded", "count", len(vm.fetched))
	return nil
}

// Refresh re-fetches the list. The applied sort is not preserved.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	return vm.Load(ctx)
}

// Sort reorders the held list without fetching. DirectionNone restores fetch order.
// The result is always derived from the fetched list, so applying the same sort
// twice yields the same order.
func (vm *ViewModel) Sort(key SortKey, direction Direction) []Record {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.sortKey = key
	vm.direction = direction
	vm.records = sortRecords(vm.fetched, key, direction)
	return slices.Clone(vm.records)
}

// Records returns the displayed list.
func (vm *ViewModel) Records() []Record {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.records)
}

// Loading reports whether a fetch is in progress.
func (vm *ViewModel) Loading() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loading
}

// Error returns the persistent error message, or an empty string.
func (vm *ViewModel) Error() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.errMsg
}

// View returns a snapshot of the whole view model.
func (vm *ViewModel) View() View {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return View{
		Records:   slices.Clone(vm.records),
		Loading:   vm.loading,
		Error:     vm.errMsg,
		SortKey:   vm.sortKey,
		Direction: vm.direction,
	}
}

func (vm *ViewModel) toRecords(entries []recognition.AttendanceEntry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		r := Record{ID: e.ID, Name: e.Name}
		if e.LastAttendance != nil {
			ts, err := ParseTimestamp(*e.LastAttendance)
			if err != nil {
				vm.logger.Warn("unparsable lastAttendance, treating as never", "id", e.ID, "value", *e.LastAttendance)
			} else {
				r.LastAttendance = &ts
			}
		}
		records = append(records, r)
	}
	return records
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// ParseTimestamp parses the lastAttendance values the service emits. Values
// without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FormatLastAttendance renders a lastAttendance cell: "Never" when absent,
// local time otherwise.
func FormatLastAttendance(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
