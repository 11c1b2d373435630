// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Capture constants
const (
	// JPEGQuality is the encoder quality used for every captured frame (0.95 on a 0..1 scale)
	JPEGQuality = 95

	// JPEGMimeType is the MIME type of captured images
	JPEGMimeType = "image/jpeg"

	// EnrollmentFilename is the filename sent with the multipart image part
	EnrollmentFilename = "student.jpg"
)

// Camera constants
const (
	// CameraWarmupTimeout is how long Start waits for the first frame before declaring the device failed
	CameraWarmupTimeout = 10 * time.Second

	// FrameBufferSize is the initial scanner buffer for MJPEG frames read from ffmpeg
	FrameBufferSize = 1024 * 1024

	// MaxFrameSize caps a single MJPEG frame read from ffmpeg
	MaxFrameSize = 16 * 1024 * 1024
)

// Notification constants
const (
	// NotificationDuration is how long a notification stays visible before it expires
	NotificationDuration = 3 * time.Second

	// NotificationAction is the label of the dismiss action shown with every notification
	NotificationAction = "Close"

	// RecentNotificationLimit caps the notifications remembered for late SSE subscribers
	RecentNotificationLimit = 20
)

// Routes used for navigation events
const (
	// RouteAttendance is the attendance ledger view
	RouteAttendance = "/attendance"

	// RouteRegister is the enrollment view
	RouteRegister = "/register"

	// RouteRecognize is the face recognition view
	RouteRecognize = "/recognize"
)

// Journal constants
const (
	// DefaultJournalLimit is the default number of journal events listed
	DefaultJournalLimit = 50
)

// Web constants
const (
	// EventChannelBuffer is the buffer size of each SSE listener channel
	EventChannelBuffer = 100

	// MaxRequestBodySize caps JSON bodies accepted by the kiosk API (1MB)
	MaxRequestBodySize = 1 << 20
)
