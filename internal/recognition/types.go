package recognition

// Student is an enrolled subject as listed by GET /students.
type Student struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AttendanceEntry is one row of GET /attendance. LastAttendance is nil when the
// student has never been marked present.
type AttendanceEntry struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	LastAttendance *string `json:"lastAttendance"`
}

// RecognizeRequest is the inline JSON body of POST /recognize.
type RecognizeRequest struct {
	Image string `json:"image"`
}

// RecognizeResponse is returned by POST /recognize on a match.
type RecognizeResponse struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	ID      int    `json:"id,omitempty"`
}

// EnrollResponse is returned by POST /add_student.
type EnrollResponse struct {
	Message string `json:"message,omitempty"`
	ID      int    `json:"id,omitempty"`
}

// errorEnvelope detects the error field the service puts on failed responses.
type errorEnvelope struct {
	Error string `json:"error"`
}
