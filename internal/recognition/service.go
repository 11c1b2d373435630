package recognition

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Recognize submits a data URL encoded JPEG to POST /recognize.
func (c *Client) Recognize(ctx context.Context, imageDataURL string) (*RecognizeResponse, error) {
	return doPostJSON[RecognizeResponse](ctx, c, "recognize", RecognizeRequest{Image: imageDataURL})
}

// AddStudent enrolls a student with POST /add_student as multipart form data:
// a name field and the JPEG as the image file part.
func (c *Client) AddStudent(ctx context.Context, name string, jpeg []byte) (*EnrollResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("could not write name field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, constants.EnrollmentFilename))
	header.Set("Content-Type", constants.JPEGMimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(jpeg); err != nil {
		return nil, fmt.Errorf("could not copy image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	return doRequest[EnrollResponse](ctx, c, http.MethodPost, "add_student", &body, writer.FormDataContentType())
}

// Students lists enrolled students.
func (c *Client) Students(ctx context.Context) ([]Student, error) {
	result, err := doGetJSON[[]Student](ctx, c, "students")
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// Attendance lists every student with their last attendance.
func (c *Client) Attendance(ctx context.Context) ([]AttendanceEntry, error) {
	result, err := doGetJSON[[]AttendanceEntry](ctx, c, "attendance")
	if err != nil {
		return nil, err
	}
	return *result, nil
}
