// Package capture turns the frame currently shown by a camera session into a JPEG still.
package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"golang.org/x/image/draw"
)

// ErrEmptyFrame is returned when the camera reports a frame with no pixels.
var ErrEmptyFrame = errors.New("camera frame has no pixels")

// Image is an encoded still. It is never modified after Capture returns it.
type Image struct {
	data     []byte
	width    int
	height   int
	mimeType string
	quality  int
}

// Bytes returns the encoded JPEG payload.
func (img *Image) Bytes() []byte { return img.data }

// MimeType is always image/jpeg.
func (img *Image) MimeType() string { return img.mimeType }

// Quality is the JPEG quality the frame was encoded with.
func (img *Image) Quality() int { return img.quality }

// Size returns the pixel dimensions of the frame.
func (img *Image) Size() (width, height int) { return img.width, img.height }

// DataURL renders the image as a base64 data URL for inline JSON requests.
func (img *Image) DataURL() string {
	return "data:" + img.mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.data)
}

// FrameSource is the part of a camera session the capturer needs.
type FrameSource interface {
	Frame() (image.Image, error)
}

// Capture reads the frame currently displayed by source, draws it into an
// equally sized raster and encodes it as JPEG. A source that is not Ready yields
// camera.ErrNotReady. There is no retry.
func Capture(source FrameSource) (*Image, error) {
	frame, err := source.Frame()
	if err != nil {
		if errors.Is(err, camera.ErrNotReady) {
			return nil, camera.ErrNotReady
		}
		return nil, fmt.Errorf("capturing frame: %w", err)
	}

	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyFrame
	}

	raster := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(raster, raster.Bounds(), frame, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, raster, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	return &Image{
		data:     buf.Bytes(),
		width:    width,
		height:   height,
		mimeType: constants.JPEGMimeType,
		quality:  constants.JPEGQuality,
	}, nil
}
