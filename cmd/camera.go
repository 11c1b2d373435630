package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/spf13/cobra"
)

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Camera commands",
}

var cameraCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Open the camera and capture one frame",
	Long: `Opens the configured camera, waits for the first frame, captures it the
way recognition and enrollment do, and releases the device. Use --output to
save the captured JPEG.`,
	RunE: runCameraCheck,
}

func init() {
	rootCmd.AddCommand(cameraCmd)
	cameraCmd.AddCommand(cameraCheckCmd)

	cameraCheckCmd.Flags().String("output", "", "Write the captured JPEG to this file")
}

func runCameraCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	output := mustGetString(cmd, "output")

	k, cfg, cleanup, err := setupKiosk(ctx, notify.NewConsole(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	switch device := kiosk.NewDevice(cfg.Camera, nil).(type) {
	case *camera.FFmpegDevice:
		fmt.Printf("Device:  %s %s\n", device.Path, strings.Join(device.Args(), " "))
	case *camera.StillDevice:
		fmt.Printf("Device:  still image %s\n", device.Path)
	}

	startErr := withSpinner("Opening camera", func() error {
		return k.Camera.Start(ctx)
	})
	if startErr != nil {
		return fmt.Errorf("failed to start camera: %w", startErr)
	}
	fmt.Printf("State:   %s\n", k.Camera.State())
	fmt.Printf("Tracks:  %d active\n", k.Camera.ActiveTracks())

	img, err := capture.Capture(k.Camera)
	if err != nil {
		return fmt.Errorf("failed to capture frame: %w", err)
	}
	width, height := img.Size()
	fmt.Printf("Frame:   %dx%d %s, %d bytes\n", width, height, img.MimeType(), len(img.Bytes()))

	if output != "" {
		if err := os.WriteFile(output, img.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("Saved:   %s\n", output)
	}
	return nil
}
