package rover

import (
	"fmt"

	"gocv.io/x/gocv"
)

// CameraSource reads frames from a local capture device. It owns one
// reusable Mat; the frame handed to the loop is valid until the next call.
type CameraSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// OpenCamera opens the capture device at the given index.
func OpenCamera(device int) (*CameraSource, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	return &CameraSource{
		capture: capture,
		frame:   gocv.NewMat(),
	}, nil
}

// Next reads one frame. False means end of stream or a device failure; the
// loop treats either as an orderly end of the run.
func (c *CameraSource) Next() (gocv.Mat, bool) {
	if !c.capture.Read(&c.frame) || c.frame.Empty() {
		return gocv.Mat{}, false
	}
	return c.frame, true
}

// Close releases the device and the frame buffer.
func (c *CameraSource) Close() error {
	c.frame.Close()
	return c.capture.Close()
}
