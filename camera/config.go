package camera

import (
	"github.com/pkg/errors"
)

// Resolution is the camera resolution selector.
type Resolution string

// Supported resolution selectors. ResolutionAuto keeps the device native
// resolution.
const (
	ResolutionAuto   Resolution = ""
	ResolutionHD2K   Resolution = "HD2K"
	ResolutionHD1200 Resolution = "HD1200"
	ResolutionHD1080 Resolution = "HD1080"
	ResolutionHD720  Resolution = "HD720"
	ResolutionSVGA   Resolution = "SVGA"
	ResolutionVGA    Resolution = "VGA"
)

type resolutionSize struct {
	width, height int
}

var resolutionSizes = map[Resolution]resolutionSize{
	ResolutionHD2K:   {2208, 1242},
	ResolutionHD1200: {1920, 1200},
	ResolutionHD1080: {1920, 1080},
	ResolutionHD720:  {1280, 720},
	ResolutionSVGA:   {960, 600},
	ResolutionVGA:    {672, 376},
}

// ParseResolution validates a resolution selector string.
func ParseResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if r == ResolutionAuto {
		return r, nil
	}
	if _, ok := resolutionSizes[r]; !ok {
		return "", errors.Errorf("resolution must be one of HD2K, HD1200, HD1080, HD720, SVGA or VGA, not %q", s)
	}
	return r, nil
}

// Size returns the pixel dimensions for the resolution, or ok=false for
// the device native selector.
func (r Resolution) Size() (width, height int, ok bool) {
	size, ok := resolutionSizes[r]
	return size.width, size.height, ok
}

// Config selects the input source and runtime parameters for a capture.
type Config struct {
	// SVOFile replays a recorded session file instead of a live device.
	SVOFile string
	// StreamAddr pulls frames from a network streaming setup,
	// "a.b.c.d:port" or "a.b.c.d".
	StreamAddr string
	// Resolution selects the capture resolution; empty keeps device native.
	Resolution Resolution
	// ConfidenceThreshold is the depth confidence cutoff, 0-100.
	ConfidenceThreshold float64
}

// DefaultConfidenceThreshold keeps every depth measurement.
const DefaultConfidenceThreshold = 100.0

// Validate checks the config before any device IO is attempted. Supplying
// both a replay file and a stream address is a usage error.
func (c *Config) Validate() error {
	if c.SVOFile != "" && c.StreamAddr != "" {
		return errors.New("specify only a replay file or a stream address, or neither to use a wired camera, not both")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return errors.Errorf("confidence threshold must be within 0-100, got %f", c.ConfidenceThreshold)
	}
	if _, err := ParseResolution(string(c.Resolution)); err != nil {
		return err
	}
	return nil
}
