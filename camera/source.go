package camera

import (
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Driver opens a live or network-streamed frame source. The vendor SDK
// binding registers one at init; this package only ships the replay source.
type Driver func(cfg Config, logger golog.Logger) (FrameSource, error)

var (
	driverMu sync.Mutex
	driver   Driver
)

// RegisterDriver installs the device driver used for live and stream
// capture.
func RegisterDriver(d Driver) {
	driverMu.Lock()
	defer driverMu.Unlock()
	driver = d
}

func registeredDriver() Driver {
	driverMu.Lock()
	defer driverMu.Unlock()
	return driver
}

// OpenSource validates the config and opens the frame source it selects:
// a recorded session replay, a network stream, or the wired device.
func OpenSource(cfg Config, logger golog.Logger) (FrameSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SVOFile != "" {
		logger.Infow("using recorded input", "path", cfg.SVOFile)
		return NewReplaySource(cfg.SVOFile)
	}

	d := registeredDriver()
	if d == nil {
		if cfg.StreamAddr != "" {
			return nil, errors.Errorf("no camera driver registered for stream input %q", cfg.StreamAddr)
		}
		return nil, errors.New("no camera driver registered for live capture")
	}
	if cfg.StreamAddr != "" {
		logger.Infow("using stream input", "address", cfg.StreamAddr)
	}
	return d(cfg, logger)
}
