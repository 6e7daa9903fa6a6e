package display

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/go-chi/chi"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

const thumbWidth = 320

// HTTPDisplay serves the latest shown frame over HTTP: a small index page,
// the full frame, a fixed-width thumbnail, and an MJPEG stream. It replaces
// the interactive preview window of a desktop build with something a
// headless capture box can expose.
type HTTPDisplay struct {
	logger golog.Logger
	server *http.Server
	addr   string

	mu     sync.RWMutex
	latest image.Image

	activeBackgroundWorkers sync.WaitGroup
}

// NewHTTPDisplay starts serving on the given bind address.
func NewHTTPDisplay(addr string, logger golog.Logger) (*HTTPDisplay, error) {
	d := &HTTPDisplay{logger: logger}

	r := chi.NewRouter()
	r.Get("/", d.handleIndex)
	r.Get("/frame.jpg", d.handleFrame)
	r.Get("/thumb.jpg", d.handleThumb)
	r.Get("/stream", d.handleStream)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "preview display cannot listen on %s", addr)
	}
	d.addr = listener.Addr().String()
	d.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	d.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer d.activeBackgroundWorkers.Done()
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("preview server failed", "error", err)
		}
	})
	logger.Infow("preview available", "address", listener.Addr().String())
	return d, nil
}

// Addr returns the address the preview server is bound to.
func (d *HTTPDisplay) Addr() string {
	return d.addr
}

// Show implements Display.
func (d *HTTPDisplay) Show(_ context.Context, img image.Image) error {
	d.mu.Lock()
	d.latest = img
	d.mu.Unlock()
	return nil
}

// Close shuts the preview server down and waits for it to stop.
func (d *HTTPDisplay) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.server.Shutdown(ctx)
	d.activeBackgroundWorkers.Wait()
	return err
}

func (d *HTTPDisplay) latestFrame() image.Image {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

func (d *HTTPDisplay) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><title>zedview preview</title><img src="/stream" alt="waiting for frames">`)
}

func (d *HTTPDisplay) writeJPEG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/jpeg")
	if err := jpeg.Encode(w, img, nil); err != nil {
		d.logger.Debugw("jpeg encode failed", "error", err)
	}
}

func (d *HTTPDisplay) handleFrame(w http.ResponseWriter, _ *http.Request) {
	img := d.latestFrame()
	if img == nil {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	d.writeJPEG(w, img)
}

func (d *HTTPDisplay) handleThumb(w http.ResponseWriter, _ *http.Request) {
	img := d.latestFrame()
	if img == nil {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	d.writeJPEG(w, resize.Resize(thumbWidth, 0, img, resize.Bilinear))
}

func (d *HTTPDisplay) handleStream(w http.ResponseWriter, r *http.Request) {
	const boundary = "zedviewframe"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var last image.Image
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
		img := d.latestFrame()
		if img == nil || img == last {
			continue
		}
		last = img
		if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\n\r\n", boundary); err != nil {
			return
		}
		if err := jpeg.Encode(w, img, nil); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		flusher.Flush()
	}
}
