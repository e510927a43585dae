package engine

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// Export is the outcome of one ExportSnapshot call.
type Export struct {
	Path string
	Err  error
}

type exporter struct {
	wg sync.WaitGroup
}

func (x *exporter) wait() {
	x.wg.Wait()
}

// ExportName returns the file name of a snapshot taken at unixMillis.
func ExportName(canvasID string, unixMillis int64) string {
	return fmt.Sprintf("collective-canvas-%s-%d.png", canvasID, unixMillis)
}

// Exports delivers the result of every ExportSnapshot call. It is closed by
// Dispose.
func (e *Engine) Exports() <-chan Export {
	return e.exports
}

// ExportSnapshot captures the current frame and writes it as a PNG into dir
// in the background. The result arrives on Exports.
func (e *Engine) ExportSnapshot(dir string) (string, error) {
	if e.disposed {
		return "", ErrDisposed
	}
	if !e.initialized {
		return "", ErrNotInitialized
	}
	img, err := e.painter.Capture()
	if err != nil {
		return "", fmt.Errorf("engine: capture: %w", err)
	}
	path := filepath.Join(dir, ExportName(e.opts.CanvasID, e.clock.Now().UnixMilli()))

	e.exporter.wg.Add(1)
	go func() {
		defer e.exporter.wg.Done()
		res := Export{Path: path, Err: writePNG(path, img)}
		if res.Err != nil {
			e.log.Errorf("Saving snapshot: %v", res.Err)
		} else {
			e.log.Infof("Saved snapshot to %s", path)
		}
		select {
		case e.exports <- res:
		default:
			e.log.Debugf("Export result for %s not consumed", path)
		}
	}()
	return path, nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
