// Package fetch downloads remote files into the cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pavelanni/hwhelper/internal/output"
)

const reportEvery = 256 << 10

// Downloader streams HTTP bodies to disk, reporting progress to a sink.
type Downloader struct {
	client *http.Client
	sink   output.Sink
}

// New creates a downloader whose requests are bounded by timeout. Zero means no bound.
func New(timeout time.Duration, sink output.Sink) *Downloader {
	return &Downloader{client: &http.Client{Timeout: timeout}, sink: sink}
}

// Download fetches url into dest and returns the number of bytes written.
// The file is staged next to dest and renamed into place only when complete.
func (d *Downloader) Download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	pw := &progressWriter{sink: d.sink, label: filepath.Base(dest), total: resp.ContentLength}
	n, err := io.Copy(io.MultiWriter(tmp, pw), resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("download %s: %w", url, err)
	}
	pw.finish()

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return n, fmt.Errorf("move download into place: %w", err)
	}
	slog.Debug("downloaded", "url", url, "dest", dest, "bytes", n)
	return n, nil
}

type progressWriter struct {
	sink     output.Sink
	label    string
	total    int64
	done     int64
	reported int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if p.done-p.reported >= reportEvery {
		p.reported = p.done
		p.sink.Progress(p.label, p.done, p.total)
	}
	return len(b), nil
}

// finish emits the final update. An unknown length is reported as complete at the bytes received.
func (p *progressWriter) finish() {
	total := p.total
	if total <= 0 {
		total = p.done
	}
	p.sink.Progress(p.label, p.done, total)
}
