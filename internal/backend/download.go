package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"folioterm/internal/portfolio"
)

// FileDownloader saves resumes into Dir. URLs may be http(s) or file paths.
type FileDownloader struct {
	Dir  string
	HTTP *http.Client
}

func (d *FileDownloader) Download(ctx context.Context, r portfolio.Resume) (string, int64, error) {
	name := filepath.Base(strings.TrimSpace(r.FileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("resume-%s.pdf", r.Lang)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", 0, err
	}
	src, err := d.open(ctx, r.URL)
	if err != nil {
		return "", 0, fmt.Errorf("download %s: %w", r.URL, err)
	}
	defer src.Close()

	dst := filepath.Join(d.Dir, name)
	tmp, err := os.CreateTemp(d.Dir, "."+name+".*")
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("download %s: %w", r.URL, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, err
	}
	return dst, n, nil
}

func (d *FileDownloader) open(ctx context.Context, url string) (io.ReadCloser, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return os.Open(strings.TrimPrefix(url, "file://"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	hc := d.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Status: resp.StatusCode}
	}
	return resp.Body, nil
}
