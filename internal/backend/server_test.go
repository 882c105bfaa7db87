package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folioterm/internal/i18n"
	"folioterm/internal/portfolio"
)

func newTestAPI(t *testing.T, apiKey string) (*HTTPClient, *SQLiteStore) {
	t.Helper()
	store := openStore(t)
	if err := store.CreateAdmin(context.Background(), "admin@example.com", "s3cret!"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	srv := NewServer(store, portfolio.Sample(), ServerOptions{APIKey: apiKey})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL, apiKey), store
}

func TestHTTPClientRoundTrip(t *testing.T) {
	client, _ := newTestAPI(t, "anon")
	ctx := context.Background()

	if err := client.SendMessage(ctx, Message{Name: "Ada", Email: "ada@example.com", Body: "Hello"}); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if err := client.SubmitTestimonial(ctx, Testimonial{AuthorName: "Grace", ContentEN: "Sharp engineer."}); err != nil {
		t.Fatalf("submit testimonial: %v", err)
	}

	if _, err := client.Authenticate(ctx, Credentials{Email: "admin@example.com", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	sess, err := client.Authenticate(ctx, Credentials{Email: "admin@example.com", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	sum, err := client.AdminSummary(ctx, sess)
	if err != nil {
		t.Fatalf("admin summary: %v", err)
	}
	if sum.MessageCount != 1 || sum.PendingCount != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if _, err := client.AdminSummary(ctx, Session{Token: "bogus"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestHTTPClientSnapshotIsPublic(t *testing.T) {
	client, _ := newTestAPI(t, "")
	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := portfolio.Sample()
	if snap.Profile.Name != want.Profile.Name {
		t.Fatalf("expected %q, got %q", want.Profile.Name, snap.Profile.Name)
	}
	for _, tm := range snap.Testimonials {
		if !tm.Approved {
			t.Fatalf("unapproved testimonial leaked: %+v", tm)
		}
	}
	if _, ok := snap.Resume(i18n.FR); !ok {
		t.Fatalf("expected fr resume in fetched snapshot")
	}
}

func TestServerRejectsInvalidPayloads(t *testing.T) {
	client, _ := newTestAPI(t, "")
	err := client.SendMessage(context.Background(), Message{Name: "Ada", Email: "not-an-email", Body: "hi"})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestServerRequiresAPIKey(t *testing.T) {
	client, _ := newTestAPI(t, "anon")
	client.AnonKey = "wrong"
	_, err := client.Snapshot(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHTTPClientMapsWrappedStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusUnauthorized, want: ErrInvalidCredentials},
		{status: http.StatusBadRequest, want: ErrInvalidCredentials},
		{status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		client := NewHTTPClient(ts.URL, "")
		_, err := client.Authenticate(context.Background(), Credentials{Email: "a@b.co", Password: "x"})
		ts.Close()

		if tt.want != nil {
			if !errors.Is(err, tt.want) {
				t.Fatalf("%d: expected %v, got %v", tt.status, tt.want, err)
			}
			continue
		}
		var se *StatusError
		if !errors.As(err, &se) || se.Status != tt.status || se.Message != "nope" {
			t.Fatalf("%d: expected wrapped status error, got %v", tt.status, err)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%d: server failure reported as bad credentials", tt.status)
		}
	}
}

func TestLocalClientValidatesLikeServer(t *testing.T) {
	store := openStore(t)
	c := &LocalClient{Store: store, Snap: portfolio.Sample()}
	ctx := context.Background()
	if err := c.SendMessage(ctx, Message{Name: "Ada", Email: "nope", Body: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if err := c.SendMessage(ctx, Message{Name: "Ada", Email: "ada@example.com", Body: "x"}); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if _, err := c.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestFileDownloader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cv.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer ts.Close()

	dir := filepath.Join(t.TempDir(), "downloads")
	d := &FileDownloader{Dir: dir}
	ctx := context.Background()

	path, size, err := d.Download(ctx, portfolio.Resume{Lang: i18n.FR, URL: ts.URL + "/cv.pdf", FileName: "../cv-fr.pdf"})
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if path != filepath.Join(dir, "cv-fr.pdf") || size != 2048 {
		t.Fatalf("unexpected result %s %d", path, size)
	}
	if info, err := os.Stat(path); err != nil || info.Size() != 2048 {
		t.Fatalf("file not written: %v", err)
	}

	if _, _, err := d.Download(ctx, portfolio.Resume{Lang: i18n.EN, URL: ts.URL + "/missing.pdf"}); err == nil {
		t.Fatalf("expected error for 404")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected failed download to leave no files, got %d entries", len(entries))
	}
}
