package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tilestudio-il/tilestudio-backend/pkg/cloudinary"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

type stubHost struct {
	assets      []cloudinary.Asset
	listErr     error
	listCalls   int
	uploaded    *cloudinary.UploadResult
	uploadErr   error
	destroyed   []string
	destroyErr  error
	uploadCalls int
}

func (s *stubHost) ListFolder(ctx context.Context, max int) ([]cloudinary.Asset, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.assets, nil
}

func (s *stubHost) UploadFile(ctx context.Context, path string) (*cloudinary.UploadResult, error) {
	s.uploadCalls++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploaded, nil
}

func (s *stubHost) Destroy(ctx context.Context, publicID string) error {
	if s.destroyErr != nil {
		return s.destroyErr
	}
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func newTestService(t *testing.T, host ImageHost) (*Service, *Store) {
	t.Helper()
	store := NewStore()
	svc, err := NewService(ServiceParams{Store: store, Host: host, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestSyncWithoutHostIsNoop(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil)
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("sync without host should not error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("sync without host must not mutate the store, got %d photos", store.Len())
	}
}

func TestSyncDeduplicatesByPublicID(t *testing.T) {
	t.Parallel()

	host := &stubHost{assets: []cloudinary.Asset{
		{PublicID: "tilestudio/new-project", SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/tilestudio/new-project.jpg", Width: 800, Height: 600, CreatedAt: time.Now()},
		{PublicID: "tilestudio/new-project", SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/tilestudio/new-project.jpg"},
		{PublicID: "tilestudio/gallery_thumb"},
		{PublicID: "tilestudio/hero-banner"},
		{PublicID: ""},
	}}
	svc, store := newTestService(t, host)

	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one appended photo, got %d", store.Len())
	}

	// a second pass with the same listing must not insert duplicates
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("second sync inserted a duplicate, got %d photos", store.Len())
	}
	if !store.HasPublicID("tilestudio/new-project") {
		t.Fatal("synced public id missing from store")
	}
}

func TestListSeedsOnColdStartEvenWhenHostUnreachable(t *testing.T) {
	t.Parallel()

	host := &stubHost{listErr: fmt.Errorf("connection refused")}
	svc, _ := newTestService(t, host)

	photos := svc.List(context.Background(), ListParams{})
	if len(photos) < len(knownAssets) {
		t.Fatalf("expected at least the %d known entries, got %d", len(knownAssets), len(photos))
	}
	seen := map[string]bool{}
	for _, p := range photos {
		seen[p.PublicID] = true
	}
	for _, asset := range knownAssets {
		if !seen[asset.publicID] {
			t.Fatalf("known asset %s missing from cold listing", asset.publicID)
		}
	}
}

func TestListForcesSyncOnDemand(t *testing.T) {
	t.Parallel()

	host := &stubHost{}
	svc, _ := newTestService(t, host)

	svc.List(context.Background(), ListParams{})
	calls := host.listCalls
	svc.List(context.Background(), ListParams{Force: true})
	if host.listCalls != calls+1 {
		t.Fatalf("forced list should trigger a sync, calls=%d", host.listCalls)
	}
}

func TestListSkipsSyncWhileFresh(t *testing.T) {
	t.Parallel()

	host := &stubHost{}
	svc, _ := newTestService(t, host)

	svc.List(context.Background(), ListParams{})
	calls := host.listCalls
	svc.List(context.Background(), ListParams{})
	if host.listCalls != calls {
		t.Fatalf("fresh catalog should not re-sync, calls went %d -> %d", calls, host.listCalls)
	}
}

func TestUploadAppendsRecord(t *testing.T) {
	t.Parallel()

	host := &stubHost{uploaded: &cloudinary.UploadResult{
		PublicID:     "tilestudio/uploaded-1",
		SecureURL:    "https://res.cloudinary.com/demo/image/upload/v1/tilestudio/uploaded-1.jpg",
		ThumbnailURL: "https://res.cloudinary.com/demo/image/upload/t/v1/tilestudio/uploaded-1.jpg",
		Width:        1024,
		Height:       768,
	}}
	svc, store := newTestService(t, host)

	photo, err := svc.Upload(context.Background(), UploadInput{
		File:     bytes.NewReader([]byte("fake-image-bytes")),
		FileName: "uploaded-1.jpg",
		Title:    "עבודה חדשה",
		Category: "mosaic",
		Tags:     "פסיפס, אמבטיה",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photo.ID == "" {
		t.Fatal("uploaded photo must get a generated id")
	}
	if photo.PublicID != "tilestudio/uploaded-1" {
		t.Fatalf("unexpected public id %q", photo.PublicID)
	}
	if len(photo.Tags) != 2 {
		t.Fatalf("expected 2 parsed tags, got %v", photo.Tags)
	}
	if _, ok := store.Get(photo.ID); !ok {
		t.Fatal("uploaded photo missing from store")
	}
}

func TestUploadWithoutHostFails(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	_, err := svc.Upload(context.Background(), UploadInput{File: bytes.NewReader([]byte("x")), FileName: "x.jpg"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPatchNeverTouchesImmutableFields(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil)
	svc.EnsureInitialized(context.Background())

	before, _ := store.Get("seed-showcase-1")
	title := "כותרת חדשה"
	category := "bathroom"
	tags := []string{"חדש"}
	updated, err := svc.Patch(context.Background(), "seed-showcase-1", PatchInput{
		Title:    &title,
		Category: &category,
		Tags:     &tags,
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.Title != title || updated.Category != category {
		t.Fatalf("mutable fields not applied: %+v", updated)
	}
	if updated.ID != before.ID || updated.URL != before.URL ||
		updated.ThumbnailURL != before.ThumbnailURL || updated.PublicID != before.PublicID ||
		updated.Width != before.Width || updated.Height != before.Height ||
		!updated.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("immutable fields changed: before=%+v after=%+v", before, updated)
	}
}

func TestPatchMissingPhotoIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	_, err := svc.Patch(context.Background(), "nope", PatchInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteDestroysRemoteThenLocal(t *testing.T) {
	t.Parallel()

	host := &stubHost{}
	svc, store := newTestService(t, host)
	svc.EnsureInitialized(context.Background())

	if err := svc.Delete(context.Background(), "seed-showcase-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(host.destroyed) != 1 || host.destroyed[0] != "tilestudio/showcase-1" {
		t.Fatalf("expected remote destroy first, got %v", host.destroyed)
	}
	if _, ok := store.Get("seed-showcase-1"); ok {
		t.Fatal("local record should be removed")
	}
}

func TestDeleteKeepsLocalWhenRemoteFails(t *testing.T) {
	t.Parallel()

	host := &stubHost{destroyErr: fmt.Errorf("api down")}
	svc, store := newTestService(t, host)
	svc.EnsureInitialized(context.Background())

	err := svc.Delete(context.Background(), "seed-showcase-1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if _, ok := store.Get("seed-showcase-1"); !ok {
		t.Fatal("local record must survive a failed remote destroy")
	}
}

func TestRemoveTempLogsFailureWithError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	store := NewStore()
	svc, err := NewService(ServiceParams{Store: store, Logger: logg})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "gone.jpg")
	svc.removeTemp(context.Background(), missing)

	out := buf.String()
	if !strings.Contains(out, "catalog.temp_cleanup_failed") {
		t.Fatalf("expected cleanup warning, got %q", out)
	}
	if !strings.Contains(out, missing) {
		t.Fatalf("expected path in log, got %q", out)
	}
	if !strings.Contains(out, `"error"`) {
		t.Fatalf("expected error detail in log, got %q", out)
	}
}

func TestDeleteMissingPhotoLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil)
	svc.EnsureInitialized(context.Background())
	before := store.Len()

	err := svc.Delete(context.Background(), "missing-id")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.Len() != before {
		t.Fatalf("store mutated on failed delete: %d -> %d", before, store.Len())
	}
}
