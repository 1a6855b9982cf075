package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tilestudio-il/tilestudio-backend/pkg/cloudinary"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

const (
	defaultSyncMaxAge   = 30 * time.Second
	defaultSyncPageSize = 100
	defaultCategory     = "general"
)

// ImageHost is the narrow surface of the remote asset provider the catalog
// depends on. A nil host means no credentials are configured: sync becomes a
// no-op and uploads fail with a dependency error.
type ImageHost interface {
	ListFolder(ctx context.Context, max int) ([]cloudinary.Asset, error)
	UploadFile(ctx context.Context, path string) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// ServiceParams configure the catalog service.
type ServiceParams struct {
	Store        *Store
	Host         ImageHost
	Logger       *logger.Logger
	SyncMaxAge   time.Duration
	SyncPageSize int
}

// Service keeps the in-memory catalog loosely synchronized with the image
// host and exposes the CRUD surface the HTTP layer uses.
type Service struct {
	store    *Store
	host     ImageHost
	logg     *logger.Logger
	maxAge   time.Duration
	pageSize int

	mu          sync.Mutex
	initialized bool
	lastSync    time.Time
	now         func() time.Time
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxAge := params.SyncMaxAge
	if maxAge <= 0 {
		maxAge = defaultSyncMaxAge
	}
	pageSize := params.SyncPageSize
	if pageSize <= 0 {
		pageSize = defaultSyncPageSize
	}
	return &Service{
		store:    params.Store,
		host:     params.Host,
		logg:     params.Logger,
		maxAge:   maxAge,
		pageSize: pageSize,
		now:      time.Now,
	}, nil
}

// EnsureInitialized seeds the store and runs the first sync pass. Repeat
// calls are no-ops.
func (s *Service) EnsureInitialized(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	for _, p := range seedPhotos(s.now()) {
		s.store.Add(p)
	}
	s.mu.Unlock()

	if err := s.Sync(ctx); err != nil {
		s.logg.Error(ctx, "catalog.initial_sync_failed", err)
	}
}

// Sync reconciles the store against the host's folder listing, appending
// only assets whose public id is not yet known. Without a configured host it
// returns immediately; that is a benign state, not an error.
func (s *Service) Sync(ctx context.Context) error {
	if s.host == nil {
		s.markSynced()
		return nil
	}

	assets, err := s.host.ListFolder(ctx, s.pageSize)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "list remote assets")
	}

	known := s.store.PublicIDs()
	for id := range excludedPublicIDs {
		known[id] = struct{}{}
	}

	added := 0
	for _, asset := range assets {
		if asset.PublicID == "" {
			continue
		}
		if isThumbnailVariant(asset.PublicID) {
			continue
		}
		if _, seen := known[asset.PublicID]; seen {
			continue
		}
		photo := photoFromAsset(asset)
		if s.store.Add(photo) {
			known[asset.PublicID] = struct{}{}
			added++
		}
	}

	if added > 0 {
		s.logg.Info(s.logg.WithField(ctx, "added", added), "catalog.sync_added_photos")
	}
	s.markSynced()
	return nil
}

func (s *Service) markSynced() {
	s.mu.Lock()
	s.lastSync = s.now()
	s.mu.Unlock()
}

func (s *Service) syncStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.lastSync) > s.maxAge
}

// List returns catalog photos newest first, optionally filtered by category.
// It lazily initializes the store and re-syncs when forced or stale; sync
// failures never block the read path.
func (s *Service) List(ctx context.Context, params ListParams) []Photo {
	s.EnsureInitialized(ctx)

	if params.Force || s.syncStale() {
		if err := s.Sync(ctx); err != nil {
			s.logg.Error(ctx, "catalog.sync_failed", err)
		}
	}

	return s.store.List(params.Category)
}

// Get returns one photo by id.
func (s *Service) Get(ctx context.Context, id string) (*Photo, error) {
	s.EnsureInitialized(ctx)

	photo, ok := s.store.Get(id)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Photo not found")
	}
	return &photo, nil
}

// UploadInput carries a new photo's file contents and metadata.
type UploadInput struct {
	File        io.Reader
	FileName    string
	Title       string
	Description string
	Category    string
	Tags        string
}

// Upload stores the file to a temporary path, forwards it to the image host
// and appends the resulting record to the catalog.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*Photo, error) {
	s.EnsureInitialized(ctx)

	if s.host == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image host is not configured")
	}
	if input.File == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	tmp, err := os.CreateTemp("", "tilestudio-upload-*"+filepath.Ext(input.FileName))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create temp file")
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, input.File); err != nil {
		tmp.Close()
		s.removeTemp(ctx, tmpPath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "buffer upload")
	}
	if err := tmp.Close(); err != nil {
		s.removeTemp(ctx, tmpPath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush upload")
	}

	uploaded, err := s.host.UploadFile(ctx, tmpPath)
	s.removeTemp(ctx, tmpPath)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "upload to image host")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultCategory
	}

	photo := Photo{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		URL:          uploaded.SecureURL,
		ThumbnailURL: uploaded.ThumbnailURL,
		PublicID:     uploaded.PublicID,
		Width:        uploaded.Width,
		Height:       uploaded.Height,
		CreatedAt:    s.now(),
		Category:     category,
		Tags:         splitTags(input.Tags),
	}
	s.store.Add(photo)
	return &photo, nil
}

// Patch merges the provided mutable fields into the stored photo. Identity
// and host-derived fields are never touched.
func (s *Service) Patch(ctx context.Context, id string, input PatchInput) (*Photo, error) {
	s.EnsureInitialized(ctx)

	updated, ok := s.store.Update(id, func(p *Photo) {
		if input.Title != nil {
			p.Title = *input.Title
		}
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.Category != nil {
			p.Category = *input.Category
		}
		if input.Tags != nil {
			p.Tags = append([]string(nil), (*input.Tags)...)
		}
	})
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Photo not found")
	}
	return &updated, nil
}

// Delete removes the remote asset first, then the local record. When the
// host rejects the destroy the local record stays, so the catalog never
// points at an asset we failed to release. A crash between the two steps
// leaves an orphaned local record until restart reseeds the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.EnsureInitialized(ctx)

	photo, ok := s.store.Get(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Photo not found")
	}

	if photo.PublicID != "" && s.host != nil {
		if err := s.host.Destroy(ctx, photo.PublicID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "destroy remote asset")
		}
	}

	s.store.Remove(id)
	return nil
}

func (s *Service) removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		s.logg.Warn(logCtx, "catalog.temp_cleanup_failed")
	}
}

func photoFromAsset(asset cloudinary.Asset) Photo {
	title := path.Base(asset.PublicID)
	return Photo{
		ID:           publicIDToPhotoID(asset.PublicID),
		Title:        title,
		URL:          asset.SecureURL,
		ThumbnailURL: cloudinary.ThumbnailURL(asset.SecureURL),
		PublicID:     asset.PublicID,
		Width:        asset.Width,
		Height:       asset.Height,
		CreatedAt:    asset.CreatedAt,
		Category:     defaultCategory,
		Tags:         append([]string(nil), asset.Tags...),
	}
}

func publicIDToPhotoID(publicID string) string {
	return strings.ReplaceAll(publicID, "/", "-")
}

func isThumbnailVariant(publicID string) bool {
	base := strings.ToLower(publicID)
	return strings.HasSuffix(base, "_thumb") || strings.Contains(base, "/thumbs/")
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
