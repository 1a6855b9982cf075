package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/tilestudio-il/tilestudio-backend/pkg/config"
)

// thumbTransform is the fixed resize applied to delivery URLs to derive
// gallery thumbnails, instead of asking the host for a second asset.
const thumbTransform = "c_fill,w_600,h_450,q_auto,f_auto"

var errNotConfigured = errors.New("cloudinary credentials are not configured")

// Asset is the subset of the host's search response the catalog consumes.
// Parsed at the boundary; the rest of the response shape is ignored.
type Asset struct {
	PublicID  string
	SecureURL string
	Width     int
	Height    int
	CreatedAt time.Time
	Tags      []string
}

// UploadResult describes one uploaded image.
type UploadResult struct {
	PublicID     string
	SecureURL    string
	ThumbnailURL string
	Width        int
	Height       int
}

// Client wraps the Cloudinary SDK with the three calls the catalog needs.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewClient initializes the Cloudinary SDK from config.
func NewClient(cfg config.CloudinaryConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, errNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Client{cld: cld, folder: cfg.Folder}, nil
}

// Folder returns the asset folder the client operates on.
func (c *Client) Folder() string {
	return c.folder
}

// ListFolder returns the newest assets under the configured folder, capped
// at max results.
func (c *Client) ListFolder(ctx context.Context, max int) ([]Asset, error) {
	query := search.Query{
		Expression: fmt.Sprintf("folder:%s", c.folder),
		SortBy:     []search.SortByField{{"created_at": search.Descending}},
		MaxResults: max,
	}
	res, err := c.cld.Admin.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search folder %s: %w", c.folder, err)
	}

	assets := make([]Asset, 0, len(res.Assets))
	for _, a := range res.Assets {
		assets = append(assets, Asset{
			PublicID:  a.PublicID,
			SecureURL: a.SecureURL,
			Width:     a.Width,
			Height:    a.Height,
			CreatedAt: a.CreatedAt,
			Tags:      a.Tags,
		})
	}
	return assets, nil
}

// UploadFile sends the file at path to the host and returns the canonical
// URLs and dimensions.
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	res, err := c.cld.Upload.Upload(ctx, path, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	return &UploadResult{
		PublicID:     res.PublicID,
		SecureURL:    res.SecureURL,
		ThumbnailURL: ThumbnailURL(res.SecureURL),
		Width:        res.Width,
		Height:       res.Height,
	}, nil
}

// Destroy removes the asset with the given public id from the host.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("destroy %s: host returned %q", publicID, res.Result)
	}
	return nil
}

// ThumbnailURL derives the thumbnail variant of a delivery URL by inserting
// the fixed resize transform after the upload segment.
func ThumbnailURL(secureURL string) string {
	return strings.Replace(secureURL, "/upload/", "/upload/"+thumbTransform+"/", 1)
}
