package catalog

import "time"

// Photo is one image asset known to the catalog. URL fields and dimensions
// come from the image host and never change after creation; only the
// descriptive fields are patchable.
type Photo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublicID     string    `json:"publicId"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"createdAt"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
}

// PatchInput carries the mutable subset of a photo. Nil fields are left
// untouched.
type PatchInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
}

// ListParams configures catalog listing.
type ListParams struct {
	Category string
	Force    bool
}
