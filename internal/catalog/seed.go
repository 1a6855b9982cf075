package catalog

import (
	"time"

	"github.com/tilestudio-il/tilestudio-backend/pkg/cloudinary"
)

const deliveryBase = "https://res.cloudinary.com/tilestudio/image/upload"

// knownAssets are remote assets that existed before the sync pass was
// introduced. Their thumbnails are derived with the URL transform rather
// than fetched, and their public ids participate in sync dedup.
var knownAssets = []struct {
	publicID string
	title    string
	category string
	width    int
	height   int
}{
	{publicID: "tilestudio/kitchen-marble-1", title: "חיפוי שיש במטבח מודרני", category: "kitchen", width: 1920, height: 1280},
	{publicID: "tilestudio/bathroom-mosaic-1", title: "פסיפס באמבטיה", category: "bathroom", width: 1600, height: 1200},
	{publicID: "tilestudio/living-room-porcelain", title: "ריצוף פורצלן בסלון", category: "residential", width: 2048, height: 1365},
	{publicID: "tilestudio/commercial-lobby", title: "לובי משרדים", category: "commercial", width: 1920, height: 1080},
}

// excludedPublicIDs never enter the catalog from sync: site branding assets
// that live in the same folder.
var excludedPublicIDs = map[string]struct{}{
	"tilestudio/hero-banner":  {},
	"tilestudio/logo-full":    {},
	"tilestudio/og-preview":   {},
	"tilestudio/team-profile": {},
}

func seedPhotos(now time.Time) []Photo {
	photos := []Photo{
		{
			ID:           "seed-showcase-1",
			Title:        "עבודת ריצוף לדוגמה",
			Description:  "התקנת אריחי גרניט פורצלן 80x80",
			URL:          deliveryBase + "/v1/tilestudio/showcase-1.jpg",
			ThumbnailURL: cloudinary.ThumbnailURL(deliveryBase + "/v1/tilestudio/showcase-1.jpg"),
			PublicID:     "tilestudio/showcase-1",
			Width:        1920,
			Height:       1280,
			CreatedAt:    now.Add(-48 * time.Hour),
			Category:     "residential",
			Tags:         []string{"ריצוף", "גרניט פורצלן"},
		},
		{
			ID:           "seed-showcase-2",
			Title:        "חיפוי קיר דקורטיבי",
			Description:  "אריחי קרמיקה מעוצבים בקיר מטבח",
			URL:          deliveryBase + "/v1/tilestudio/showcase-2.jpg",
			ThumbnailURL: cloudinary.ThumbnailURL(deliveryBase + "/v1/tilestudio/showcase-2.jpg"),
			PublicID:     "tilestudio/showcase-2",
			Width:        1600,
			Height:       1067,
			CreatedAt:    now.Add(-72 * time.Hour),
			Category:     "kitchen",
			Tags:         []string{"חיפוי", "קרמיקה"},
		},
	}

	for i, asset := range knownAssets {
		url := deliveryBase + "/v1/" + asset.publicID + ".jpg"
		photos = append(photos, Photo{
			ID:           publicIDToPhotoID(asset.publicID),
			Title:        asset.title,
			URL:          url,
			ThumbnailURL: cloudinary.ThumbnailURL(url),
			PublicID:     asset.publicID,
			Width:        asset.width,
			Height:       asset.height,
			CreatedAt:    now.Add(-time.Duration(96+24*i) * time.Hour),
			Category:     asset.category,
			Tags:         []string{"גלריה"},
		})
	}
	return photos
}
