package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryEntry is one stored image in a product gallery. Entries are
// listed by recorded_at descending; the newest entry is the thumbnail.
// recorded_at is an ordering key, not an upload time: ingestion assigns
// synthetic values and setThumbnail rewrites it to promote an entry.
type GalleryEntry struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    string    `gorm:"column:vendor_id;not null;index:idx_product_images_gallery,priority:1"`
	ProductID   string    `gorm:"column:product_id;not null;index:idx_product_images_gallery,priority:2"`
	ProductName string    `gorm:"column:product_name;not null"`
	BrandName   string    `gorm:"column:brand_name;not null"`
	ObjectKey   string    `gorm:"column:object_key;not null;unique"`
	RecordedAt  time.Time `gorm:"column:recorded_at;not null"`
}

// TableName pins the table name instead of GORM's pluralized default.
func (GalleryEntry) TableName() string {
	return "product_images"
}
