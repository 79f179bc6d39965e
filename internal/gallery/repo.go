package gallery

import (
	"context"
	"time"

	"github.com/VamsiDavuluri/vendor-inventory/pkg/db"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db/models"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists gallery index rows. All lookups are scoped by the
// full (vendor, product, object key) triple.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a gallery repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists one gallery entry. RecordedAt is caller-supplied so
// ingestion can assign synthetic ordering values.
func (r *Repository) Insert(ctx context.Context, entry *models.GalleryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if db.IsUniqueViolation(err, "object_key") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "object key already indexed")
		}
		return err
	}
	return nil
}

// Remove deletes the matching entry and reports how many rows matched,
// so callers can distinguish "deleted" from "was never there".
func (r *Repository) Remove(ctx context.Context, vendorID, productID, objectKey string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("vendor_id = ? AND product_id = ? AND object_key = ?", vendorID, productID, objectKey).
		Delete(&models.GalleryEntry{})
	return res.RowsAffected, res.Error
}

// Touch rewrites recorded_at for the matching entry. Called with the
// current wall clock it promotes the entry to thumbnail position.
func (r *Repository) Touch(ctx context.Context, vendorID, productID, objectKey string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GalleryEntry{}).
		Where("vendor_id = ? AND product_id = ? AND object_key = ?", vendorID, productID, objectKey).
		Update("recorded_at", at)
	return res.RowsAffected, res.Error
}

// List returns the gallery ordered newest-first. An empty gallery is an
// empty slice, not an error.
func (r *Repository) List(ctx context.Context, vendorID, productID string) ([]models.GalleryEntry, error) {
	var entries []models.GalleryEntry
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND product_id = ?", vendorID, productID).
		Order("recorded_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
