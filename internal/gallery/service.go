package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db/models"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/metrics"
)

// Action selects which gallery mutation to apply.
type Action string

const (
	ActionUpload       Action = "upload"
	ActionDelete       Action = "delete"
	ActionSetThumbnail Action = "setThumbnail"
)

// MutationInput carries the payload for one gallery mutation.
type MutationInput struct {
	Action         Action
	Files          []UploadFile
	ThumbnailIndex *int
	ObjectKey      string
}

// ProductStatus summarizes one catalog product's gallery.
type ProductStatus struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	HasImages  bool    `json:"has_images"`
	CoverURL   *string `json:"cover_url"`
	ImageCount int     `json:"image_count"`
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, data []byte) error
	DeleteObject(ctx context.Context, bucket, object string) error
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type galleryIndex interface {
	Insert(ctx context.Context, entry *models.GalleryEntry) error
	Remove(ctx context.Context, vendorID, productID, objectKey string) (int64, error)
	Touch(ctx context.Context, vendorID, productID, objectKey string, at time.Time) (int64, error)
	List(ctx context.Context, vendorID, productID string) ([]models.GalleryEntry, error)
}

// StatusCache is the optional vendor status cache.
type StatusCache interface {
	StatusKey(vendorID string) string
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service coordinates gallery mutations across the object store and the
// gallery index, always returning the refreshed signed-URL view. The two
// stores share no transaction: upload and delete are store-then-index
// sequences, and a failure between the steps leaves drift that is
// reported, not repaired.
type Service struct {
	catalog   catalog.Directory
	index     galleryIndex
	store     objectStore
	pipeline  *Pipeline
	projector *Projector
	bucket    string
	cache     StatusCache
	cacheTTL  time.Duration
	metrics   *metrics.GalleryMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams bundles the collaborators Service needs. Cache, Metrics
// and Logger are optional.
type ServiceParams struct {
	Catalog      catalog.Directory
	Index        galleryIndex
	Store        objectStore
	Normalizer   Normalizer
	Bucket       string
	SignedURLTTL time.Duration
	Cache        StatusCache
	CacheTTL     time.Duration
	Metrics      *metrics.GalleryMetrics
	Logger       *logger.Logger
}

// NewService constructs the gallery mutation coordinator.
func NewService(params ServiceParams) (*Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog directory required")
	}
	if params.Index == nil {
		return nil, fmt.Errorf("gallery index required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	if params.SignedURLTTL <= 0 {
		return nil, fmt.Errorf("signed url ttl must be positive")
	}

	pipeline, err := NewPipeline(params.Store, params.Index, params.Normalizer, params.Bucket)
	if err != nil {
		return nil, err
	}

	return &Service{
		catalog:   params.Catalog,
		index:     params.Index,
		store:     params.Store,
		pipeline:  pipeline,
		projector: NewProjector(params.Store, params.Bucket, params.SignedURLTTL),
		bucket:    params.Bucket,
		cache:     params.Cache,
		cacheTTL:  params.CacheTTL,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// Mutate applies one gallery mutation and returns the refreshed gallery as
// ordered signed URLs; the first URL is the thumbnail.
func (s *Service) Mutate(ctx context.Context, vendorID, productID string, input MutationInput) ([]string, error) {
	if vendorID == "" || productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id and product id are required")
	}

	var err error
	switch input.Action {
	case ActionUpload:
		err = s.applyUpload(ctx, vendorID, productID, input)
	case ActionDelete:
		err = s.applyDelete(ctx, vendorID, productID, input.ObjectKey)
	case ActionSetThumbnail:
		err = s.applySetThumbnail(ctx, vendorID, productID, input.ObjectKey)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported action %q", input.Action))
	}

	// Partial upload progress still changes the gallery, so the cached
	// vendor status is stale either way.
	s.invalidateStatus(ctx, vendorID)

	if err != nil {
		s.metrics.IncFailure(string(input.Action))
		return nil, err
	}
	s.metrics.IncMutation(string(input.Action))

	return s.ListGallery(ctx, vendorID, productID)
}

func (s *Service) applyUpload(ctx context.Context, vendorID, productID string, input MutationInput) error {
	if len(input.Files) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded")
	}

	product, err := s.catalog.ProductInfo(vendorID, productID)
	if err != nil {
		return err
	}

	start := s.now()
	keys, ingestErr := s.pipeline.Ingest(ctx, vendorID, productID, product, input.Files, input.ThumbnailIndex)
	s.metrics.ObserveIngestDuration(s.now().Sub(start))

	if ingestErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ingestErr, "upload batch failed").
			WithDetails(map[string]any{"uploaded_keys": keys})
	}
	return nil
}

func (s *Service) applyDelete(ctx context.Context, vendorID, productID, objectKey string) error {
	if objectKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object_key is required")
	}

	if err := s.store.DeleteObject(ctx, s.bucket, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting object")
	}

	rows, err := s.index.Remove(ctx, vendorID, productID, objectKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing index entry")
	}
	if rows == 0 && s.logg != nil {
		// Idempotent: deleting an absent key succeeds.
		s.logg.Info(s.logg.WithField(ctx, "object_key", objectKey), "delete matched no index entry")
	}
	return nil
}

func (s *Service) applySetThumbnail(ctx context.Context, vendorID, productID, objectKey string) error {
	if objectKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object_key is required")
	}

	rows, err := s.index.Touch(ctx, vendorID, productID, objectKey, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating thumbnail")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
	}
	return nil
}

// ListGallery returns the gallery's signed URLs, newest entry first.
func (s *Service) ListGallery(ctx context.Context, vendorID, productID string) ([]string, error) {
	entries, err := s.index.List(ctx, vendorID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing gallery")
	}
	return s.projector.Project(entries)
}

// ProductsWithStatus returns every catalog product for the vendor with its
// gallery summary. Results are cached per vendor for a short TTL.
func (s *Service) ProductsWithStatus(ctx context.Context, vendorID string) ([]ProductStatus, error) {
	if cached, ok := s.cachedStatus(ctx, vendorID); ok {
		return cached, nil
	}

	products, err := s.catalog.Products(vendorID)
	if err != nil {
		return nil, err
	}

	statuses := make([]ProductStatus, 0, len(products))
	for _, product := range products {
		entries, err := s.index.List(ctx, vendorID, product.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing gallery")
		}

		status := ProductStatus{
			ProductID:  product.ID,
			Name:       product.Name,
			Brand:      product.Brand,
			HasImages:  len(entries) > 0,
			ImageCount: len(entries),
		}
		if len(entries) > 0 {
			cover, err := s.projector.Project(entries[:1])
			if err != nil {
				return nil, err
			}
			status.CoverURL = &cover[0]
		}
		statuses = append(statuses, status)
	}

	s.storeStatus(ctx, vendorID, statuses)
	return statuses, nil
}

func (s *Service) cachedStatus(ctx context.Context, vendorID string) ([]ProductStatus, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, s.cache.StatusKey(vendorID))
	if err != nil || !found {
		if err != nil && s.logg != nil {
			s.logg.Warn(ctx, "status cache read failed")
		}
		return nil, false
	}
	var statuses []ProductStatus
	if err := json.Unmarshal([]byte(raw), &statuses); err != nil {
		return nil, false
	}
	return statuses, true
}

func (s *Service) storeStatus(ctx context.Context, vendorID string, statuses []ProductStatus) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(statuses)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.StatusKey(vendorID), string(raw), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "status cache write failed")
	}
}

func (s *Service) invalidateStatus(ctx context.Context, vendorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.StatusKey(vendorID)); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "status cache invalidation failed")
	}
}
