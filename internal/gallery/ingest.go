package gallery

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/multierr"

	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db/models"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
)

// UploadFile is one raw file in an upload batch.
type UploadFile struct {
	Name string
	Data []byte
}

// Pipeline ingests upload batches: normalize, store the blob, then index
// it. Files in a batch run concurrently and fail independently.
type Pipeline struct {
	store      objectStore
	index      galleryIndex
	normalizer Normalizer
	bucket     string
	now        func() time.Time
}

// NewPipeline constructs an ingestion pipeline.
func NewPipeline(store objectStore, index galleryIndex, normalizer Normalizer, bucket string) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if index == nil {
		return nil, fmt.Errorf("gallery index required")
	}
	if normalizer == nil {
		normalizer = WebPNormalizer{}
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	return &Pipeline{
		store:      store,
		index:      index,
		normalizer: normalizer,
		bucket:     bucket,
		now:        time.Now,
	}, nil
}

// Ingest stores every file in the batch and returns the object keys of the
// files that made it, in batch order. Ordering keys are assigned before any
// I/O starts: file i gets now minus (i+1) seconds so batch order survives uneven
// upload latency, and the file at thumbnailIndex gets now itself, which
// makes it the gallery maximum and therefore the thumbnail. A non-nil
// error aggregates every per-file failure; successes are never rolled back.
func (p *Pipeline) Ingest(
	ctx context.Context,
	vendorID, productID string,
	product catalog.Product,
	files []UploadFile,
	thumbnailIndex *int,
) ([]string, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded")
	}
	if thumbnailIndex != nil && (*thumbnailIndex < 0 || *thumbnailIndex >= len(files)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thumbnail_index out of range")
	}

	now := p.now()
	recordedAt := make([]time.Time, len(files))
	for i := range files {
		recordedAt[i] = now.Add(-time.Duration(i+1) * time.Second)
		if thumbnailIndex != nil && *thumbnailIndex == i {
			recordedAt[i] = now
		}
	}

	keys := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i], errs[i] = p.ingestOne(ctx, vendorID, productID, product, files[i], recordedAt[i])
		}(i)
	}
	wg.Wait()

	var succeeded []string
	for i := range files {
		if errs[i] == nil {
			succeeded = append(succeeded, keys[i])
		}
	}

	return succeeded, multierr.Combine(errs...)
}

func (p *Pipeline) ingestOne(
	ctx context.Context,
	vendorID, productID string,
	product catalog.Product,
	file UploadFile,
	recordedAt time.Time,
) (string, error) {
	normalized, err := p.normalizer.Normalize(file.Data)
	if err != nil {
		return "", fmt.Errorf("normalize %s: %w", file.Name, err)
	}

	objectKey := buildObjectKey(vendorID, product.Brand, productID, p.now())

	if err := p.store.UploadObject(ctx, p.bucket, objectKey, normalized.ContentType, normalized.Data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("store %s", file.Name))
	}

	entry := &models.GalleryEntry{
		VendorID:    vendorID,
		ProductID:   productID,
		ProductName: product.Name,
		BrandName:   product.Brand,
		ObjectKey:   objectKey,
		RecordedAt:  recordedAt,
	}
	if err := p.index.Insert(ctx, entry); err != nil {
		// The blob is stored but unindexed: a known drift, surfaced not masked.
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("index %s", file.Name))
	}

	return objectKey, nil
}

// buildObjectKey namespaces blobs by vendor, brand and product, with a
// timestamp+random suffix so concurrent uploads to one product never collide.
func buildObjectKey(vendorID, brand, productID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%d-%09d.webp",
		vendorID, slugify(brand), productID, at.UnixMilli(), rand.Intn(1_000_000_000))
}

func slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "unbranded"
	}
	return slug
}
