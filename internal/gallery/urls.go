package gallery

import (
	"time"

	"github.com/VamsiDavuluri/vendor-inventory/pkg/db/models"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
)

type urlSigner interface {
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Projector maps gallery entries to time-limited signed read URLs,
// preserving order. It never checks that the objects still exist.
type Projector struct {
	signer urlSigner
	bucket string
	ttl    time.Duration
}

// NewProjector constructs a projector issuing URLs valid for ttl.
func NewProjector(signer urlSigner, bucket string, ttl time.Duration) *Projector {
	return &Projector{signer: signer, bucket: bucket, ttl: ttl}
}

// Project returns one signed URL per entry, in input order.
func (p *Projector) Project(entries []models.GalleryEntry) ([]string, error) {
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		url, err := p.signer.SignedReadURL(p.bucket, entry.ObjectKey, p.ttl)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "signing read url")
		}
		urls = append(urls, url)
	}
	return urls, nil
}
