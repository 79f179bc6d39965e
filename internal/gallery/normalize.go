package gallery

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Register decoders for the formats vendors actually send.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
)

const defaultWebPQuality = 80

// NormalizedImage is the canonical stored representation of an upload.
type NormalizedImage struct {
	Data        []byte
	ContentType string
}

// Normalizer converts raw upload bytes into the canonical encoded format.
type Normalizer interface {
	Normalize(data []byte) (*NormalizedImage, error)
}

// WebPNormalizer re-encodes uploads as lossy WebP at a fixed quality, the
// same canonicalization every gallery write goes through.
type WebPNormalizer struct {
	Quality float32
}

func (n WebPNormalizer) Normalize(data []byte) (*NormalizedImage, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty file")
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported content type %s", detected.String()))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding image")
	}

	quality := n.Quality
	if quality <= 0 {
		quality = defaultWebPQuality
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding webp")
	}

	return &NormalizedImage{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
	}, nil
}
