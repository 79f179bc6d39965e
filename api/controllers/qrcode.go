package controllers

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/VamsiDavuluri/vendor-inventory/api/responses"
	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
)

const qrSizePixels = 256

// VendorQRCode returns a PNG QR code, as a data URL, that links to the
// vendor's upload portal page.
func VendorQRCode(directory catalog.Directory, logg *logger.Logger, portalBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorId")

		if _, err := directory.Products(vendorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := fmt.Sprintf("%s/vendor/%s", portalBaseURL, vendorID)
		png, err := qrcode.Encode(target, qrcode.Medium, qrSizePixels)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding qr code"))
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"vendor_id": vendorID,
			"target":    target,
			"qr_code":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		})
	}
}
