package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VamsiDavuluri/vendor-inventory/api/responses"
	"github.com/VamsiDavuluri/vendor-inventory/api/validators"
	"github.com/VamsiDavuluri/vendor-inventory/internal/gallery"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
)

type galleryResponse struct {
	Images        []string `json:"images"`
	CoverImageURL *string  `json:"cover_image_url"`
	ImageCount    int      `json:"image_count"`
}

func newGalleryResponse(urls []string) galleryResponse {
	resp := galleryResponse{
		Images:     urls,
		ImageCount: len(urls),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if len(urls) > 0 {
		resp.CoverImageURL = &urls[0]
	}
	return resp
}

// GetGallery returns the product's gallery as ordered signed URLs, cover
// first.
func GetGallery(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorId")
		productID := chi.URLParam(r, "productId")
		ctx := scopeContext(r, logg, vendorID, productID)

		urls, err := svc.ListGallery(ctx, vendorID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newGalleryResponse(urls))
	}
}

func scopeContext(r *http.Request, logg *logger.Logger, vendorID, productID string) context.Context {
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithVendorID(ctx, vendorID)
		ctx = logg.WithProductID(ctx, productID)
	}
	return ctx
}

// MutateGallery handles the multipart mutation endpoint. The form carries an
// "action" field (upload, delete, setThumbnail) plus action-specific fields:
// uploads read every part named "files" and an optional "thumbnail_index",
// delete and setThumbnail read "object_key". Every successful mutation
// responds with the refreshed gallery.
func MutateGallery(svc *gallery.Service, logg *logger.Logger, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorId")
		productID := chi.URLParam(r, "productId")
		ctx := scopeContext(r, logg, vendorID, productID)

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(ctx, logg, w, multipartError(err))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		input, err := parseMutationForm(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		urls, err := svc.Mutate(ctx, vendorID, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newGalleryResponse(urls))
	}
}

func parseMutationForm(r *http.Request) (gallery.MutationInput, error) {
	form := validators.MutationForm{
		Action:    r.FormValue("action"),
		ObjectKey: r.FormValue("object_key"),
	}
	if form.Action == "" {
		form.Action = string(gallery.ActionUpload)
	}

	if raw := r.FormValue("thumbnail_index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return gallery.MutationInput{}, pkgerrors.New(pkgerrors.CodeValidation, "thumbnail_index must be an integer")
		}
		form.ThumbnailIndex = &idx
	}

	if err := validators.ValidateStruct(form); err != nil {
		return gallery.MutationInput{}, err
	}

	input := gallery.MutationInput{
		Action:         gallery.Action(form.Action),
		ThumbnailIndex: form.ThumbnailIndex,
		ObjectKey:      form.ObjectKey,
	}

	if input.Action == gallery.ActionUpload {
		files, err := readUploadFiles(r.MultipartForm)
		if err != nil {
			return input, err
		}
		input.Files = files
	}

	return input, nil
}

func readUploadFiles(form *multipart.Form) ([]gallery.UploadFile, error) {
	if form == nil || len(form.File["files"]) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded")
	}

	headers := form.File["files"]
	files := make([]gallery.UploadFile, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file")
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file")
		}
		files = append(files, gallery.UploadFile{Name: header.Filename, Data: data})
	}
	return files, nil
}

func multipartError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
}
