package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/internal/gallery"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db/models"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
)

type memStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (s *memStore) UploadObject(_ context.Context, _, object, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[object] = data
	return nil
}

func (s *memStore) DeleteObject(context.Context, string, string) error { return nil }

func (s *memStore) SignedReadURL(bucket, object string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://signed.example/%s/%s", bucket, object), nil
}

type memIndex struct {
	mu      sync.Mutex
	entries []models.GalleryEntry
}

func (s *memIndex) Insert(_ context.Context, entry *models.GalleryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memIndex) Remove(_ context.Context, vendorID, productID, objectKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.VendorID == vendorID && entry.ProductID == productID && entry.ObjectKey == objectKey {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memIndex) Touch(_ context.Context, vendorID, productID, objectKey string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.VendorID == vendorID && entry.ProductID == productID && entry.ObjectKey == objectKey {
			s.entries[i].RecordedAt = at
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memIndex) List(_ context.Context, vendorID, productID string) ([]models.GalleryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.GalleryEntry
	for _, entry := range s.entries {
		if entry.VendorID == vendorID && entry.ProductID == productID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

type rawNormalizer struct{}

func (rawNormalizer) Normalize(data []byte) (*gallery.NormalizedImage, error) {
	return &gallery.NormalizedImage{Data: data, ContentType: "image/webp"}, nil
}

func newGalleryTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	directory := catalog.NewStatic(map[string][]catalog.Product{
		"vendor_123": {
			{ID: "prod_1", Name: "Air Max", Brand: "nike"},
		},
	})

	svc, err := gallery.NewService(gallery.ServiceParams{
		Catalog:      directory,
		Index:        &memIndex{},
		Store:        &memStore{uploads: map[string][]byte{}},
		Normalizer:   rawNormalizer{},
		Bucket:       "test-bucket",
		SignedURLTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/api/v1/vendors/{vendorId}/products/{productId}/images", func(r chi.Router) {
		r.Get("/", GetGallery(svc, logg))
		r.Post("/", MutateGallery(svc, logg, 1<<20))
	})
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files []string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for _, name := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(name + "-bytes")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

type galleryEnvelope struct {
	Data struct {
		Images        []string `json:"images"`
		CoverImageURL *string  `json:"cover_image_url"`
		ImageCount    int      `json:"image_count"`
	} `json:"data"`
}

func decodeGallery(t *testing.T, rec *httptest.ResponseRecorder) galleryEnvelope {
	t.Helper()
	var envelope galleryEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestGalleryEndpoints(t *testing.T) {
	router := newGalleryTestRouter(t)
	base := "/api/v1/vendors/vendor_123/products/prod_1/images/"

	t.Run("empty gallery", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		envelope := decodeGallery(t, rec)
		if envelope.Data.ImageCount != 0 || len(envelope.Data.Images) != 0 {
			t.Fatalf("expected empty gallery, got %+v", envelope.Data)
		}
		if envelope.Data.CoverImageURL != nil {
			t.Fatalf("expected nil cover url for empty gallery")
		}
	})

	t.Run("upload with thumbnail index", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"action": "upload", "thumbnail_index": "1"},
			[]string{"a.jpg", "b.jpg"})
		req := httptest.NewRequest(http.MethodPost, base, body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		envelope := decodeGallery(t, rec)
		if envelope.Data.ImageCount != 2 {
			t.Fatalf("expected 2 images, got %d", envelope.Data.ImageCount)
		}
		if envelope.Data.CoverImageURL == nil || *envelope.Data.CoverImageURL != envelope.Data.Images[0] {
			t.Fatalf("expected cover url to be the first image")
		}
	})

	t.Run("upload without files", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"action": "upload"}, nil)
		req := httptest.NewRequest(http.MethodPost, base, body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"action": "delete", "object_key": "vendor_123/nike/prod_1/missing.webp"}, nil)
		req := httptest.NewRequest(http.MethodPost, base, body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for absent key, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("set thumbnail on unknown key", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"action": "setThumbnail", "object_key": "vendor_123/nike/prod_1/missing.webp"}, nil)
		req := httptest.NewRequest(http.MethodPost, base, body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unsupported action", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"action": "archive"}, nil)
		req := httptest.NewRequest(http.MethodPost, base, body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"action": "upload"}, []string{"a.jpg"})
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/vendors/vendor_123/products/prod_99/images/", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
