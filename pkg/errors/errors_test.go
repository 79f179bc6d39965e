package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "uploading object")

	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "uploading object", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "image not found")
	outer := fmt.Errorf("handling mutation: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]any{"field": "thumbnail_index"})
	details, ok := err.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "thumbnail_index", details["field"])
}

func TestMetadataFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, MetadataFor(CodeDependency).HTTPStatus)

	// Unknown codes degrade to internal.
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("MYSTERY")).HTTPStatus)
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeInternal, nil, "no cause")
	require.NotNil(t, err)
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "INTERNAL_ERROR: no cause", err.Error())
}
