package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestProductImagesMigrationShape(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	var found string
	for _, e := range entries {
		if strings.Contains(e.Name(), "create_product_images") {
			found = e.Name()
		}
	}
	require.NotEmpty(t, found, "product_images migration missing")

	raw, err := os.ReadFile(filepath.Join("migrations", found))
	require.NoError(t, err)
	sql := string(raw)

	require.Contains(t, sql, "+goose Up")
	require.Contains(t, sql, "+goose Down")
	require.Contains(t, sql, "object_key text NOT NULL UNIQUE")
	require.Contains(t, sql, "recorded_at timestamptz NOT NULL")
	require.Contains(t, sql, "(vendor_id, product_id, recorded_at DESC)")
}
