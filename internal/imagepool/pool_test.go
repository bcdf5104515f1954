package imagepool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	table, err := Parse([]byte(`{
		"COCO_1.jpg": ["COCO_1.jpg", "COCO_7.jpg", "COCO_9.jpg"],
		"COCO_2.jpg": ["COCO_2.jpg"]
	}`))
	require.NoError(t, err)

	pool, ok := table.Lookup("COCO_1.jpg")
	require.True(t, ok)
	assert.Equal(t, []string{"COCO_1.jpg", "COCO_7.jpg", "COCO_9.jpg"}, pool)

	_, ok = table.Lookup("COCO_3.jpg")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "not json", doc: `{"a":`, wantErr: "parse"},
		{name: "not an object", doc: `["a"]`, wantErr: "invalid"},
		{name: "empty pool", doc: `{"a.jpg": []}`, wantErr: "invalid"},
		{name: "non-string entry", doc: `{"a.jpg": ["a.jpg", 3]}`, wantErr: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img_pool.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x.jpg": ["x.jpg", "y.jpg"]}`), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, table, 1)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image pool")
}
