package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantRows int
		wantErr  string
	}{
		{
			name:     "two rows",
			csv:      "index,image_id\n0,COCO_1.jpg\n1,COCO_2.jpg\n",
			wantRows: 2,
		},
		{
			name:     "headers only",
			csv:      "index,image_id\n",
			wantRows: 0,
		},
		{
			name:    "mismatched column count",
			csv:     "index,image_id\n0,a\n1\n",
			wantErr: "wrong number of fields",
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, t.TempDir(), "table.csv", tt.csv)

			rows, err := LoadCSV(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
		})
	}
}

func TestLoadCSV_FileNotFound(t *testing.T) {
	_, err := LoadCSV("/nonexistent/path/file.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

func TestLoadFilenameTable(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "fnames.csv", "index,image_id\n1,COCO_2.jpg\n0,COCO_1.jpg\n")

	names, err := LoadFilenameTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"COCO_1.jpg", "COCO_2.jpg"}, names)
}

func TestLoadFilenameTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{name: "missing index column", csv: "id,image_id\n0,a\n", wantErr: "no index column"},
		{name: "missing image column", csv: "index,file\n0,a\n", wantErr: "no image_id column"},
		{name: "non numeric", csv: "index,image_id\nx,a\n", wantErr: "bad index"},
		{name: "out of range", csv: "index,image_id\n3,a\n", wantErr: "out of range"},
		{name: "duplicate", csv: "index,image_id\n0,a\n0,b\n", wantErr: "duplicate index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, t.TempDir(), "fnames.csv", tt.csv)
			_, err := LoadFilenameTable(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
