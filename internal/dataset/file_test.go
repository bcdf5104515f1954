package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{
  "vocabulary": ["<pad>", "<START>", "a", "dog", "<END>"],
  "batch_size": 2,
  "num_rounds": 3,
  "splits": {
    "test": {
      "img_fnames": ["COCO_1.jpg", "COCO_2.jpg", "COCO_3.jpg"],
      "examples": [
        {"img_feat": [0.1, 0.2], "cap": [1, 2, 3, 4]},
        {"img_feat": [0.3, 0.4], "cap": [1, 3, 4, 0], "cap_len": 3},
        {"img_feat": [0.5, 0.6], "cap": [1, 2, 4]}
      ]
    },
    "val": {
      "examples": [{"img_feat": [1.0], "cap": [1, 4]}]
    }
  }
}`

func TestDecode(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc), WithSplit("test"))
	require.NoError(t, err)

	assert.Equal(t, "test", ds.Split())
	assert.Equal(t, 2, ds.BatchSize())
	assert.Equal(t, 3, ds.NumRounds())
	assert.Equal(t, "dog", ds.Vocabulary()[3])
	assert.Equal(t, 3, ds.Len())

	names, ok := ds.ImageFilenames("test")
	require.True(t, ok)
	assert.Equal(t, []string{"COCO_1.jpg", "COCO_2.jpg", "COCO_3.jpg"}, names)

	_, ok = ds.ImageFilenames("val")
	assert.False(t, ok)
	_, ok = ds.ImageFilenames("train")
	assert.False(t, ok)
}

func TestDecode_Overrides(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc), WithBatchSize(1), WithNumRounds(10), WithNumRounds(0))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.BatchSize())
	assert.Equal(t, 10, ds.NumRounds())
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "not json", doc: "{", wantErr: "decode"},
		{name: "zero batch", doc: `{"batch_size": 0, "num_rounds": 1}`, wantErr: "batch_size"},
		{name: "zero rounds", doc: `{"batch_size": 1, "num_rounds": 0}`, wantErr: "num_rounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBatches(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc), WithSplit("test"))
	require.NoError(t, err)

	var batches []*Batch
	for b, err := range ds.Batches() {
		require.NoError(t, err)
		batches = append(batches, b)
	}

	require.Len(t, batches, 2)
	assert.Equal(t, []int{0, 1}, batches[0].Index)
	assert.Equal(t, []int{4, 3}, batches[0].CaptionLens)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, batches[0].ImageFeatures)
	assert.Equal(t, []int{2}, batches[1].Index)
	assert.Equal(t, 1, batches[1].Size())
	assert.Equal(t, []int{1, 2, 4}, batches[1].Captions[0])
}

func TestBatches_StopEarly(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc), WithSplit("test"), WithBatchSize(1))
	require.NoError(t, err)

	count := 0
	for range ds.Batches() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestBatches_UnknownSplit(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc), WithSplit("train"))
	require.NoError(t, err)

	for b, err := range ds.Batches() {
		assert.Nil(t, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown split")
	}
}

func TestSetImageFilenames(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc))
	require.NoError(t, err)

	require.NoError(t, ds.SetImageFilenames("val", []string{"COCO_9.jpg"}))
	names, ok := ds.ImageFilenames("val")
	require.True(t, ok)
	assert.Equal(t, []string{"COCO_9.jpg"}, names)
}

func TestSetImageFilenames_Rejects(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc))
	require.NoError(t, err)

	err = ds.SetImageFilenames("tset", []string{"x.jpg"})
	require.ErrorContains(t, err, `unknown split "tset" (have test, val)`)
	_, ok := ds.ImageFilenames("tset")
	assert.False(t, ok)
	assert.False(t, ds.HasSplit("tset"))

	err = ds.SetImageFilenames("test", []string{"a.jpg"})
	require.ErrorContains(t, err, "filename table has 1 entries")
	names, ok := ds.ImageFilenames("test")
	require.True(t, ok)
	assert.Len(t, names, 3, "existing table is kept")
}

func TestSplits(t *testing.T) {
	ds, err := Decode(strings.NewReader(testDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"test", "val"}, ds.Splits())
	assert.True(t, ds.HasSplit("val"))
}

func TestLoad_Compressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(testDoc))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write([]byte(testDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	files := map[string][]byte{
		"plain.json":      []byte(testDoc),
		"packed.json.gz":  gz.Bytes(),
		"packed.json.zst": zs.Bytes(),
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, content, 0o644))

			ds, err := Load(path, WithSplit("test"))
			require.NoError(t, err)
			assert.Equal(t, 3, ds.Len())
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: open")
}

func TestDecode_NormalizesVocabulary(t *testing.T) {
	doc := `{"vocabulary": ["<pad>", "cafe\u0301"], "batch_size": 1, "num_rounds": 1}`
	ds, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", ds.Vocabulary()[1])
}
