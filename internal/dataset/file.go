package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/dialogeval/humanstudy/internal/vocab"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/unicode/norm"
)

// Example is one image/caption pair as stored in a dataset file.
type Example struct {
	ImageFeature []float32 `json:"img_feat"`
	Caption      []int     `json:"cap"`
	CaptionLen   int       `json:"cap_len,omitempty"`
}

type splitData struct {
	ImageFilenames []string  `json:"img_fnames,omitempty"`
	Examples       []Example `json:"examples"`
}

type document struct {
	Vocabulary []string              `json:"vocabulary"`
	BatchSize  int                   `json:"batch_size"`
	NumRounds  int                   `json:"num_rounds"`
	Splits     map[string]*splitData `json:"splits"`
}

// FileDataset is a Dataset backed by a JSON document, optionally gzip or
// zstd compressed.
type FileDataset struct {
	split     string
	batchSize int
	numRounds int
	vocab     vocab.Vocabulary
	splits    map[string]*splitData
}

// Option customizes a FileDataset at load time.
type Option func(*FileDataset)

// WithBatchSize overrides the batch size stored in the file when n > 0.
func WithBatchSize(n int) Option {
	return func(d *FileDataset) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithNumRounds overrides the round count stored in the file when n > 0.
func WithNumRounds(n int) Option {
	return func(d *FileDataset) {
		if n > 0 {
			d.numRounds = n
		}
	}
}

// WithSplit selects the initial split.
func WithSplit(split string) Option {
	return func(d *FileDataset) {
		d.split = split
	}
}

// Load reads a dataset file. Compression is chosen by extension: ".gz" or
// ".zst".
func Load(path string, opts ...Option) (*FileDataset, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	ds, err := Decode(rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	slog.Debug("Loaded dataset", "path", path, "splits", len(ds.splits), "vocabulary", len(ds.vocab))
	return ds, nil
}

// Decode reads an uncompressed dataset document from r.
func Decode(r io.Reader, opts ...Option) (*FileDataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	tokens := make([]string, len(doc.Vocabulary))
	for i, t := range doc.Vocabulary {
		tokens[i] = norm.NFC.String(t)
	}

	ds := &FileDataset{
		batchSize: doc.BatchSize,
		numRounds: doc.NumRounds,
		vocab:     vocab.Index(tokens),
		splits:    doc.Splits,
	}
	if ds.splits == nil {
		ds.splits = map[string]*splitData{}
	}
	for _, opt := range opts {
		opt(ds)
	}

	if ds.batchSize < 1 {
		return nil, fmt.Errorf("batch_size must be at least 1, got %d", ds.batchSize)
	}
	if ds.numRounds < 1 {
		return nil, fmt.Errorf("num_rounds must be at least 1, got %d", ds.numRounds)
	}
	return ds, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.f.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("dataset: gzip %s: %w", path, err)
		}
		return &gzipReadCloser{Reader: zr, f: f}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("dataset: zstd %s: %w", path, err)
		}
		return &zstdReadCloser{dec: dec, f: f}, nil
	default:
		return f, nil
	}
}

func (d *FileDataset) Split() string { return d.split }

func (d *FileDataset) SetSplit(split string) { d.split = split }

func (d *FileDataset) BatchSize() int { return d.batchSize }

func (d *FileDataset) NumRounds() int { return d.numRounds }

func (d *FileDataset) Vocabulary() vocab.Vocabulary { return d.vocab }

func (d *FileDataset) ImageFilenames(split string) ([]string, bool) {
	s, ok := d.splits[split]
	if !ok || s.ImageFilenames == nil {
		return nil, false
	}
	return s.ImageFilenames, true
}

// SetImageFilenames installs a filename table for split, typically one loaded
// with LoadFilenameTable. The split must exist and the table must cover
// every example in it.
func (d *FileDataset) SetImageFilenames(split string, names []string) error {
	s, ok := d.splits[split]
	if !ok {
		return fmt.Errorf("dataset: unknown split %q (have %s)", split, strings.Join(d.Splits(), ", "))
	}
	if len(names) < len(s.Examples) {
		return fmt.Errorf("dataset: filename table has %d entries, split %q has %d examples", len(names), split, len(s.Examples))
	}
	s.ImageFilenames = names
	return nil
}

// HasSplit reports whether the document defines split.
func (d *FileDataset) HasSplit(split string) bool {
	_, ok := d.splits[split]
	return ok
}

// Splits returns the names of all splits in sorted order.
func (d *FileDataset) Splits() []string {
	return slices.Sorted(maps.Keys(d.splits))
}

// Len returns the number of examples in the current split.
func (d *FileDataset) Len() int {
	s, ok := d.splits[d.split]
	if !ok {
		return 0
	}
	return len(s.Examples)
}

func (d *FileDataset) Batches() iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		s, ok := d.splits[d.split]
		if !ok {
			yield(nil, fmt.Errorf("dataset: unknown split %q", d.split))
			return
		}

		for start := 0; start < len(s.Examples); start += d.batchSize {
			end := min(start+d.batchSize, len(s.Examples))
			b := &Batch{
				Index:         make([]int, 0, end-start),
				ImageFeatures: make([][]float32, 0, end-start),
				Captions:      make([][]int, 0, end-start),
				CaptionLens:   make([]int, 0, end-start),
			}
			for i := start; i < end; i++ {
				ex := s.Examples[i]
				capLen := ex.CaptionLen
				if capLen == 0 {
					capLen = nonPadding(ex.Caption)
				}
				b.Index = append(b.Index, i)
				b.ImageFeatures = append(b.ImageFeatures, ex.ImageFeature)
				b.Captions = append(b.Captions, ex.Caption)
				b.CaptionLens = append(b.CaptionLens, capLen)
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

func nonPadding(seq []int) int {
	n := 0
	for _, idx := range seq {
		if idx > 0 {
			n++
		}
	}
	return n
}
