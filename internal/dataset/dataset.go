package dataset

import (
	"iter"

	"github.com/dialogeval/humanstudy/internal/vocab"
)

// Batch is a group of consecutive examples from one split.
type Batch struct {
	// Index holds the dataset index of each example, used to resolve its
	// image filename.
	Index         []int
	ImageFeatures [][]float32
	Captions      [][]int
	CaptionLens   []int
}

// Size returns the number of examples in the batch.
func (b *Batch) Size() int {
	return len(b.Index)
}

// Dataset is the view of a visual dialog dataset the dialog driver needs.
// The current split is mutable state shared by every caller of the instance.
type Dataset interface {
	Split() string
	SetSplit(split string)
	BatchSize() int
	NumRounds() int
	Vocabulary() vocab.Vocabulary
	// ImageFilenames returns the index to image filename table of split. The
	// boolean is false when the split carries no such table.
	ImageFilenames(split string) ([]string, bool)
	// Batches iterates the current split in dataset order.
	Batches() iter.Seq2[*Batch, error]
}
