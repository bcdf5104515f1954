package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVocab = Vocabulary{0: "<pad>", 1: "<start>", 2: "a", 3: "dog", 4: "<end>"}

func TestTokensToString(t *testing.T) {
	tests := []struct {
		name   string
		seq    []int
		length int
		want   string
	}{
		{name: "all tokens", seq: []int{1, 2, 3, 4}, length: -1, want: "<start> a dog <end>"},
		{name: "truncated", seq: []int{1, 2, 3, 4}, length: 3, want: "<start> a dog"},
		{name: "padding skipped", seq: []int{1, 0, 2, 0, 3}, length: -1, want: "<start> a dog"},
		{name: "padding does not count toward length", seq: []int{0, 0, 1, 2, 3}, length: 2, want: "<start> a"},
		{name: "negative indices skipped", seq: []int{-1, 2}, length: -1, want: "a"},
		{name: "zero length", seq: []int{1, 2}, length: 0, want: ""},
		{name: "empty", seq: nil, length: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokensToString(tt.seq, tt.length, testVocab)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokensToString_UnknownIndex(t *testing.T) {
	_, err := TokensToString([]int{1, 42}, -1, testVocab)
	require.Error(t, err)

	var unknown *UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 42, unknown.Index)
}

func TestQuestion(t *testing.T) {
	got, err := Question([]int{1, 2, 3, 4}, 3, testVocab)
	require.NoError(t, err)
	assert.Equal(t, "a dog ", got)
}

func TestQuestion_OnlyStartToken(t *testing.T) {
	got, err := Question([]int{1}, 1, testVocab)
	require.NoError(t, err)
	assert.Equal(t, " ", got)
}

func TestAnswer(t *testing.T) {
	got, err := Answer([]int{1, 3, 4, 0, 0}, 2, testVocab)
	require.NoError(t, err)
	assert.Equal(t, "dog", got)
}

func TestCaption(t *testing.T) {
	got, err := Caption([]int{1, 2, 3, 4, 0, 0}, testVocab)
	require.NoError(t, err)
	assert.Equal(t, "a dog", got)

	got, err = Caption(nil, testVocab)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStripStart_LongMarker(t *testing.T) {
	v := Vocabulary{1: StartToken + "_LONG", 2: "hi"}
	got, err := Answer([]int{1, 2}, -1, v)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestIndex(t *testing.T) {
	v := Index([]string{"<pad>", "<START>", "cat"})
	assert.Equal(t, Vocabulary{0: "<pad>", 1: "<START>", 2: "cat"}, v)
}
