package vocab

import (
	"fmt"
	"strings"
)

// Marker tokens emitted by the dialog agents around every utterance.
const (
	StartToken = "<START>"
	EndToken   = "<END>"
)

// Vocabulary maps a token index to its surface string.
type Vocabulary map[int]string

// UnknownTokenError is returned when a sequence references an index that the
// vocabulary does not define.
type UnknownTokenError struct {
	Index int
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("token index %d not in vocabulary", e.Index)
}

// Tokens maps the non-padding indices of seq to their strings, keeping at most
// length tokens. A negative length keeps every token.
func Tokens(seq []int, length int, v Vocabulary) ([]string, error) {
	words := make([]string, 0, len(seq))
	for _, idx := range seq {
		if idx <= 0 {
			continue
		}
		if length >= 0 && len(words) == length {
			break
		}
		w, ok := v[idx]
		if !ok {
			return nil, &UnknownTokenError{Index: idx}
		}
		words = append(words, w)
	}
	return words, nil
}

// TokensToString renders seq as space separated words. See Tokens for the
// meaning of length.
func TokensToString(seq []int, length int, v Vocabulary) (string, error) {
	words, err := Tokens(seq, length, v)
	if err != nil {
		return "", err
	}
	return strings.Join(words, " "), nil
}

// StripStart drops the leading start marker. Decoders always emit it as the
// first token, so the first token is removed regardless of its spelling.
func StripStart(words []string) []string {
	if len(words) == 0 {
		return words
	}
	return words[1:]
}

// Question renders a decoded question. The trailing space is part of the
// output format consumed by the human-study UI.
func Question(seq []int, length int, v Vocabulary) (string, error) {
	words, err := Tokens(seq, length, v)
	if err != nil {
		return "", err
	}
	return strings.Join(StripStart(words), " ") + " ", nil
}

// Answer renders a decoded answer.
func Answer(seq []int, length int, v Vocabulary) (string, error) {
	words, err := Tokens(seq, length, v)
	if err != nil {
		return "", err
	}
	return strings.Join(StripStart(words), " "), nil
}

// Caption renders a ground-truth caption, which is wrapped in both a start and
// an end marker.
func Caption(seq []int, v Vocabulary) (string, error) {
	words, err := Tokens(seq, -1, v)
	if err != nil {
		return "", err
	}
	words = StripStart(words)
	if len(words) > 0 {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " "), nil
}

// Index builds a vocabulary from an ordered token list where position is the
// index.
func Index(tokens []string) Vocabulary {
	v := make(Vocabulary, len(tokens))
	for i, t := range tokens {
		v[i] = t
	}
	return v
}
