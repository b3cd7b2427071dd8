// Package encoder maps a fitted set of labels onto the dense integer range
// [0, n) and back.
//
// An Encoder is built once with Fit and never changes afterwards, so a
// single instance can be shared by any number of readers without locking.
// Codes are assigned in ascending label order.
package encoder

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Encoder is an immutable bijection between a label vocabulary and [0, n).
type Encoder[L cmp.Ordered] struct {
	classes []L
	codes   map[L]int
}

// Fit builds an Encoder over the distinct values of labels.
func Fit[L cmp.Ordered](labels []L) *Encoder[L] {
	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	codes := make(map[L]int, len(classes))
	for i, l := range classes {
		codes[l] = i
	}
	return &Encoder[L]{classes: classes, codes: codes}
}

// Len returns the vocabulary size.
func (e *Encoder[L]) Len() int {
	return len(e.classes)
}

// Contains reports whether label was part of the fitted vocabulary.
func (e *Encoder[L]) Contains(label L) bool {
	_, ok := e.codes[label]
	return ok
}

// Encode returns the code for label. Labels outside the vocabulary return
// an error wrapping types.ErrUnknownLabel.
func (e *Encoder[L]) Encode(label L) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, fmt.Errorf("encoding %v: %w", label, types.ErrUnknownLabel)
	}
	return code, nil
}

// Decode returns the label for code. Codes outside [0, Len()) return an
// error wrapping types.ErrUnknownLabel.
func (e *Encoder[L]) Decode(code int) (L, error) {
	if code < 0 || code >= len(e.classes) {
		var zero L
		return zero, fmt.Errorf("decoding code %d: %w", code, types.ErrUnknownLabel)
	}
	return e.classes[code], nil
}

// EncodeMany encodes labels element-wise, preserving order and duplicates.
// The first unknown label fails the whole call.
func (e *Encoder[L]) EncodeMany(labels []L) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		code, err := e.Encode(l)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// DecodeMany decodes codes element-wise, preserving order and duplicates.
func (e *Encoder[L]) DecodeMany(codes []int) ([]L, error) {
	out := make([]L, len(codes))
	for i, c := range codes {
		l, err := e.Decode(c)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

// Classes returns a copy of the vocabulary in code order.
func (e *Encoder[L]) Classes() []L {
	return slices.Clone(e.classes)
}
