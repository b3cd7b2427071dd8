// Package criterion implements the selection algebra used to filter a
// dataset by category membership.
//
// A Criterion is a value: a combinator (Any, All or Not) plus either a set of
// target labels or the wrapped criterion. Compiling it against a label
// encoder encodes the targets once and yields a Predicate that is evaluated
// against the encoded category codes of each row.
//
//	c := criterion.Not(criterion.Any("cs.ai", "cs.lg"))
//	p, err := c.Compile(cats)
//	if err != nil {
//	    return err
//	}
//	keep := p.Match(row.Categories)
//
// Any(S) holds when the row shares at least one label with S; All(S) holds
// when every label of S is present in the row. Any of the empty set matches
// no row and All of the empty set matches every row.
package criterion

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Kind is the combinator of a Criterion.
type Kind uint8

// Combinators.
const (
	KindAny Kind = iota
	KindAll
	KindNot
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindAll:
		return "all"
	case KindNot:
		return "not"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Criterion is a composable predicate over a row's category labels.
// The zero value is Any of the empty set.
type Criterion struct {
	kind   Kind
	labels []string
	inner  *Criterion
}

// Builder constructs a Criterion from target labels. Any and All are
// Builders; Negate wraps one.
type Builder func(labels ...string) Criterion

// Any matches rows that carry at least one of labels.
func Any(labels ...string) Criterion {
	return Criterion{kind: KindAny, labels: slices.Clone(labels)}
}

// All matches rows that carry every one of labels.
func All(labels ...string) Criterion {
	return Criterion{kind: KindAll, labels: slices.Clone(labels)}
}

// Not negates c.
func Not(c Criterion) Criterion {
	inner := c
	return Criterion{kind: KindNot, inner: &inner}
}

// Negate returns a Builder producing the negation of b's criteria.
func Negate(b Builder) Builder {
	return func(labels ...string) Criterion {
		return Not(b(labels...))
	}
}

// Kind returns the combinator.
func (c Criterion) Kind() Kind {
	return c.kind
}

// Labels returns every target label referenced by c, including those of
// wrapped criteria.
func (c Criterion) Labels() []string {
	if c.kind == KindNot {
		return c.inner.Labels()
	}
	return slices.Clone(c.labels)
}

func (c Criterion) String() string {
	if c.kind == KindNot {
		return "not(" + c.inner.String() + ")"
	}
	return c.kind.String() + "(" + strings.Join(c.labels, ",") + ")"
}

// LabelEncoder encodes category labels. *encoder.Encoder[string] satisfies it.
type LabelEncoder interface {
	EncodeMany(labels []string) ([]int, error)
}

// Compile encodes the target labels of c with enc. An unknown label fails
// with the encoder's error (types.ErrUnknownLabel for the package encoder).
func (c Criterion) Compile(enc LabelEncoder) (Predicate, error) {
	if c.kind == KindNot {
		inner, err := c.inner.Compile(enc)
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{kind: KindNot, inner: &inner}, nil
	}

	codes, err := enc.EncodeMany(c.labels)
	if err != nil {
		return Predicate{}, fmt.Errorf("compiling %s: %w", c, err)
	}
	target := roaring.New()
	for _, code := range codes {
		target.Add(uint32(code))
	}
	return Predicate{kind: c.kind, target: target}, nil
}

// Predicate is a compiled Criterion. It is read-only and safe for
// concurrent use.
type Predicate struct {
	kind   Kind
	target *roaring.Bitmap
	inner  *Predicate
}

// Match evaluates the predicate against a row's encoded category codes.
// codes is not modified.
func (p Predicate) Match(codes []int) bool {
	switch p.kind {
	case KindAny:
		if p.target == nil || p.target.IsEmpty() {
			return false
		}
		for _, c := range codes {
			if p.target.Contains(uint32(c)) {
				return true
			}
		}
		return false
	case KindAll:
		if p.target == nil || p.target.IsEmpty() {
			return true
		}
		row := roaring.New()
		for _, c := range codes {
			row.Add(uint32(c))
		}
		return p.target.AndCardinality(row) == p.target.GetCardinality()
	case KindNot:
		return !p.inner.Match(codes)
	default:
		return false
	}
}
