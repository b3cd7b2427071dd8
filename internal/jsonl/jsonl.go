// Package jsonl streams line-delimited JSON records.
// This file provides the lazy line scanner and the record stream with
// per-record transform and limit handling.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// maxLineSize bounds a single JSONL line. arXiv abstracts with long
// comment fields stay well below this.
const maxLineSize = 64 << 20

// Lines lazily scans r line by line. Blank lines are skipped. The yielded
// slice is only valid until the next iteration step. Scanning stops with
// ctx.Err() once ctx is done.
func Lines(ctx context.Context, r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("scanning lines: %w", err))
		}
	}
}

// Observer is notified as the stream makes progress. Implementations must
// be cheap; they run inline with decoding.
type Observer interface {
	Decoded()
	Discarded()
	Yielded()
}

// Options controls Stream.
type Options struct {
	// Transform is applied to each decoded record before it is counted.
	// A nil result discards the record. Nil means identity.
	Transform types.Transform
	// Limit bounds the number of yielded records. Zero or negative means
	// no bound.
	Limit int
	// Observer receives progress notifications; may be nil.
	Observer Observer
}

// Stream decodes each line into a types.Record, applies the transform and
// yields records until the source is exhausted or Limit records have been
// yielded. Discarded records do not count towards Limit. Once the limit is
// reached no further lines are pulled from the source.
//
// A line that does not decode to a JSON object yields an error wrapping
// types.ErrMalformedInput and ends the stream. Errors from lines are
// passed through and also end the stream. The returned sequence is single
// pass: it consumes lines as it goes.
func Stream(lines iter.Seq2[[]byte, error], opts Options) iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		count := 0
		lineNo := 0
		for line, err := range lines {
			if err != nil {
				yield(nil, err)
				return
			}
			lineNo++

			rec, err := decodeRecord(line)
			if err != nil {
				yield(nil, fmt.Errorf("line %d: %w", lineNo, err))
				return
			}
			if opts.Observer != nil {
				opts.Observer.Decoded()
			}

			if opts.Transform != nil {
				rec = opts.Transform(rec)
			}
			if rec == nil {
				if opts.Observer != nil {
					opts.Observer.Discarded()
				}
				continue
			}

			count++
			if opts.Observer != nil {
				opts.Observer.Yielded()
			}
			if !yield(rec, nil) {
				return
			}
			if opts.Limit > 0 && count >= opts.Limit {
				return
			}
		}
	}
}

// Collect materializes seq. The first error aborts collection.
func Collect(seq iter.Seq2[types.Record, error]) ([]types.Record, error) {
	var records []types.Record
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord decodes a single line. Anything other than a JSON object,
// including a literal null, is malformed. Numbers decode as json.Number so
// large integer identifiers keep their digits.
func decodeRecord(line []byte) (types.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec types.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedInput, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: not a JSON object", types.ErrMalformedInput)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", types.ErrMalformedInput)
	}
	return rec, nil
}
