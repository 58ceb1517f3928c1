package paths

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// DefaultColumn is the index of the path column in Wikispeedia files.
const DefaultColumn = 3

// DefaultDelimiter separates tokens inside the path column.
const DefaultDelimiter = ";"

// Options control how records are split into sequences.
type Options struct {
	Column    int    // index of the path column
	Delimiter string // token separator inside a path
	Unescape  bool   // URL-decode tokens ("%C3%81" -> "Á")
	Strict    bool   // fail on short records instead of skipping them
}

// DefaultOptions returns options for Wikispeedia path files.
func DefaultOptions() Options {
	return Options{Column: DefaultColumn, Delimiter: DefaultDelimiter}
}

// Problem is a skipped record.
type Problem struct {
	Line   int
	Reason string
}

// Collection holds the sequences read from one input.
type Collection struct {
	Sequences []seqgraph.Sequence
	Lines     []int // source line of each sequence
	Skipped   []Problem
}

// Tokens returns the total number of tokens over all sequences.
func (c *Collection) Tokens() int {
	var n int
	for _, s := range c.Sequences {
		n += len(s)
	}
	return n
}

// ReadTSV reads sequences from r. Empty tokens are dropped; records whose
// path is empty after that are skipped silently. ReadTSV checks ctx between
// records and does not close r.
func ReadTSV(ctx context.Context, r io.Reader, opts Options) (*Collection, error) {
	if err := errors.ValidateDelimiter(opts.Delimiter); err != nil {
		return nil, err
	}
	if opts.Column < 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "path column must be >= 0, got %d", opts.Column)
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	c := &Collection{}
	for first := true; ; first = false {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read paths")
		}
		line, _ := cr.FieldPos(0)

		field, ok := pathField(rec, opts.Column)
		if !ok {
			reason := fmt.Sprintf("%d columns, path column %d missing", len(rec), opts.Column)
			if opts.Strict {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %s", line, reason)
			}
			c.Skipped = append(c.Skipped, Problem{Line: line, Reason: reason})
			continue
		}
		if first && field == "path" {
			continue
		}

		seq, err := Split(field, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		if len(seq) == 0 {
			continue
		}
		c.Sequences = append(c.Sequences, seq)
		c.Lines = append(c.Lines, line)
	}
	return c, nil
}

// ReadFile opens path and reads it with [ReadTSV].
func ReadFile(ctx context.Context, path string, opts Options) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadTSV(ctx, f, opts)
}

func pathField(rec []string, column int) (string, bool) {
	if len(rec) == 1 {
		return rec[0], true
	}
	if column >= len(rec) {
		return "", false
	}
	return rec[column], true
}

// Split parses one path field into a sequence using the delimiter and unescape
// settings of opts. Empty tokens are dropped.
func Split(field string, opts Options) (seqgraph.Sequence, error) {
	parts := strings.Split(strings.TrimSpace(field), opts.Delimiter)
	seq := make(seqgraph.Sequence, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if opts.Unescape {
			u, err := url.PathUnescape(p)
			if err != nil {
				return nil, fmt.Errorf("unescape %q: %w", p, err)
			}
			p = u
		}
		seq = append(seq, p)
	}
	return seq, nil
}
