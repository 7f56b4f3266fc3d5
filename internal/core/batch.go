package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kpoder/csvguard/internal/regulation"
)

const (
	// DefaultChunkSize is the number of rows handed to one worker task.
	DefaultChunkSize = 5000
	// MaxWorkers caps the worker pool regardless of available cores to
	// bound peak memory.
	MaxWorkers = 4
)

// Options tunes batch execution. Zero values select the defaults.
type Options struct {
	ChunkSize int
	Workers   int
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

func (o Options) workers() int {
	if o.Workers <= 0 || o.Workers > MaxWorkers {
		return MaxWorkers
	}
	return o.Workers
}

// chunk is one contiguous unit of parallel work. Offset is the chunk's base
// position in the dataset; every row's global index is Offset plus its local
// position.
type chunk struct {
	Offset int
	Rows   []Row
}

func splitChunks(rows []Row, size int) []chunk {
	chunks := make([]chunk, 0, (len(rows)+size-1)/size)
	for offset := 0; offset < len(rows); offset += size {
		end := offset + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, chunk{Offset: offset, Rows: rows[offset:end]})
	}
	return chunks
}

// ValidateDataset validates the full row set in two parallel phases. Phase
// one builds chunk-local duplicate trackers and merges them single-threaded
// into the dataset-wide index; a value split across two chunks is only
// decidable after this merge. Phase two validates each chunk against the
// merged tracker, which is read-only from that point on. Result order always
// matches input order because workers write into a slot keyed by the global
// row index, never by completion order.
func (v *Validator) ValidateDataset(ctx context.Context, rows []Row, requiredFields []string, reg *regulation.Regulation, opts Options) (*AggregateReport, error) {
	if len(requiredFields) == 0 {
		if reg != nil && len(reg.RequiredFields) > 0 {
			requiredFields = reg.RequiredFields
		} else {
			requiredFields = DefaultRequiredColumns
		}
	}

	chunks := splitChunks(rows, opts.chunkSize())
	workers := opts.workers()

	trackers := make([]*DuplicateTracker, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := NewDuplicateTracker()
			for local, row := range c.Rows {
				t.Track(row, c.Offset+local)
			}
			trackers[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("duplicate scan: %w", err)
	}

	merged := NewDuplicateTracker()
	for _, t := range trackers {
		merged.Merge(t)
	}

	results := make([]ValidationResult, len(rows))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for local, row := range c.Rows {
				global := c.Offset + local
				results[global] = v.ValidateRow(row, global, requiredFields, reg, merged)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("row validation: %w", err)
	}

	return buildReport(results, merged), nil
}
