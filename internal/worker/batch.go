package worker

import (
	"context"
	"fmt"

	"github.com/ppiankov/milestones/internal/pipeline"
)

// Scanner defines the interface for scanning one document
type Scanner interface {
	ScanFile(ctx context.Context, path string) (*pipeline.ScanResult, error)
}

// ScanJob represents a document scan job
type ScanJob struct {
	Index   int
	Path    string
	Scanner Scanner
	Limiter *Limiter
}

// Execute waits for read clearance and scans the document
func (j *ScanJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Path); err != nil {
			return &ScanResult{Index: j.Index, Path: j.Path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Scanner.ScanFile(ctx, j.Path)
	if err != nil {
		return &ScanResult{Index: j.Index, Path: j.Path, Error: err}
	}
	return &ScanResult{Index: j.Index, Path: j.Path, Result: result}
}

// ScanResult represents the result of a scan job
type ScanResult struct {
	Index  int
	Path   string
	Result *pipeline.ScanResult
	Error  error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// Unwrap converts the job result into a pipeline result, keeping the
// failure on the result instead of dropping it
func (r *ScanResult) Unwrap() *pipeline.ScanResult {
	if r.Error != nil || r.Result == nil {
		return &pipeline.ScanResult{Path: r.Path, Error: r.Error}
	}
	return r.Result
}

// Walker lists the documents under a root
type Walker interface {
	Walk(ctx context.Context, root string) ([]string, error)
}

// BatchProcessor scans many documents concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. readsPerSecond <= 0 leaves
// reads unthrottled.
func NewBatchProcessor(scanner Scanner, concurrency int, readsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
		limiter:     NewLimiter(readsPerSecond, burst),
	}
}

// ProcessPaths scans every path and returns results in input order. A
// failing document is reported in its result and never stops the batch.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ScanResult {
	if len(paths) == 0 {
		return []*ScanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, path := range paths {
			job := &ScanJob{
				Index:   i,
				Path:    path,
				Scanner: b.scanner,
				Limiter: b.limiter,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	results := make([]*ScanResult, len(paths))
	for r := range pool.Results() {
		sr := r.(*ScanResult)
		results[sr.Index] = sr
	}

	// Jobs never queued or dropped by cancellation still get a result
	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &ScanResult{Index: i, Path: paths[i], Error: fmt.Errorf("not scanned: %w", err)}
		}
	}
	return results
}

// ProcessDir lists the documents under root and scans them
func (b *BatchProcessor) ProcessDir(ctx context.Context, walker Walker, root string) ([]*ScanResult, error) {
	paths, err := walker.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}
