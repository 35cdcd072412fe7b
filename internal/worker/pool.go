// Package worker provides a small generic fan-out pool used to process
// independent note extractions concurrently.
package worker

// Job computes one result.
type Job[T any] func() T

// Result pairs a job's output with the index it was submitted under, so
// callers can reassemble outputs in submission order.
type Result[T any] struct {
	Index  int
	Output T
}

// Pool runs jobs on a fixed number of goroutines.
type Pool[T any] struct {
	jobs    chan indexedJob[T]
	results chan Result[T]
}

type indexedJob[T any] struct {
	index int
	fn    Job[T]
}

// NewPool starts workerCount goroutines with the given channel buffer.
func NewPool[T any](workerCount, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan indexedJob[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		p.results <- Result[T]{Index: job.index, Output: job.fn()}
	}
}

// Submit queues a job under the given index.
func (p *Pool[T]) Submit(index int, fn Job[T]) {
	p.jobs <- indexedJob[T]{index: index, fn: fn}
}

// Collect reads n results and returns their outputs ordered by index.
// Indexes must be unique and in [0, n).
func (p *Pool[T]) Collect(n int) []T {
	outputs := make([]T, n)
	for i := 0; i < n; i++ {
		r := <-p.results
		outputs[r.Index] = r.Output
	}
	return outputs
}

// Close stops the workers once queued jobs finish. Submit must not be
// called after Close.
func (p *Pool[T]) Close() {
	close(p.jobs)
}
