package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/domain"
	"github.com/vanshika/campusnav/internal/repository"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// MapWriter is the storage contract the ingestor needs for the campus map.
type MapWriter interface {
	UpsertWaypoints(ctx context.Context, waypoints []domain.Waypoint) error
	UpsertCorridors(ctx context.Context, corridors []repository.SequencedCorridor) error
}

const defaultBatchSize = 500

// BulkIngestor writes map documents and student directories using worker pools.
type BulkIngestor struct {
	maps      MapWriter
	students  directory.Store
	workers   int
	batchSize int
}

// NewBulkIngestor creates a BulkIngestor. Either destination may be nil when only the other is ingested.
func NewBulkIngestor(maps MapWriter, students directory.Store, workers, batchSize int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &BulkIngestor{
		maps:      maps,
		students:  students,
		workers:   workers,
		batchSize: batchSize,
	}
}

// IngestMap writes every waypoint, then every corridor. Corridors keep their
// document position as sequence number. Waypoints are batched in id order.
func (bi *BulkIngestor) IngestMap(ctx context.Context, doc domain.MapDocument) error {
	if bi.maps == nil {
		return errors.New("no map writer configured")
	}

	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	waypoints := make([]domain.Waypoint, 0, len(ids))
	for _, id := range ids {
		wp := doc.Nodes[id]
		wp.ID = id
		waypoints = append(waypoints, wp)
	}

	wpBatches := chunk(waypoints, bi.batchSize)
	if err := bi.run(ctx, len(wpBatches), func(idx int) error {
		return bi.maps.UpsertWaypoints(ctx, wpBatches[idx])
	}); err != nil {
		return err
	}

	corridors := make([]repository.SequencedCorridor, 0, len(doc.Edges))
	for i, e := range doc.Edges {
		corridors = append(corridors, repository.SequencedCorridor{Seq: i, Corridor: e})
	}
	cBatches := chunk(corridors, bi.batchSize)
	return bi.run(ctx, len(cBatches), func(idx int) error {
		return bi.maps.UpsertCorridors(ctx, cBatches[idx])
	})
}

// IngestStudents upserts students concurrently.
func (bi *BulkIngestor) IngestStudents(ctx context.Context, students []domain.Student) error {
	if bi.students == nil {
		return errors.New("no directory store configured")
	}
	return bi.run(ctx, len(students), func(idx int) error {
		return bi.students.UpsertStudent(ctx, students[idx])
	})
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
