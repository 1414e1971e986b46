package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/observability"
)

// Scheduler runs layout tasks over the series of a chart.
//
// Every task runs its Overall step first, then Reset for each series it
// applies to. The Progress step returned by Reset is called with
// consecutive chunks covering the series' data: one chunk for normal
// series, chunks of the series' progressive option (ChunkSize when unset)
// for series in large mode. Tasks run in order; a task finishes every
// series before the next task starts.
type Scheduler struct {
	Tasks []layout.Task
	// ChunkSize is the chunk of large-mode series without a progressive
	// option.
	ChunkSize int
	// LargeThreshold overrides the largeThreshold of every series when
	// positive.
	LargeThreshold int
	Logger         *log.Logger
}

// NewScheduler creates a scheduler over the built-in layout tasks.
func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{Tasks: layout.Tasks(), ChunkSize: DefaultChunkSize, Logger: logger}
}

// MarkLarge sets s.Large for every series of g: a series is large when its
// large option is set and its data count reaches its threshold.
func (sc *Scheduler) MarkLarge(g *model.Global) {
	g.EachSeries(func(s *model.SeriesModel) {
		s.Large = sc.isLarge(s)
	})
}

func (sc *Scheduler) isLarge(s *model.SeriesModel) bool {
	if s.Data == nil || !s.GetBool("large") {
		return false
	}
	threshold := float64(sc.LargeThreshold)
	if threshold <= 0 {
		threshold = s.GetFloat("largeThreshold")
	}
	return !math.IsNaN(threshold) && float64(s.Data.Count()) >= threshold
}

func (sc *Scheduler) chunkSize(s *model.SeriesModel) int {
	if !s.Large {
		return 0
	}
	if p := s.GetInt("progressive"); p > 0 {
		return p
	}
	if sc.ChunkSize > 0 {
		return sc.ChunkSize
	}
	return DefaultChunkSize
}

// Run runs every task over the series of lctx.Global. It stops between
// chunks when ctx is done and returns its error.
func (sc *Scheduler) Run(ctx context.Context, lctx *layout.Context) error {
	logger := sc.Logger
	if logger == nil {
		logger = log.Default()
	}
	hooks := observability.Pipeline()
	g := lctx.Global

	for _, task := range sc.Tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		chunks := 0

		if task.Overall != nil {
			task.Overall(lctx)
		}
		for _, s := range g.Series() {
			if !task.Applies(s) {
				continue
			}
			progress := task.Reset(lctx, s)
			if progress == nil || s.Data == nil {
				continue
			}
			n, err := sc.runProgress(ctx, s, progress)
			chunks += n
			if err != nil {
				return err
			}
		}

		elapsed := time.Since(start)
		hooks.OnTask(ctx, task.Name, chunks, elapsed)
		logger.Debug("ran layout task", "task", task.Name, "chunks", chunks, "duration", elapsed)
	}
	return nil
}

// runProgress feeds the data of s to progress and returns the number of
// chunks it ran.
func (sc *Scheduler) runProgress(ctx context.Context, s *model.SeriesModel, progress layout.Progress) (int, error) {
	count := s.Data.Count()
	step := sc.chunkSize(s)
	if step <= 0 || step > count {
		step = count
	}
	if count == 0 {
		progress(layout.NewParams(0, 0), s.Data)
		return 1, nil
	}
	chunks := 0
	for start := 0; start < count; start += step {
		if chunks > 0 {
			if err := ctx.Err(); err != nil {
				return chunks, err
			}
		}
		progress(layout.NewParams(start, min(start+step, count)), s.Data)
		chunks++
	}
	return chunks, nil
}
