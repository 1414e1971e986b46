package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/coord/cartesian"
	"github.com/matzehuels/chartcore/pkg/coord/parallel"
	"github.com/matzehuels/chartcore/pkg/coord/polar"
	"github.com/matzehuels/chartcore/pkg/coord/radar"
	"github.com/matzehuels/chartcore/pkg/coord/single"
	"github.com/matzehuels/chartcore/pkg/coord/view"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/layout/bargrid"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/option"
	"github.com/matzehuels/chartcore/pkg/series"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// CoordRegistry returns a registry holding the built-in coordinate
// systems.
func CoordRegistry() *coord.Registry {
	r := coord.NewRegistry()
	r.Register(cartesian.Name, cartesian.NewFactory(bargrid.Columns))
	r.Register(polar.Name, coord.FactoryFunc(polar.Create))
	r.Register(radar.Name, coord.FactoryFunc(radar.Create))
	r.Register(parallel.Name, coord.FactoryFunc(parallel.Create))
	r.Register(single.Name, coord.FactoryFunc(single.Create))
	r.Register(view.Name, coord.FactoryFunc(view.Create))
	return r
}

// PassResult is the outcome of one uncached pass.
type PassResult struct {
	Global *model.Global
	Layout snapshot.Layout
}

// Parse decodes the option document of opts, applying its set
// assignments first.
func Parse(opts Options) (*option.Map, error) {
	doc := opts.Document
	if len(opts.Sets) > 0 {
		var err error
		if doc, err = option.Patch(doc, opts.Sets); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "apply set assignments")
		}
	}
	return model.LoadOption(doc, opts.Format)
}

// Pass runs one layout pass over the option document of opts.
//
// Configuration problems (unknown series types, series that reference
// missing components, broken graph links) do not fail the pass: the
// affected parts are skipped and reported through PassResult.Layout's
// warnings. Malformed documents and data sources fail it.
func Pass(ctx context.Context, opts Options) (*PassResult, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnPassStart(ctx)
	start := time.Now()

	res, err := runPass(ctx, opts)
	count := 0
	if res != nil {
		count = len(res.Layout.Series)
	}
	hooks.OnPassComplete(ctx, count, time.Since(start), err)
	return res, err
}

func runPass(ctx context.Context, opts Options) (*PassResult, error) {
	g, api, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	sched := NewScheduler(opts.Logger)
	sched.ChunkSize = opts.ChunkSize
	sched.LargeThreshold = opts.LargeThreshold
	sched.MarkLarge(g)

	lctx := &layout.Context{
		Global:     g,
		API:        api,
		ForceSteps: opts.ForceSteps,
		Rand:       rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
	}
	if err := sched.Run(ctx, lctx); err != nil {
		return nil, err
	}

	for _, w := range g.Warnings() {
		opts.Logger.Warn("skipped option", "reason", w)
	}
	return &PassResult{Global: g, Layout: snapshot.Build(g, opts.Width, opts.Height)}, nil
}

// Prepare runs a pass up to the layout tasks: the returned Global has its
// series' data read and stacked and its coordinate systems fitted.
func Prepare(opts Options) (*model.Global, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	g, _, err := prepare(opts)
	return g, err
}

func prepare(opts Options) (*model.Global, coord.API, error) {
	opt, err := Parse(opts)
	if err != nil {
		return nil, nil, err
	}

	types := series.Default()
	g := model.NewGlobal(opt, model.GlobalOptions{
		SeriesDefaults: types.Defaults,
		Previous:       opts.Previous,
	})
	api := coord.Viewport{W: opts.Width, H: opts.Height}

	mgr := coord.NewManager(CoordRegistry())
	mgr.Create(g, api)

	sctx := series.NewContext(g)
	for _, s := range g.Series() {
		if err := series.PrepareSource(g, s); err != nil {
			return nil, nil, err
		}
		typ, ok := types.Get(s.Type)
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeUnknownSeriesType, "series %q has unknown type %q", s.Name, s.Type)
		}
		if err := typ.InitialData(sctx, s); err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInvalidData, err, "series %q", s.Name)
			}
			return nil, nil, err
		}
	}
	series.CalculateStacks(g)

	mgr.Update(g, api)
	mgr.Resize(api)
	return g, api, nil
}
