// Package pipeline runs one batch end to end: extract the three raw tables,
// clean them, derive orders, append everything to the destination and write
// the data quality report. Stages run strictly one after another and the
// first error aborts the batch; tables already appended stay appended.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/fleximart/pkg/adapters"
	"github.com/de-tools/fleximart/pkg/metrics"
	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/de-tools/fleximart/pkg/models/store"
	"github.com/de-tools/fleximart/pkg/services/config"
	"github.com/de-tools/fleximart/pkg/services/orders"
	"github.com/de-tools/fleximart/pkg/services/report"
	"github.com/de-tools/fleximart/pkg/services/transform"
	"github.com/de-tools/fleximart/pkg/store/source"
	"github.com/de-tools/fleximart/pkg/store/warehouse/runs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Loader appends a batch of rows to one destination table.
type Loader interface {
	Append(ctx context.Context, batch store.TableBatch) error
}

type Dependencies struct {
	Extractor source.Extractor
	Loader    Loader
	// Runs and Metrics are optional.
	Runs    runs.Store
	Metrics *metrics.Registry
	// Fs receives the report file; defaults to the OS filesystem.
	Fs afero.Fs
}

type RunnerConfig struct {
	Inputs      config.Inputs
	ReportPath  string
	MetricsPath string
}

type Result struct {
	RunID      string
	Customers  domain.Table
	Products   domain.Table
	Sales      domain.Table
	Orders     []domain.Order
	OrderItems []domain.OrderItem
	Counters   []domain.QualityCounters
	Report     domain.QualityReport
}

type Runner struct {
	extractor source.Extractor
	loader    Loader
	runs      runs.Store
	metrics   *metrics.Registry
	fs        afero.Fs
	config    RunnerConfig
	now       func() time.Time
	newID     func() string
}

func NewRunner(deps Dependencies, cfg RunnerConfig) *Runner {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Runner{
		extractor: deps.Extractor,
		loader:    deps.Loader,
		runs:      deps.Runs,
		metrics:   deps.Metrics,
		fs:        fs,
		config:    cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	runID := r.newID()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)
	started := r.now()

	if r.runs != nil {
		if err := r.runs.Start(ctx, runID, started); err != nil {
			return nil, fmt.Errorf("failed to record run start: %w", err)
		}
		defer func() {
			if finishErr := r.runs.Finish(context.WithoutCancel(ctx), runID, r.now(), err); finishErr != nil {
				logger.Warn().Err(finishErr).Msg("failed to record run outcome")
			}
		}()
	}

	res = &Result{RunID: runID}
	if err := r.extract(ctx, res); err != nil {
		return nil, err
	}
	if err := r.transform(ctx, res); err != nil {
		return nil, err
	}

	res.Orders, res.OrderItems, err = orders.Derive(res.Sales)
	if err != nil {
		return nil, fmt.Errorf("failed to derive orders: %w", err)
	}
	logger.Info().Int("orders", len(res.Orders)).Int("order_items", len(res.OrderItems)).Msg("orders derived")

	if err := r.load(ctx, res); err != nil {
		return nil, err
	}

	res.Report = report.Assemble(runID, res.Counters...)
	if err := report.WriteFile(r.fs, r.config.ReportPath, res.Report); err != nil {
		return nil, err
	}
	logger.Info().Str("path", r.config.ReportPath).Msg("data quality report written")

	if err := r.writeMetrics(res, started); err != nil {
		return nil, err
	}

	logger.Info().Dur("elapsed", r.now().Sub(started)).Msg("batch completed")
	return res, nil
}

// extract reads all raw tables before any cleaning starts.
func (r *Runner) extract(ctx context.Context, res *Result) error {
	var err error
	res.Customers, err = r.extractor.Extract(ctx, transform.CustomersTable, r.config.Inputs.Customers)
	if err != nil {
		return err
	}
	res.Products, err = r.extractor.Extract(ctx, transform.ProductsTable, r.config.Inputs.Products)
	if err != nil {
		return err
	}
	res.Sales, err = r.extractor.Extract(ctx, transform.SalesTable, r.config.Inputs.Sales)
	return err
}

func (r *Runner) transform(ctx context.Context, res *Result) error {
	steps := []struct {
		transformer *transform.Transformer
		table       *domain.Table
	}{
		{transform.NewCustomers(), &res.Customers},
		{transform.NewProducts(), &res.Products},
		{transform.NewSales(), &res.Sales},
	}

	logger := zerolog.Ctx(ctx)
	for _, step := range steps {
		cleaned, counters, err := step.transformer.Transform(ctx, *step.table)
		if err != nil {
			return fmt.Errorf("failed to transform %s: %w", step.transformer.Table(), err)
		}
		*step.table = cleaned
		res.Counters = append(res.Counters, counters)

		logger.Info().
			Str("table", counters.Table).
			Int("processed", counters.Processed).
			Int("duplicates_removed", counters.DuplicatesRemoved).
			Interface("missing_removed", counters.MissingRemoved).
			Interface("missing_filled", counters.MissingFilled).
			Int("loaded", counters.Loaded).
			Msg("table cleaned")
	}
	return nil
}

func (r *Runner) load(ctx context.Context, res *Result) error {
	batches := []store.TableBatch{
		adapters.MapDomainTableToStoreBatch(store.CustomersTable, res.Customers),
		adapters.MapDomainTableToStoreBatch(store.ProductsTable, res.Products),
		adapters.MapDomainOrdersToStoreBatch(res.Orders),
		adapters.MapDomainOrderItemsToStoreBatch(res.OrderItems),
	}
	for _, batch := range batches {
		if err := r.loader.Append(ctx, batch); err != nil {
			return fmt.Errorf("failed to load %s: %w", batch.Name, err)
		}
	}
	return nil
}

func (r *Runner) writeMetrics(res *Result, started time.Time) error {
	if r.metrics == nil {
		return nil
	}
	for _, c := range res.Counters {
		r.metrics.ObserveCounters(c)
	}
	r.metrics.ObserveDerivation(len(res.Orders), len(res.OrderItems))
	r.metrics.ObserveCompletion(started, r.now())

	if r.config.MetricsPath == "" {
		return nil
	}
	if err := r.metrics.WriteTextfile(r.config.MetricsPath); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
