package pipeline

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/packagewjx/workload-profiler/internal/classify"
	"github.com/packagewjx/workload-profiler/internal/join"
	"github.com/packagewjx/workload-profiler/internal/metrics"
	"github.com/packagewjx/workload-profiler/internal/profile"
	"github.com/packagewjx/workload-profiler/internal/report"
	"github.com/packagewjx/workload-profiler/internal/schema"
	"github.com/packagewjx/workload-profiler/internal/sizing"
	"github.com/packagewjx/workload-profiler/internal/store"
	"github.com/packagewjx/workload-profiler/internal/tracefile"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

type Result struct {
	RunID    string
	Sources  *tracefile.Sources
	Profiles []*core.WorkloadProfile
	Summary  *report.Summary
	Metrics  *metrics.Recorder
}

type runner struct {
	config    *Config
	logOutput io.Writer
	logger    *log.Logger
	recorder  *metrics.Recorder
	converter *join.Converter
	emitter   *profile.Emitter
	// rows read from every table, the denominator of the drop rate
	loaded int
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.New(w, prefix+": ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix)
}

// Run preprocesses the traces under config.InputDir into config.Output. Log lines of every
// stage are written to logOutput.
func Run(ctx context.Context, config *Config, logOutput io.Writer) (*Result, error) {
	if err := config.Complete(); err != nil {
		return nil, err
	}
	started := time.Now()
	r := &runner{
		config:    config,
		logOutput: logOutput,
		logger:    newLogger(logOutput, "pipeline"),
		recorder:  metrics.NewRecorder(),
		converter: join.NewConverter(config.Origin(), newLogger(logOutput, "join")),
	}
	r.logger.Printf("starting run, config: %v\n", config)

	resolver := sizing.NewResolver(config.MemoryMultiplier)
	if config.SizeCatalog != "" {
		entries, err := sizing.LoadCatalog(config.SizeCatalog)
		if err != nil {
			return nil, err
		}
		resolver.Merge(entries)
		r.logger.Printf("loaded %d sizes from %s, %d known\n", len(entries), config.SizeCatalog, resolver.Known())
	}
	r.emitter = profile.NewEmitter(resolver, config.Layout, config.TimeFormat, newLogger(logOutput, "emitter"))

	sources, err := tracefile.Discover(config.InputDir, config.Layout, config.DeploymentFiles, config.UsagePatterns)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("deployment table %s, %d usage shard(s)\n", sources.Deployment, len(sources.Usage))
	loader := tracefile.NewLoader(sources, tracefile.Options{
		HeaderRow:         config.HeaderRow,
		DeploymentColumns: config.DeploymentColumns,
		UsageColumns:      config.UsageColumns,
		Limit:             config.Limit,
	}, newLogger(logOutput, "loader"))

	var candidates []profile.Candidate
	var engine *join.Engine
	if config.Layout == core.LayoutVMTable {
		candidates, engine, err = r.vmTable(loader)
	} else {
		candidates, engine, err = r.split(ctx, loader)
	}
	if err != nil {
		return nil, err
	}

	profiles, err := r.build(candidates)
	if err != nil {
		return nil, err
	}
	if err := profile.WriteJSON(config.Output, profiles); err != nil {
		return nil, err
	}
	r.logger.Printf("wrote %d profiles to %s\n", len(profiles), config.Output)

	dropped := r.dropped(engine.Stats())
	for reason, n := range dropped {
		r.recorder.RowsDropped(reason, n)
	}
	r.recorder.ProfilesEmitted(len(profiles))
	result := &Result{
		RunID:    store.NewRunID(),
		Sources:  sources,
		Profiles: profiles,
		Summary:  report.Summarize(r.loaded, dropped, profiles),
		Metrics:  r.recorder,
	}

	if config.StoreDriver != "" {
		if err := r.save(ctx, result, started); err != nil {
			return nil, err
		}
	}

	r.recorder.RunDuration(time.Since(started))
	if config.MetricsFile != "" {
		if err := r.recorder.WriteTextfile(config.MetricsFile); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// split joins the usage shards one at a time against the deployment table.
func (r *runner) split(ctx context.Context, loader *tracefile.Loader) ([]profile.Candidate, *join.Engine, error) {
	table, err := loader.Deployments(schema.DeploymentFields)
	if err != nil {
		return nil, nil, err
	}
	r.loaded += len(table.Rows)
	r.recorder.RowsLoaded(metrics.TableDeployment, len(table.Rows))
	deployments := r.converter.Deployments(table)
	r.logger.Printf("%d of %d deployments usable\n", len(deployments), len(table.Rows))
	engine := join.NewEngine(deployments)

	candidates := make([]profile.Candidate, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "run interrupted")
		}
		shard, err := loader.NextShard(schema.UsageFields)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, err
		}
		r.loaded += len(shard.Rows)
		r.recorder.RowsLoaded(metrics.TableUsage, len(shard.Rows))

		before := len(candidates)
		for _, row := range engine.Join(r.converter.Samples(shard)) {
			if c, ok := r.emitter.Resolve(row); ok {
				candidates = append(candidates, c)
			}
		}
		r.logger.Printf("%s: %d rows kept\n", shard.Source, len(candidates)-before)
	}
	return candidates, engine, nil
}

func (r *runner) vmTable(loader *tracefile.Loader) ([]profile.Candidate, *join.Engine, error) {
	table, err := loader.Deployments(schema.VMTableFields)
	if err != nil {
		return nil, nil, err
	}
	r.loaded = len(table.Rows)
	r.recorder.RowsLoaded(metrics.TableDeployment, len(table.Rows))
	engine := join.NewEngine(r.converter.VMTable(table))

	candidates := make([]profile.Candidate, 0, len(table.Rows))
	for _, row := range engine.Standalone() {
		if c, ok := r.emitter.Resolve(row); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, engine, nil
}

// build classifies the candidates when enabled and constructs the profiles.
func (r *runner) build(candidates []profile.Candidate) ([]*core.WorkloadProfile, error) {
	var classes []string
	if r.config.Classes > 0 && len(candidates) > 0 {
		classifier, err := classify.NewClassifier(classify.KMeans, r.config.Classes, r.config.KMeansRound,
			newLogger(r.logOutput, "classify"))
		if err != nil {
			return nil, err
		}
		features := make([][]float64, len(candidates))
		for i, c := range candidates {
			features[i] = []float64{
				float64(c.Size.VCPUs), c.Size.MemoryGiB, c.Row.Sample.CPU, c.Row.Sample.Mem,
			}
		}
		classes, err = classifier.Labels(features)
		if err != nil {
			return nil, errors.Wrap(err, "classify workloads")
		}
	}

	profiles := make([]*core.WorkloadProfile, len(candidates))
	for i, c := range candidates {
		var extra map[string]string
		if classes != nil {
			extra = map[string]string{core.LabelWorkloadClass: classes[i]}
		}
		profiles[i] = r.emitter.Build(c, extra)
	}
	return profiles, nil
}

func (r *runner) dropped(engineStats join.Stats) map[string]int {
	stats := r.converter.Stats
	stats.Add(engineStats)
	return map[string]int{
		metrics.ReasonUnmatched:     stats.Unmatched,
		metrics.ReasonOutOfWindow:   stats.OutOfWindow,
		metrics.ReasonDuplicate:     stats.Duplicates,
		metrics.ReasonUnknownSize:   r.emitter.UnknownSizes(),
		metrics.ReasonInvalidRow:    stats.InvalidRows,
		metrics.ReasonInvalidWindow: stats.InvalidWindows,
	}
}

func (r *runner) save(ctx context.Context, result *Result, started time.Time) error {
	s, err := store.Open(r.config.StoreDriver, r.config.StoreDSN, newLogger(r.logOutput, "store"))
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()
	run := &store.Run{
		ID:         result.RunID,
		Input:      r.config.InputDir,
		Output:     r.config.Output,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Emitted:    len(result.Profiles),
		Dropped:    result.Summary.DroppedTotal(),
	}
	return s.SaveRun(ctx, run, result.Profiles)
}
