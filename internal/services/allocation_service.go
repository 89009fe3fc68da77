package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"fundalloc/internal/charts"
	"fundalloc/internal/config"
	"fundalloc/internal/dataprocessing"
	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/exporter"
	"fundalloc/internal/files"
	"fundalloc/internal/infrastructure"
	"fundalloc/internal/validation"
	"fundalloc/pkg/contracts/domain"
)

// Request selects the fund and how many consecutive pairs to compare.
type Request struct {
	Fund   string `json:"fund" validate:"required,fundname"`
	Months int    `json:"months" validate:"gte=1"`
	// MonthsText is the month count as the user typed it. Output names use
	// it verbatim when set, so "05" names a _05_Months report.
	MonthsText string `json:"months_text,omitempty" validate:"omitempty,numeric"`
}

// window is the month label embedded in output file names.
func (r Request) window() string {
	if r.MonthsText != "" {
		return r.MonthsText
	}
	return strconv.Itoa(r.Months)
}

// PairResult describes one compared pair of snapshots.
type PairResult struct {
	Index    int
	Previous files.Snapshot
	Current  files.Snapshot
	Changes  int
	Err      error
}

// Result summarises a completed run.
type Result struct {
	Fund       string
	Months     int
	Snapshots  []files.Snapshot
	OutputPath string
	ChartPath  string
	CSVPath    string
	Pairs      []PairResult
	Skipped    []PairResult
	Changes    domain.ChangeSet
	RenderErr  error
	Totals     map[string]int64
}

// AllocationService discovers a fund's disclosures, compares consecutive
// pairs and writes the combined change report.
type AllocationService struct {
	cfg       *config.Config
	paths     *config.Paths
	out       io.Writer
	logger    *slog.Logger
	tracer    trace.Tracer
	providers *infrastructure.OTelProviders
	metrics   *infrastructure.RunMetrics

	requests  *validation.StructValidator
	fileCheck *validation.FileValidator
	discovery *files.Discovery
	manager   *files.Manager
	loader    *dataprocessing.Loader
	differ    *dataprocessing.Differ
	excel     *exporter.ExcelWriter
	csv       *exporter.CSVWriter

	join      dataprocessing.JoinPolicy
	chartMode string
	topN      int
	writeCSV  bool
}

// NewAllocationService wires a service from configuration. Progress lines
// and the terminal chart go to out. providers may be nil, in which case
// metrics go to the global no-op meter.
func NewAllocationService(cfg *config.Config, paths *config.Paths, out io.Writer, logger *slog.Logger, providers *infrastructure.OTelProviders) (*AllocationService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = io.Discard
	}
	logger = infrastructure.WithComponent(logger, "allocation_service")

	a := cfg.Analysis
	join, err := dataprocessing.ParseJoinPolicy(a.JoinPolicy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid join policy", err)
	}
	dups, err := dataprocessing.ParseDuplicatePolicy(a.DuplicatePolicy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid duplicate policy", err)
	}
	order, err := files.ParseOrder(a.OrderBy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid snapshot order", err)
	}

	if paths == nil {
		paths, err = config.GetPaths(cfg.Paths)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to resolve paths", err)
		}
	}

	var meter metric.Meter
	if providers != nil && providers.Meter != nil {
		meter = providers.Meter
	} else {
		meter = otel.GetMeterProvider().Meter(infrastructure.MeterName)
	}
	metrics, err := infrastructure.CreateRunMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}

	loadOpts := dataprocessing.DefaultLoadOptions()
	loadOpts.SheetName = a.SheetName
	loadOpts.HeaderRows = a.HeaderRows
	loadOpts.Exclude = dataprocessing.NoExclusion
	if len(a.ExcludeMarkers) > 0 {
		loadOpts.Exclude = dataprocessing.SubstringExclusion(a.ExcludeMarkers...)
	}

	return &AllocationService{
		cfg:       cfg,
		paths:     paths,
		out:       out,
		logger:    logger,
		tracer:    otel.Tracer(infrastructure.MeterName),
		providers: providers,
		metrics:   metrics,

		requests:  validation.NewStructValidator(logger),
		fileCheck: validation.NewFileValidator(logger),
		discovery: files.NewDiscovery(paths.InputDir).WithOrder(order),
		manager:   files.NewManager(paths),
		loader:    dataprocessing.NewLoader(loadOpts, logger),
		differ:    dataprocessing.NewDiffer(dataprocessing.DiffOptions{Join: join, Duplicates: dups}, logger),
		excel:     exporter.NewExcelWriter(logger),
		csv:       exporter.NewCSVWriter(logger),

		join:      join,
		chartMode: a.Chart,
		topN:      a.TopN,
		writeCSV:  a.WriteCSV,
	}, nil
}

// Run compares up to req.Months consecutive snapshot pairs, oldest first.
// Pairs whose files fail to load or compare are reported and skipped. Fewer
// than two snapshots yields an INSUFFICIENT_DATA error and no output. A
// chart failure is reported in Result.RenderErr; the report is already saved.
func (s *AllocationService) Run(ctx context.Context, req Request) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "allocation.run", trace.WithAttributes(
		attribute.String("fund", req.Fund),
		attribute.Int("months", req.Months),
		attribute.String("trace_id", infrastructure.GetTraceID(ctx)),
	))
	defer span.End()
	defer func() {
		s.metrics.RunDuration.Record(ctx, time.Since(start).Seconds())
	}()

	if err := s.requests.ValidateStruct(ctx, req); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Starting allocation comparison",
		slog.String("fund", req.Fund),
		slog.Int("months", req.Months),
		slog.Any("paths", s.paths))

	snapshots, err := s.discover(ctx, req.Fund)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	if len(snapshots) < 2 {
		err := apperrors.NewInsufficientDataError(req.Fund, len(snapshots))
		s.logger.WarnContext(ctx, "Not enough disclosures to compare",
			slog.String("fund", req.Fund),
			slog.Int("files_found", len(snapshots)))
		return nil, err
	}

	result := &Result{
		Fund:      req.Fund,
		Months:    req.Months,
		Snapshots: snapshots,
	}

	pairs := min(len(snapshots)-1, req.Months)
	sets := make([]domain.ChangeSet, 0, pairs)
	for i := 0; i < pairs; i++ {
		pr, changes := s.comparePair(ctx, i, snapshots[i], snapshots[i+1])
		if pr.Err != nil {
			result.Skipped = append(result.Skipped, pr)
			continue
		}
		result.Pairs = append(result.Pairs, pr)
		sets = append(sets, changes)
	}

	if len(sets) == 0 {
		err := apperrors.NewNothingComparedError(req.Fund, len(result.Skipped))
		s.logger.ErrorContext(ctx, "No pair could be compared",
			slog.String("fund", req.Fund),
			slog.Int("skipped", len(result.Skipped)))
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result.Changes = domain.Concat(sets...)
	s.metrics.ChangeRecords.Add(ctx, int64(len(result.Changes)))

	if err := s.export(ctx, req, result); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	fmt.Fprintf(s.out, config.MsgSaved+"\n", result.OutputPath)

	result.RenderErr = s.visualize(ctx, req, result)

	span.SetAttributes(
		attribute.Int("pairs", len(result.Pairs)),
		attribute.Int("skipped", len(result.Skipped)),
		attribute.Int("changes", len(result.Changes)),
	)

	totals, err := s.providers.CollectTotals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to collect run metrics", slog.String("error", err.Error()))
	}
	result.Totals = totals

	s.logger.InfoContext(ctx, "Allocation comparison completed",
		slog.String("output", result.OutputPath),
		slog.Int("pairs", len(result.Pairs)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("changes", len(result.Changes)),
		slog.Any("totals", totals),
		slog.String("span_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *AllocationService) discover(ctx context.Context, fund string) ([]files.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "discover")
	defer span.End()

	// The fund is free text and may hold glob metacharacters, so only the
	// extension is globbed; FindDisclosures does the substring match.
	if err := s.fileCheck.ValidateInputDirectory(ctx, s.paths.InputDir, "*"+config.DisclosureExtension); err != nil {
		return nil, err
	}

	snapshots, err := s.discovery.FindDisclosures(fund)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list disclosures", err).
			WithContext("directory", s.paths.InputDir)
	}

	names := make([]string, len(snapshots))
	for i, snap := range snapshots {
		names[i] = snap.Name
	}
	span.SetAttributes(attribute.Int("snapshots", len(snapshots)))
	s.logger.DebugContext(ctx, "Disclosures discovered",
		slog.String("fund", fund),
		slog.Any("files", names))

	return snapshots, nil
}

// comparePair loads and diffs one pair. Any failure is printed, logged and
// returned in PairResult.Err.
func (s *AllocationService) comparePair(ctx context.Context, index int, previous, current files.Snapshot) (PairResult, domain.ChangeSet) {
	ctx, span := s.tracer.Start(ctx, "compare_pair", trace.WithAttributes(
		attribute.Int("index", index),
		attribute.String("previous", previous.Name),
		attribute.String("current", current.Name),
	))
	defer span.End()

	pr := PairResult{Index: index, Previous: previous, Current: current}
	fmt.Fprintf(s.out, config.MsgComparing+"\n", previous.Name, current.Name)

	prevTable, prevErr := s.load(ctx, previous)
	curTable, curErr := s.load(ctx, current)
	if prevErr != nil || curErr != nil {
		pr.Err = firstError(prevErr, curErr)
		s.skip(ctx, pr)
		return pr, nil
	}

	changes, err := s.differ.Compare(ctx, prevTable, curTable)
	if err != nil {
		fmt.Fprintf(s.out, config.MsgCompareError+"\n", previous.Name, current.Name, Describe(err))
		pr.Err = err
		s.skip(ctx, pr)
		return pr, nil
	}

	for i := range changes {
		changes[i].Previous = domain.SnapshotRef{Source: previous.Name, Date: previous.Date}
		changes[i].Current = domain.SnapshotRef{Source: current.Name, Date: current.Date}
	}

	pr.Changes = len(changes)
	s.metrics.PairsCompared.Add(ctx, 1)
	span.SetAttributes(attribute.Int("changes", len(changes)))
	return pr, changes
}

func (s *AllocationService) load(ctx context.Context, snap files.Snapshot) (*domain.DisclosureTable, error) {
	if err := s.fileCheck.ValidateExcelFile(ctx, snap.Path); err != nil {
		fmt.Fprintf(s.out, config.MsgLoadError+"\n", snap.Name, err)
		return nil, apperrors.NewLoadError(snap.Path, err)
	}

	table, err := s.loader.Load(ctx, snap.Path)
	if err != nil {
		detail := Describe(err)
		if cause := errors.Unwrap(err); cause != nil && apperrors.IsType(err, apperrors.ErrTypeLoadFailure) {
			detail = cause.Error()
		}
		fmt.Fprintf(s.out, config.MsgLoadError+"\n", snap.Name, detail)
		return nil, err
	}
	table.Date = snap.Date
	s.metrics.FilesLoaded.Add(ctx, 1)
	return table, nil
}

func (s *AllocationService) skip(ctx context.Context, pr PairResult) {
	s.metrics.PairsSkipped.Add(ctx, 1)
	infrastructure.RecordError(ctx, pr.Err)
	infrastructure.WithError(s.logger, pr.Err).ErrorContext(ctx, "Skipping pair",
		slog.Int("index", pr.Index),
		slog.String("previous", pr.Previous.Name),
		slog.String("current", pr.Current.Name),
		slog.String("error_type", string(apperrors.TypeOf(pr.Err))))
}

func (s *AllocationService) export(ctx context.Context, req Request, result *Result) error {
	ctx, span := s.tracer.Start(ctx, "export")
	defer span.End()

	if err := s.fileCheck.ValidateOutputDirectory(ctx, s.paths.OutputDir); err != nil {
		return err
	}

	path, err := s.manager.OutputPath(ctx, exporter.OutputFileName(req.Fund, req.window()))
	if err != nil {
		return apperrors.NewStorageError("failed to resolve output path", err)
	}
	replaced := s.manager.FileExists(ctx, path)
	opts := exporter.ExcelOptions{IncludeKind: s.join == dataprocessing.JoinOuter}
	if err := s.excel.WriteChangeSet(ctx, path, result.Changes, opts); err != nil {
		return err
	}
	result.OutputPath = path

	size, err := s.manager.GetFileSize(path)
	if err != nil {
		return apperrors.NewStorageError("failed to stat change report", err).
			WithContext("file", path)
	}
	s.logger.InfoContext(ctx, "Change report saved",
		slog.String("file_path", path),
		slog.Bool("replaced", replaced),
		slog.Int64("size_bytes", size))

	if s.writeCSV {
		csvPath, err := s.manager.OutputPath(ctx, exporter.CSVFileName(req.Fund, req.window()))
		if err != nil {
			return apperrors.NewStorageError("failed to resolve CSV path", err)
		}
		if err := s.csv.WriteChangeSet(ctx, csvPath, result.Changes, opts.IncludeKind); err != nil {
			return err
		}
		result.CSVPath = csvPath
	}

	span.SetAttributes(attribute.String("output", path))
	return nil
}

func (s *AllocationService) visualize(ctx context.Context, req Request, result *Result) error {
	ctx, span := s.tracer.Start(ctx, "visualize", trace.WithAttributes(
		attribute.String("mode", s.chartMode),
	))
	defer span.End()

	var renderers []charts.Renderer
	if s.chartMode == "terminal" || s.chartMode == "both" {
		renderers = append(renderers, charts.NewTerminalRenderer(s.out))
	}
	if s.chartMode == "workbook" || s.chartMode == "both" {
		path, err := s.manager.OutputPath(ctx, exporter.ChartFileName(req.Fund, req.window()))
		if err != nil {
			return s.renderFailed(ctx, apperrors.NewRenderError("failed to resolve chart path", err))
		}
		workbook := charts.NewWorkbookRenderer(path, s.logger)
		renderers = append(renderers, workbook)
		result.ChartPath = workbook.Path()
	}
	if len(renderers) == 0 {
		return nil
	}

	if err := charts.Visualize(ctx, result.Changes, s.topN, renderers...); err != nil {
		result.ChartPath = ""
		return s.renderFailed(ctx, err)
	}
	return nil
}

func (s *AllocationService) renderFailed(ctx context.Context, err error) error {
	infrastructure.RecordError(ctx, err)
	fmt.Fprintf(s.out, config.MsgVisualizeError+"\n", Describe(err))
	infrastructure.WithError(s.logger, err).ErrorContext(ctx, "Visualization failed")
	return err
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
