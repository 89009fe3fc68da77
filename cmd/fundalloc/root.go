package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fundalloc/internal/config"
	"fundalloc/internal/infrastructure"
	"fundalloc/internal/services"
)

// options holds the values bound to the root command's flags.
type options struct {
	fund   string
	months int
	dir    string
	order  string
	join   string
	top    int
	chart  string
	csv    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Compare monthly fund portfolio disclosures",
		Long: `Finds the monthly portfolio disclosure workbooks of a fund, compares
consecutive months and writes the holding changes to an Excel report.
The largest market value changes are drawn as a bar chart.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runAllocation(cmd, opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fund, "fund", "", "fund name to look for in file names (prompted when omitted)")
	f.IntVar(&opts.months, "months", 0, "number of consecutive month pairs to compare (prompted when omitted)")
	f.StringVar(&opts.dir, "dir", "", "directory holding the disclosure workbooks")
	f.StringVar(&opts.order, "order", "", "snapshot ordering: name or date")
	f.StringVar(&opts.join, "join", "", "join policy: inner or outer")
	f.IntVar(&opts.top, "top", 0, "number of changes to chart")
	f.StringVar(&opts.chart, "chart", "", "chart output: terminal, workbook, both or none")
	f.BoolVar(&opts.csv, "csv", false, "also write the report as CSV")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", config.AppName, config.AppVersion)
		},
	}
}

// runAllocation performs one interactive run. Every failure is printed, none
// is returned, so the process exits 0.
func runAllocation(cmd *cobra.Command, opts *options) {
	out := cmd.OutOrStdout()
	ctx := infrastructure.ContextWithTraceID(context.Background())

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		unexpected(out, err)
		return
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		unexpected(out, err)
		return
	}
	if err := paths.EnsureDirectories(); err != nil {
		unexpected(out, err)
		return
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.WarnContext(ctx, "Failed to initialize logger, using default", "error", err)
	}
	defer infrastructure.CloseLogFile()
	logger := infrastructure.LoggerWithContext(ctx)
	logger.InfoContext(ctx, "Starting fundalloc",
		slog.String("version", config.AppVersion),
		slog.Any("paths", paths))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Tracing), logger)
	if err != nil {
		logger.WarnContext(ctx, "Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		providers = nil
	}
	if providers != nil {
		defer func() {
			if err := providers.Shutdown(context.Background()); err != nil {
				logger.WarnContext(ctx, "OpenTelemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	req, err := readRequest(cmd, opts)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid input", slog.String("error", err.Error()))
		unexpected(out, err)
		return
	}

	svc, err := services.NewAllocationService(cfg, paths, out, logger, providers)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create allocation service", slog.String("error", err.Error()))
		unexpected(out, err)
		return
	}

	if _, err := svc.Run(ctx, req); err != nil {
		if services.IsInsufficientData(err) {
			fmt.Fprintln(out, config.MsgNotEnoughData)
			return
		}
		unexpected(out, err)
	}
}

// loadConfig reads env and file configuration and applies explicitly set
// flags on top.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("dir") {
		cfg.Paths.InputDir = opts.dir
	}
	if f.Changed("order") {
		cfg.Analysis.OrderBy = opts.order
	}
	if f.Changed("join") {
		cfg.Analysis.JoinPolicy = opts.join
	}
	if f.Changed("top") {
		cfg.Analysis.TopN = opts.top
	}
	if f.Changed("chart") {
		cfg.Analysis.Chart = opts.chart
	}
	if f.Changed("csv") {
		cfg.Analysis.WriteCSV = opts.csv
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readRequest takes the fund and months from flags, prompting for any that
// were not given.
func readRequest(cmd *cobra.Command, opts *options) (services.Request, error) {
	req := services.Request{Fund: opts.fund, Months: opts.months}
	f := cmd.Flags()
	if f.Changed("fund") && f.Changed("months") {
		return req, nil
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	if !f.Changed("fund") {
		fmt.Fprint(out, config.PromptFund)
		req.Fund = readLine(reader)
	}
	if !f.Changed("months") {
		fmt.Fprint(out, config.PromptMonths)
		text := readLine(reader)
		months, err := strconv.Atoi(text)
		if err != nil {
			return req, fmt.Errorf("invalid month count: %w", err)
		}
		req.Months = months
		req.MonthsText = text
	}
	return req, nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func unexpected(out io.Writer, err error) {
	fmt.Fprintf(out, config.MsgUnexpectedError+"\n", services.Describe(err))
}
