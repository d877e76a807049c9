// Command datascrub is the command-line surface of the cleaning engine.
// Every subcommand reads one input file (CSV text directly, or a
// spreadsheet rendered to CSV through the excel adapter), runs the
// engine, and prints JSON to stdout. Diagnostics go to stderr so the
// output stays pipeable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"datascrub/adapters/csvfile"
	"datascrub/adapters/excel"
	"datascrub/app"
	"datascrub/domain/batch"
	"datascrub/domain/cleaning"
	"datascrub/domain/core"
	"datascrub/internal/config"
	"datascrub/internal/container"
	"datascrub/ports"
)

const pollEvery = 250 * time.Millisecond

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "datascrub",
		Short: "Detect and fix data quality issues in CSV and spreadsheet files",
	}

	rootCmd.AddCommand(
		newDetectCmd(),
		newCleanCmd(),
		newOperationsCmd(),
		newBatchCmd(),
		newReportCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Analyze a file for data quality issues",
		Long: `Run the full detection suite over a file and print the issue report as JSON.

Files above the large-file threshold are analyzed on a row sample with
issue counts extrapolated back to the full row count; the report carries
a performance note when that happens.

Example: datascrub detect customers.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.Context(), args[0])
		},
	}
}

func runDetect(ctx context.Context, path string) error {
	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	csvText, err := readInput(ctx, c, path)
	if err != nil {
		return err
	}

	report, err := c.Service.Detect(ctx, csvText)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func newCleanCmd() *cobra.Command {
	var op string
	var columns []string
	var output string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Apply a cleaning operation to a file",
		Long: `Apply one cleaning operation to a file and print the result as JSON,
including the cleaned CSV text and the change count.

Use --columns to restrict column-targeted operations to specific columns;
without it they run over every applicable column. With --output the
cleaned CSV is also written to the given path.

Example: datascrub clean customers.csv --op trim_whitespace --columns name,email`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), args[0], cleaning.OpName(op), columns, output)
		},
	}

	cmd.Flags().StringVar(&op, "op", "", "Cleaning operation to apply (see: datascrub operations)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to target (default: all applicable)")
	cmd.Flags().StringVar(&output, "output", "", "Also write the cleaned CSV to this path")

	return cmd
}

func runClean(ctx context.Context, path string, op cleaning.OpName, columns []string, output string) error {
	if op == "" {
		return fmt.Errorf("--op is required (see: datascrub operations)")
	}

	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	csvText, err := readInput(ctx, c, path)
	if err != nil {
		return err
	}

	result, err := c.Service.Apply(ctx, csvText, op, columns)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(result.CSVText), 0644); err != nil {
			return fmt.Errorf("failed to write cleaned CSV: %w", err)
		}
		fmt.Fprintf(os.Stderr, "cleaned CSV written to %s\n", output)
	}
	return printJSON(result)
}

func newOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the available cleaning operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(map[string]interface{}{
				"operations": cleaning.Catalog(),
			})
		},
	}
}

func newBatchCmd() *cobra.Command {
	var kind string
	var op string
	var columns []string
	var status string
	var cancel string
	var wait bool

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Run detection or cleaning as a chunked background job",
		Long: `Submit a file as a batch job, processed in row chunks with bounded
concurrency, and print the final job record as JSON.

By default the command waits for the job, reporting progress on stderr.
Interrupting a waiting command (Ctrl-C) requests cancellation; the job
stops at the next chunk boundary and the cancelled record is printed.

--status prints the stored record of an earlier job and --cancel asks a
job still running in this process to stop. Records of finished processes
are only visible when DATABASE_URL points at the job store.

Examples:
  datascrub batch customers.csv --kind detect
  datascrub batch customers.csv --kind clean --op normalize_phone_format
  datascrub batch --status 0198ade5-2b4c-7c3f-9a41-d5b1c0a6f9e2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case status != "":
				return runBatchStatus(cmd.Context(), status)
			case cancel != "":
				return runBatchCancel(cmd.Context(), cancel)
			}
			if len(args) != 1 {
				return fmt.Errorf("batch requires a file argument (or --status / --cancel)")
			}
			return runBatchSubmit(cmd.Context(), args[0], kind, cleaning.OpName(op), columns, wait)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "detect", "Job kind: detect|clean")
	cmd.Flags().StringVar(&op, "op", "", "Cleaning operation (required for --kind clean)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to target (default: all applicable)")
	cmd.Flags().StringVar(&status, "status", "", "Print the record of the given job ID and exit")
	cmd.Flags().StringVar(&cancel, "cancel", "", "Request cancellation of the given job ID and exit")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the job to reach a terminal state")

	return cmd
}

func runBatchSubmit(ctx context.Context, path, kindStr string, op cleaning.OpName, columns []string, wait bool) error {
	var kind batch.JobKind
	switch kindStr {
	case "detect":
		kind = batch.KindDetect
	case "clean":
		kind = batch.KindClean
	default:
		return fmt.Errorf("invalid kind: %s (expected detect|clean)", kindStr)
	}
	if kind == batch.KindClean && op == "" {
		return fmt.Errorf("--op is required for --kind clean (see: datascrub operations)")
	}

	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	csvText, err := readInput(ctx, c, path)
	if err != nil {
		return err
	}

	job, err := c.Service.SubmitBatch(ctx, csvText, core.NewFileID(), kind, op, columns)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "job %s submitted: %s over %d chunks\n", job.ID, job.Kind, job.TotalChunks)

	if !wait {
		return printJSON(job)
	}

	final, err := waitForJob(ctx, c.Service, job.ID)
	if err == nil {
		return printJSON(final)
	}
	if ctx.Err() == nil {
		return err
	}

	// Interrupted while waiting: ask the coordinator to stop, then report
	// the job's final state. The cancel request can race a completion, so
	// a terminal-state rejection is tolerated.
	fmt.Fprintln(os.Stderr, "interrupt received, cancelling job")
	stopCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := c.Service.CancelJob(stopCtx, job.ID); err != nil && !core.IsJobStateError(err) {
		return err
	}
	final, err = waitForJob(stopCtx, c.Service, job.ID)
	if err != nil {
		return err
	}
	return printJSON(final)
}

func runBatchStatus(ctx context.Context, idStr string) error {
	id, err := core.ParseJobID(idStr)
	if err != nil {
		return err
	}

	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	job, err := c.Service.JobStatus(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(job)
}

func runBatchCancel(ctx context.Context, idStr string) error {
	id, err := core.ParseJobID(idStr)
	if err != nil {
		return err
	}

	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	if err := c.Service.CancelJob(ctx, id); err != nil {
		return err
	}
	job, err := c.Service.JobStatus(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(job)
}

// waitForJob polls the job until it reaches a terminal state, echoing
// progress changes to stderr. On context cancellation it returns the
// last-seen record alongside the context error.
func waitForJob(ctx context.Context, svc *app.Service, id core.JobID) (*batch.Job, error) {
	lastProgress := -1
	for {
		job, err := svc.JobStatus(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Progress != lastProgress {
			lastProgress = job.Progress
			fmt.Fprintf(os.Stderr, "job %s: %s %d%% (%d/%d chunks)\n",
				job.ID, job.Status, job.Progress, job.ProcessedChunks, job.TotalChunks)
		}
		if job.Status.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(pollEvery):
		}
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [file]",
		Short: "Produce the expectation/constraint/repair/mislabel report",
		Long: `Generate the extended quality report for a file and print it as JSON.

The report carries four sections shaped like the output of common data
quality tools (expectation checks, constraint checks, repair suggestions,
and mislabel candidates), computed deterministically without training
any models.

Example: datascrub report customers.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0])
		},
	}
}

func runReport(ctx context.Context, path string) error {
	c, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	csvText, err := readInput(ctx, c, path)
	if err != nil {
		return err
	}

	report, err := c.Service.Report(ctx, csvText, filepath.Base(path))
	if err != nil {
		return err
	}
	return printJSON(report)
}

// newContainer loads configuration and wires the engine
func newContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return container.New(ctx, cfg)
}

// readInput loads the file through the adapter matching its extension.
// Spreadsheets are rendered to CSV text; everything else is read as-is.
func readInput(ctx context.Context, c *container.Container, path string) (string, error) {
	var src ports.DatasetSource
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		src = excel.NewSource(path)
	default:
		src = csvfile.NewSource(path, int64(c.Config.Limits.MaxInputBytes))
	}
	return src.ReadCSV(ctx)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
