package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/people-finder/internal/batchio"
	"github.com/sells-group/people-finder/internal/resolve"
)

var (
	batchInput       string
	batchOutput      string
	batchFormat      string
	batchLimit       int
	batchConcurrency int
	batchAgentic     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve every (company, designation) row of a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchConcurrency > 0 {
			cfg.Batch.Concurrency = batchConcurrency
		}

		env, err := initFinder(ctx, cfg, "batch", batchAgentic)
		if err != nil {
			return err
		}

		jobs, err := batchio.ReadJobs(batchInput)
		if err != nil {
			return eris.Wrap(err, "read batch input")
		}

		out := cmd.OutOrStdout()
		if batchOutput != "" && batchOutput != "-" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		w, err := batchio.NewWriter(out, outputFormat(batchFormat, batchOutput))
		if err != nil {
			return err
		}

		err = processBatch(ctx, jobs, batchLimit, cfg.Batch.Concurrency, env.Resolver, w)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input file (.csv, .tsv or .xlsx)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output file (default stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: jsonl, csv or xlsx (default from output extension)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of rows to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent resolver runs (default from config)")
	batchCmd.Flags().BoolVar(&batchAgentic, "agentic", false, "use the single-call agentic resolver")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// outputFormat picks an explicit format, else infers it from the output
// file extension, else JSON lines.
func outputFormat(format, output string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".csv":
		return batchio.FormatCSV
	case ".xlsx":
		return batchio.FormatXLSX
	default:
		return batchio.FormatJSONL
	}
}

// processBatch applies limit, then resolves jobs concurrently. Each run is
// independent; records are written in completion order. Once ctx is done,
// runs already started finish and are written, the rest are skipped and an
// error reports how many.
func processBatch(ctx context.Context, jobs []batchio.Job, limit, concurrency int, resolver resolve.Resolver, w batchio.Writer) error {
	if len(jobs) == 0 {
		zap.L().Info("no batch rows found")
		return nil
	}

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("rows", len(jobs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var (
		mu                       sync.Mutex
		found, notFound, skipped atomic.Int64
		start                    = time.Now()
	)

	for i, job := range jobs {
		if gctx.Err() != nil {
			skipped.Add(int64(len(jobs) - i))
			break
		}
		g.Go(func() error {
			// Rows not started before an interrupt are left out of the output.
			if gctx.Err() != nil {
				skipped.Add(1)
				return nil
			}

			result := resolver.Resolve(gctx, job.Company, job.Designation)
			if result.Found {
				found.Add(1)
			} else {
				notFound.Add(1)
				zap.L().Debug("row not resolved",
					zap.Int("row", job.Row),
					zap.String("company", job.Company),
					zap.String("error", result.ErrorMessage()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			if err := w.Write(batchio.Record{
				Row:         job.Row,
				Company:     job.Company,
				Designation: job.Designation,
				Result:      result,
			}); err != nil {
				return eris.Wrapf(err, "write row %d", job.Row)
			}
			return nil
		})
	}

	err := g.Wait()

	zap.L().Info("batch complete",
		zap.Int64("found", found.Load()),
		zap.Int64("not_found", notFound.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err != nil {
		return err
	}
	if n := skipped.Load(); n > 0 {
		return eris.Errorf("batch interrupted: %d of %d rows not processed", n, len(jobs))
	}
	return nil
}
