package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cetaksoal/adapters/excel"
	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/config"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type convertOptions struct {
	outDir       string
	jobs         int
	header       exam.HeaderInfo
	settings     exam.Settings
	maxBytes     int64
	logger       *internal.Logger
	explanations bool
	noKop        bool
	align        string
}

func newConvertCmd(cfg *config.Config) *cobra.Command {
	opts := convertOptions{
		header:   cfg.Document.Header,
		settings: cfg.Document.Settings,
		maxBytes: cfg.Import.MaxUploadBytes(),
	}

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Render workbooks to standalone HTML documents",
		Long: `Render each workbook to <name>.html in the output directory.

Files are converted concurrently. A file that cannot be read is reported and
the rest are still converted; the command then exits non-zero.

Example: cetaksoal convert bank1.xlsx bank2.xlsx --out cetak --columns 3 --explanations`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.settings.ShowExplanation = opts.settings.ShowExplanation || opts.explanations
			if opts.noKop {
				opts.settings.ShowKop = false
			}
			opts.settings.GlobalAlign = exam.Align(opts.align)
			opts.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return runConvert(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Output directory")
	cmd.Flags().IntVar(&opts.settings.Columns, "columns", opts.settings.Columns, "Question columns (1-3)")
	cmd.Flags().Float64Var(&opts.settings.FontSize, "font-size", opts.settings.FontSize, "Question font size in px (8-14)")
	cmd.Flags().StringVar(&opts.align, "align", string(opts.settings.GlobalAlign), "Text alignment: left|center|right|justify")
	cmd.Flags().BoolVar(&opts.explanations, "explanations", false, "Include answer keys and explanations")
	cmd.Flags().BoolVar(&opts.noKop, "no-kop", false, "Leave out the letterhead")
	cmd.Flags().IntVar(&opts.jobs, "jobs", runtime.NumCPU(), "Files converted in parallel")

	return cmd
}

type convertResult struct {
	source string
	target string
	count  int
	err    error
}

func runConvert(ctx context.Context, opts convertOptions, files []string, out io.Writer) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	svc := importer.NewService(excel.ExcelConfig{MaxBytes: opts.maxBytes}, nil, nil, opts.logger)
	settings := opts.settings.Normalize()

	results := make([]convertResult, len(files))
	var g errgroup.Group
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = convertFile(ctx, svc, renderer, path, opts.outDir, opts.header, settings)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.source, r.err)
			continue
		}
		fmt.Fprintf(out, "ok   %s -> %s (%d soal)\n", r.source, r.target, r.count)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func convertFile(ctx context.Context, svc *importer.Service, renderer *render.Renderer, path, outDir string,
	header exam.HeaderInfo, settings exam.Settings) convertResult {
	res := convertResult{source: path}

	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	imported, err := svc.Import(ctx, filepath.Base(path), f)
	if err != nil {
		res.err = err
		return res
	}

	var buf bytes.Buffer
	snap := state.Snapshot{Questions: imported.Questions, Header: header, Settings: settings}
	if err := renderer.Document(&buf, snap); err != nil {
		res.err = err
		return res
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res.target = filepath.Join(outDir, base+".html")
	if err := os.WriteFile(res.target, buf.Bytes(), 0o644); err != nil {
		res.err = err
		return res
	}
	res.count = imported.Count
	return res
}

func newInspectCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the questions mapped from a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return runInspect(cmd.Context(), args[0], cfg.Import.MaxUploadBytes(), logger, cmd.OutOrStdout())
		},
	}
}

func runInspect(ctx context.Context, path string, maxBytes int64, logger *internal.Logger, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := importer.NewService(excel.ExcelConfig{MaxBytes: maxBytes}, nil, nil, logger)
	result, err := svc.Import(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
