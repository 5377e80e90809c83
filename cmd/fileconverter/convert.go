package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fileconverter "github.com/nicholasgasior/fileconverter-go"
	"github.com/nicholasgasior/fileconverter-go/internal/history"
)

var errBatchFailed = errors.New("not all files converted")

var convertCmd = &cobra.Command{
	Use:   "convert -t FORMAT [flags] FILE...",
	Short: "Convert files to a target format",
	Long: `Convert runs a batch: every file is converted to the target format and
written to the output directory under its original name with the new
extension. A file that fails does not stop the batch.

The target format selects the converter. Use --category to force a
converter, for example --category video -t gif for animated GIFs.
The exit status is 1 unless every file converted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("to", "t", "", "output format, e.g. pdf, mp3, png")
	convertCmd.Flags().StringP("output-dir", "o", "", "output directory (default: .)")
	convertCmd.Flags().String("quality", "", "high, medium or low")
	convertCmd.Flags().Bool("overwrite", false, "replace existing outputs")
	convertCmd.Flags().Bool("keep-aspect", true, "maintain aspect ratio")
	convertCmd.Flags().String("category", "", "force the image, audio, video or document converter")
	convertCmd.Flags().Int("workers", 0, "files converted at once")
	convertCmd.Flags().String("report", "", "print a json or yaml report instead of text")
	_ = convertCmd.MarkFlagRequired("to")

	_ = viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("quality", convertCmd.Flags().Lookup("quality"))
	_ = viper.BindPFlag("overwrite", convertCmd.Flags().Lookup("overwrite"))
	_ = viper.BindPFlag("maintain_aspect_ratio", convertCmd.Flags().Lookup("keep-aspect"))
	_ = viper.BindPFlag("workers", convertCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(convertCmd)
}

// batchRequest is one CLI batch.
type batchRequest struct {
	Files     []string
	Format    string
	OutputDir string
	Category  string
	Options   fileconverter.Options
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("to")
	category, _ := cmd.Flags().GetString("category")
	reportFormat, _ := cmd.Flags().GetString("report")
	if reportFormat != "" && reportFormat != "json" && reportFormat != "yaml" {
		return fmt.Errorf("invalid --report %q (want json or yaml)", reportFormat)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	eng := newEngine(cfg, logger)
	req := batchRequest{
		Files:     dedupe(args),
		Format:    format,
		OutputDir: cfg.OutputDir,
		Category:  category,
		Options:   cfg.options(),
	}

	started := time.Now()
	res, err := convertFiles(cmd.Context(), eng, req, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	rep := newReport(res, fileconverter.NormalizeFormat(format), req.OutputDir)

	if cfg.History.Enabled {
		if err := recordHistory(cmd.Context(), cfg, logger, rep.historyRun(started, time.Since(started))); err != nil {
			logger.Warn("history not recorded", "error", err)
		}
	}

	if reportFormat != "" {
		if err := writeReport(cmd.OutOrStdout(), rep, reportFormat); err != nil {
			return err
		}
	} else {
		writeText(cmd.OutOrStdout(), rep)
	}

	if !res.AllSucceeded() {
		return errBatchFailed
	}
	return nil
}

// convertFiles runs the batch, printing progress lines to progress.
func convertFiles(ctx context.Context, eng *fileconverter.Engine, req batchRequest, progress io.Writer) (fileconverter.BatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reporter := fileconverter.ReporterFuncs{
		OnProgress: func(percent int, message string) {
			fmt.Fprintf(progress, "[%3d%%] %s\n", percent, message)
		},
	}

	if req.Category == "" {
		return eng.RunBatch(ctx, req.Files, req.Format, req.OutputDir, req.Options, reporter)
	}
	cat, err := fileconverter.ParseCategory(req.Category)
	if err != nil {
		return fileconverter.BatchResult{}, err
	}
	conv, ok := eng.ConverterFor(cat)
	if !ok {
		return fileconverter.BatchResult{}, fmt.Errorf("no %s converter registered", cat)
	}
	return eng.RunBatchWith(ctx, conv, req.Files, req.Format, req.OutputDir, req.Options, reporter)
}

// dedupe drops repeated paths, keeping the first occurrence.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func recordHistory(ctx context.Context, cfg Config, logger *slog.Logger, run history.Run) error {
	path, err := cfg.historyPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Record(context.WithoutCancel(ctx), run)
	if err != nil {
		return err
	}
	logger.Debug("run recorded", "id", id, "path", path)
	return nil
}
