package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	fileconverter "github.com/nicholasgasior/fileconverter-go"
	"github.com/nicholasgasior/fileconverter-go/internal/history"
)

// batchReport is the machine-readable form of a batch result.
type batchReport struct {
	Format    string       `json:"format" yaml:"format"`
	OutputDir string       `json:"output_dir" yaml:"output_dir"`
	Total     int          `json:"total" yaml:"total"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
	Canceled  bool         `json:"canceled,omitempty" yaml:"canceled,omitempty"`
	Summary   string       `json:"summary" yaml:"summary"`
	Files     []fileReport `json:"files" yaml:"files"`
}

type fileReport struct {
	Input   string `json:"input" yaml:"input"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
	Success bool   `json:"success" yaml:"success"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReport(res fileconverter.BatchResult, format, outputDir string) batchReport {
	rep := batchReport{
		Format:    format,
		OutputDir: outputDir,
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    res.Failed(),
		Canceled:  res.Canceled,
		Summary:   res.Summary(),
		Files:     make([]fileReport, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		f := fileReport{Input: o.InputPath, Output: o.OutputPath, Success: o.Success}
		if o.Err != nil {
			f.Kind = o.Kind().String()
			f.Error = o.Err.Error()
		}
		rep.Files = append(rep.Files, f)
	}
	return rep
}

func writeReport(w io.Writer, rep batchReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("invalid report format %q (want json or yaml)", format)
}

// writeText prints one line per file followed by the summary.
func writeText(w io.Writer, rep batchReport) {
	for _, f := range rep.Files {
		if f.Success {
			fmt.Fprintf(w, "ok      %s -> %s\n", f.Input, f.Output)
			continue
		}
		fmt.Fprintf(w, "failed  %s: %s\n", f.Input, f.Error)
	}
	fmt.Fprintf(w, "\n%s\n", rep.Summary)
}

func (r batchReport) historyRun(started time.Time, took time.Duration) history.Run {
	run := history.Run{
		StartedAt: started,
		Duration:  took,
		Format:    r.Format,
		OutputDir: r.OutputDir,
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Canceled:  r.Canceled,
		Entries:   make([]history.Entry, 0, len(r.Files)),
	}
	for _, f := range r.Files {
		run.Entries = append(run.Entries, history.Entry{
			Input:   f.Input,
			Output:  f.Output,
			Success: f.Success,
			Kind:    f.Kind,
			Error:   f.Error,
		})
	}
	return run
}
