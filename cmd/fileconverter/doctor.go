package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fileconverter "github.com/nicholasgasior/fileconverter-go"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which external tools are installed",
	Long: `Doctor looks up ffmpeg, the office engine and ImageMagick on PATH. Formats
that depend on a missing tool fail at conversion time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		eng := newEngine(cfg, newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose))
		return printTools(cmd.OutOrStdout(), eng.CheckTools())
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func printTools(w io.Writer, tools []fileconverter.ToolStatus) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tBINARY\tSTATUS\tUSED BY")
	for _, t := range tools {
		status := "missing"
		if t.Available {
			status = "ok"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Binary, status, t.UsedBy)
	}
	return tw.Flush()
}
