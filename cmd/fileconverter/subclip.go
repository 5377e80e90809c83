package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var subclipCmd = &cobra.Command{
	Use:   "subclip --start DURATION --end DURATION INPUT OUTPUT",
	Short: "Extract a time range of a video",
	Long: `Subclip copies the range [start, end) of a video into OUTPUT with ffmpeg.
Durations use Go syntax, e.g. 90s or 1m30s.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		start, _ := cmd.Flags().GetDuration("start")
		end, _ := cmd.Flags().GetDuration("end")

		eng := newEngine(cfg, newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose))
		if err := eng.ExtractSubclip(cmd.Context(), args[0], args[1], start, end); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], (end - start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	subclipCmd.Flags().Duration("start", 0, "range start")
	subclipCmd.Flags().Duration("end", 0, "range end")
	_ = subclipCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(subclipCmd)
}
