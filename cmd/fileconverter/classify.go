package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Print the category of each file",
	Long: `Classify reports whether each file is an image, video, document or audio
file, by extension first and then by MIME type and content. Files need not
exist; unknown files print "unknown".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		eng := newEngine(cfg, newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose))
		for _, path := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", eng.Classify(path), path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
