package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	fileconverter "github.com/nicholasgasior/fileconverter-go"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the output formats per category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printFormats(cmd.OutOrStdout(), fileconverter.New())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func printFormats(w io.Writer, eng *fileconverter.Engine) {
	grouped := eng.Registry().OutputFormatsByCategory()
	for _, cat := range fileconverter.Categories {
		formats, ok := grouped[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-9s %s\n", cat.String()+":", strings.Join(formats, ", "))
	}
}
