package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"engezna/internal/config"
	"engezna/internal/logging"
	"engezna/internal/model"
	"engezna/internal/service/excel"
)

type rootOptions struct {
	verbose   bool
	pretty    bool
	output    string
	threshold float64
	category  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "catalog-extract",
		Short:         "Extract a product catalog from a spreadsheet",
		Long:          "Detects product, price and variant columns in every sheet of an .xlsx workbook and prints the merged catalog as JSON.",
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log per-sheet detection to stderr")
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "write JSON to this file instead of stdout")
	cmd.PersistentFlags().Float64Var(&opts.threshold, "threshold", defaults.Import.ConfidenceThreshold, "confidence below which a review suggestion is added")
	cmd.PersistentFlags().StringVar(&opts.category, "default-category", defaults.Import.DefaultCategory, "category for rows without one")

	cmd.AddCommand(newExtractCmd(opts), newDetectCmd(opts), newPatternsCmd(opts))
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) zerolog.Logger {
	if !o.verbose {
		return logging.Nop()
	}
	return logging.New(logging.Config{Level: "debug", Format: "console", Output: cmd.ErrOrStderr()})
}

func (o *rootOptions) extractor(cmd *cobra.Command) *excel.Extractor {
	return excel.NewExtractor(excel.ExtractorOptions{
		LowConfidence:   o.threshold,
		DefaultCategory: o.category,
		Logger:          o.logger(cmd),
	})
}

// readSheets loads every worksheet of the workbook at path
func readSheets(path string) ([]model.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return excel.ReadWorkbook(f)
}

// writeJSON writes v to --output or the command's stdout
func (o *rootOptions) writeJSON(cmd *cobra.Command, v any) error {
	var out io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
