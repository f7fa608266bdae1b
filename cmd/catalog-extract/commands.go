package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"engezna/internal/model"
	"engezna/internal/parser"
	"engezna/internal/service/excel"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var overridesPath, reviewPath string

	cmd := &cobra.Command{
		Use:   "extract <workbook.xlsx>",
		Short: "Extract the catalog of every sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := readSheets(args[0])
			if err != nil {
				return err
			}

			var overrides map[string]model.ManualMapping
			if overridesPath != "" {
				data, err := os.ReadFile(overridesPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &overrides); err != nil {
					return fmt.Errorf("invalid overrides file: %w", err)
				}
			}

			result, err := opts.extractor(cmd).Extract(cmd.Context(), sheets, overrides)
			if err != nil {
				return err
			}
			if reviewPath != "" {
				if err := writeReview(reviewPath, result); err != nil {
					return err
				}
			}
			return opts.writeJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "JSON file of manual mappings keyed by sheet name")
	cmd.Flags().StringVar(&reviewPath, "review-xlsx", "", "also write a review workbook to this path")
	return cmd
}

func writeReview(path string, result *model.MultiSheetResult) error {
	f, err := excel.NewExporter().Export(result)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save review workbook: %w", err)
	}
	return nil
}

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <workbook.xlsx>",
		Short: "Print column detection for every sheet without extracting rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := readSheets(args[0])
			if err != nil {
				return err
			}

			ex := opts.extractor(cmd)
			out := make(map[string]model.DetectionResult, len(sheets))
			for _, s := range sheets {
				if len(s.Headers) == 0 {
					continue
				}
				out[s.Name] = ex.Detect(s)
			}
			return opts.writeJSON(cmd, out)
		},
	}
}

func newPatternsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Print the header keywords and variant groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeJSON(cmd, parser.Snapshot())
		},
	}
}
