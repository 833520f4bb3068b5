package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/newslens/internal/app"
	"github.com/hyperifyio/newslens/internal/pipeline"
	"github.com/hyperifyio/newslens/internal/report"
)

var (
	outputPath string
	pdfPath    string
	asJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze one article and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init app: %w", err)
		}
		defer a.Close()

		rep, runErr := a.Run(ctx, args[0])
		if errors.Is(runErr, pipeline.ErrBlankURL) {
			return runErr
		}
		if err := writeReport(cmd, rep); err != nil {
			return err
		}
		return runErr
	},
}

func writeReport(cmd *cobra.Command, rep pipeline.Report) error {
	md := report.Markdown(rep)
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.ToJSON(rep)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	} else if outputPath == "" {
		if _, err := fmt.Fprint(out, md); err != nil {
			return err
		}
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("path", outputPath).Msg("report written")
	}
	if pdfPath != "" && !rep.Article.Failed() {
		var buf bytes.Buffer
		if err := report.WritePDF(&buf, md); err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := os.WriteFile(pdfPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", pdfPath).Msg("pdf written")
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the Markdown report to this path instead of stdout")
	analyzeCmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write a PDF rendering to this path")
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
