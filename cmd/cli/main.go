package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ocev/adapters/excel"
	"ocev/domain/evidence"
	"ocev/internal/config"
	"ocev/internal/container"
	"ocev/internal/report"
	"ocev/internal/testkit"
	"ocev/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ocev-cli",
		Short: "OCEV CLI for one-shot evidence validation runs",
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var evidenceType string
	var format string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a CSV or Excel evidence file and print the report",
		Long: `Derive evidence records from a tabular file, run them through the
ontology projection and constraint validation pipeline, and print the
resulting report.

Example: ocev-cli validate trial.csv --type t-test --format md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			testType := evidence.ParseTestType(evidenceType)
			if !testType.Known() {
				return fmt.Errorf("unsupported evidence type: %s", evidenceType)
			}

			reader := excel.NewDataReader(args[0])
			records, err := reader.ReadRecords(args[0], testType)
			if err != nil {
				return err
			}
			return runValidation(cmd.Context(), records, testType, format)
		},
	}

	cmd.Flags().StringVar(&evidenceType, "type", "t-test", "Evidence type: t-test, chi-square, logistic-regression, kaplan-meier")
	cmd.Flags().StringVar(&format, "format", "md", "Report format: json, md, ttl")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	var evidenceType string
	var format string
	var nSamples int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic evidence and validate it",
		Long: `Fabricate a reproducible synthetic dataset for the given test type,
validate it, and print the resulting report.

Example: ocev-cli generate --type kaplan-meier --n 200 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			testType := evidence.ParseTestType(evidenceType)
			if !testType.Known() {
				return fmt.Errorf("unsupported evidence type: %s", evidenceType)
			}

			gen := testkit.NewGenerator(testkit.GeneratorConfig{
				NSamples:     nSamples,
				EvidenceType: testType,
				Seed:         seed,
			})
			dataset, err := gen.Generate()
			if err != nil {
				return err
			}
			return runValidation(cmd.Context(), dataset.Records, testType, format)
		},
	}

	cmd.Flags().StringVar(&evidenceType, "type", "t-test", "Evidence type: t-test, chi-square, logistic-regression, kaplan-meier")
	cmd.Flags().StringVar(&format, "format", "md", "Report format: json, md, ttl")
	cmd.Flags().IntVar(&nSamples, "n", 100, "Number of synthetic samples")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")

	return cmd
}

func runValidation(ctx context.Context, records []evidence.Record, testType evidence.TestType, format string) error {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := c.Service.ValidateRecords(ctx, records, testType)
	if err != nil {
		return err
	}
	return printReport(c.Reports, result, format)
}

func printReport(gen *report.Generator, result *ports.RunResult, format string) error {
	switch format {
	case "json":
		data, err := gen.JSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "ttl":
		fmt.Println(gen.Turtle(result))
	case "md":
		fmt.Println(gen.Markdown(result))
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	return nil
}
