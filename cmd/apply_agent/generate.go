package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/extract"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/output"
	"github.com/jonathan/apply-agent/internal/parsing"
	"github.com/jonathan/apply-agent/internal/pipeline"
	"github.com/jonathan/apply-agent/internal/store"
	"github.com/jonathan/apply-agent/internal/types"
)

var (
	genConfigPath string
	genURL        string
	genCVPath     string
	genPosition   string
	genNotes      string
	genOutputDir  string
	genUseBrowser bool
	genVerbose    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate application artifacts for one company",
	Long: `Fetch a company website, summarize it, and generate a short cover letter,
a medium cover letter, and a LinkedIn message in a single run. Artifacts are
written to a timestamped directory under the output directory.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genURL, "url", "u", "", "Company website URL (required)")
	generateCmd.Flags().StringVar(&genCVPath, "cv", "", "Path to a CV file (pdf, docx, or txt)")
	generateCmd.Flags().StringVarP(&genPosition, "position", "p", "", "Position title to target")
	generateCmd.Flags().StringVar(&genNotes, "notes", "", "Extra notes to weave into the letters")
	generateCmd.Flags().StringVarP(&genOutputDir, "output", "o", "", "Directory to write artifacts under")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for JavaScript-rendered sites (requires Chrome)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed progress information")
	_ = generateCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadServiceConfig(genConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = genOutputDir
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = genUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	cvs := store.NewCVStore()
	if genCVPath != "" {
		if err := loadCV(ctx, client, cvs, genCVPath); err != nil {
			return err
		}
	}

	runner := pipeline.NewRunner(client, cvs, output.NewWriter(cfg.OutputDir))
	runner.Fetch = cfg.FetchOptions()
	runner.Verbose = cfg.Verbose
	if !cfg.Verbose {
		// Verbose runs print their own detailed progress
		runner.OnProgress = func(ev pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stdout, "[%s] %s\n", ev.Stage, ev.Message)
		}
	}

	result, err := runner.Run(ctx, types.GenerationRequest{
		CompanyURL:    genURL,
		PositionTitle: genPosition,
		Notes:         genNotes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Artifacts written to %s\n", result.OutputDir)
	return nil
}

// loadCV extracts and stores a CV profile from a local file. Structured
// extraction failures fall back to the raw text, matching the upload endpoint.
func loadCV(ctx context.Context, client llm.Client, cvs *store.CVStore, path string) error {
	format, err := extract.FormatFromFilename(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	text, err := extract.Text(data, format)
	if err != nil {
		return err
	}

	profile, err := parsing.BuildProfile(ctx, client, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CV profile extraction failed, using raw text: %v\n", err)
		profile = parsing.FallbackProfile(text)
	}
	cvs.Set(profile)
	return nil
}
