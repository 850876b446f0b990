package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"quotemark/internal/model"
	"quotemark/internal/pipeline"
)

var (
	outPDF          string
	reportJSON      string
	candidatesFile  string
	llmProvider     string
	llmModel        string
	llmTimeout      time.Duration
	maxPerPage      int
	maxTotal        int
	fuzzyThreshold  float64
	minWindow       int
	workers         int
	noCache         bool
	noAnnotate      bool
	fullContext     bool
	maxContextChars int
)

// highlightCmd represents the highlight command
var highlightCmd = &cobra.Command{
	Use:   "highlight <input.pdf>",
	Short: "Find key quotes in a PDF and write a highlighted copy",
	Long: `Highlight runs the full pipeline on one document:
- Extract text from every page
- Collect candidate quotes (LLM provider or --candidates file)
- Locate each quote on its page, tolerating extraction noise
- Write highlight annotations into a copy of the PDF
- Report what matched, how, and what did not

Example:
  quotemark highlight slides.pdf --provider openai
  quotemark highlight slides.pdf --candidates quotes.json -o marked.pdf
  quotemark highlight slides.pdf --provider ollama --model llama3.2 --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)

	// Output flags
	highlightCmd.Flags().StringVarP(&outPDF, "output", "o", "", "output PDF path (default: <input>_highlighted.pdf)")
	highlightCmd.Flags().StringVar(&reportJSON, "json", "", "write full JSON report to this path")
	highlightCmd.Flags().BoolVar(&noAnnotate, "no-annotate", false, "report matches only, do not write a PDF")

	// Candidate source flags
	highlightCmd.Flags().StringVar(&candidatesFile, "candidates", "", "read candidates from a JSON file instead of an LLM")
	highlightCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	highlightCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default when empty)")
	highlightCmd.Flags().DurationVar(&llmTimeout, "timeout", 30*time.Second, "per-page LLM request timeout")
	highlightCmd.Flags().IntVar(&maxPerPage, "max-per-page", 7, "max candidates kept per page")
	highlightCmd.Flags().IntVar(&maxTotal, "max-total", 0, "max candidates kept per document (0 = unlimited)")
	highlightCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the LLM response cache")
	highlightCmd.Flags().BoolVar(&fullContext, "full-context", false, "extract with one LLM call over the whole document")
	highlightCmd.Flags().IntVar(&maxContextChars, "max-context-chars", 120000, "document size limit for --full-context before falling back to per-page")

	// Matcher flags
	highlightCmd.Flags().Float64Var(&fuzzyThreshold, "threshold", 0.65, "minimum line similarity for a fuzzy match")
	highlightCmd.Flags().IntVar(&minWindow, "min-window", 4, "smallest chunk window in words")

	highlightCmd.Flags().IntVar(&workers, "concurrency", 0, "concurrent page workers (0 = number of CPUs)")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	input := args[0]

	if candidatesFile == "" && llmProvider == "" {
		return fmt.Errorf("no candidate source: pass --provider or --candidates")
	}

	cfg, err := buildRunConfig(cmd.Flags())
	if err != nil {
		return err
	}

	if candidatesFile == "" {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if err := resolveAPIKey(cfg); err != nil {
			return err
		}
	}

	output := outPDF
	if output == "" {
		output = defaultOutputPath(input)
	}
	if noAnnotate {
		output = ""
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := p.Run(ctx, pipeline.Options{
		InputPDF:       input,
		OutputPDF:      output,
		CandidatesFile: candidatesFile,
	})
	if err != nil {
		return fmt.Errorf("highlight failed: %w", err)
	}

	if reportJSON != "" {
		if err := pipeline.WriteReportJSON(reportJSON, report); err != nil {
			return err
		}
	}

	pipeline.RenderSummary(os.Stdout, report, verbose)
	return nil
}

// buildRunConfig assembles the run configuration in the documented order:
// defaults, then the viper-loaded config file and QUOTEMARK_* environment,
// then only the flags the user actually set on the command line.
func buildRunConfig(flags *pflag.FlagSet) (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file keys use the same yaml names the structs declare.
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flags.Changed("threshold") {
		cfg.Match.FuzzyThreshold = fuzzyThreshold
	}
	if flags.Changed("min-window") {
		cfg.Match.MinWindow = minWindow
	}
	if flags.Changed("timeout") {
		cfg.LLM.Timeout = int(llmTimeout.Seconds())
	}
	if flags.Changed("max-per-page") {
		cfg.LLM.MaxPerPage = maxPerPage
	}
	if flags.Changed("max-total") {
		cfg.LLM.MaxTotal = maxTotal
	}
	if flags.Changed("full-context") {
		cfg.LLM.FullContext = fullContext
	}
	if flags.Changed("max-context-chars") {
		cfg.LLM.MaxContextChars = maxContextChars
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}

	if cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".quotemark", "cache")
		}
	}
	return cfg, nil
}

// resolveAPIKey fills in the provider's API key from the environment.
func resolveAPIKey(cfg *model.Config) error {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// defaultOutputPath derives <input>_highlighted.pdf next to the input.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_highlighted" + ext
}
