package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Filtering
	maxSizeMB    int64
	maxDepth     int
	includeExts  string
	excludeExts  string
	excludePaths string
	namePattern  string
	noHidden     bool
	noIgnore     bool

	// Search
	searchText    string
	caseSensitive bool
	contextLines  int

	// Output
	sortOutput    bool
	outputFile    string
	printToStdout bool
	pdfOutputFile string

	// Processing
	numThreads int
	verbose    bool

	// Token counting
	countTokens    bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Interactive mode
	interactiveMode bool
)

// version is set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "yoink [PATH]",
	Short: "Quickly grab text content into your clipboard",
	Long: `Yoink walks a directory (or takes a single file), figures out which files
are text and which are binary, and copies a directory tree plus every text
file's content to your clipboard in one shot. With --search it copies match
locations with context instead of full contents.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := "."
		if len(args) == 1 {
			rootPath = args[0]
		}

		if viper.GetBool("interactive") {
			picked, err := pickRootInteractively(viper.GetBool("no_hidden"))
			if err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
			if picked == "" {
				return nil // user aborted
			}
			rootPath = picked
		}

		// Read everything back through viper so config-file and YOINK_*
		// values reach the run when the flag is unset.
		outputFile = viper.GetString("file")
		printToStdout = viper.GetBool("print")
		pdfOutputFile = viper.GetString("pdf")
		tokenizerType = viper.GetString("tokenizer")
		tokenizerModel = viper.GetString("model")
		tokenizerFile = viper.GetString("tokenizer_file")

		cfg := buildRunConfig(viper.GetViper(), rootPath)

		extra, err := loadLanguageExtensions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load language definitions: %v\n", err)
		} else {
			if len(extra) > 0 && cfg.Verbose {
				fmt.Fprintf(os.Stderr, "Loaded %d extra text extensions from languages.yml\n", len(extra))
			}
			cfg.ExtraTextExts = extra
		}

		if err := cfg.validate(); err != nil {
			return err
		}

		return run(cfg)
	},
}

// buildRunConfig assembles the run configuration from the effective viper
// values. Every flag is bound, so precedence is flag > YOINK_* env > config
// file > flag default.
func buildRunConfig(v *viper.Viper, rootPath string) *RunConfig {
	return &RunConfig{
		RootPath:      expandHome(rootPath),
		MaxSize:       v.GetInt64("max_size") * 1024 * 1024,
		MaxDepth:      v.GetInt("depth"),
		IncludeExts:   parseExtensionSet(v.GetString("extensions")),
		ExcludeExts:   parseExtensionSet(v.GetString("exclude")),
		ExcludePaths:  parsePathSet(v.GetString("exclude_paths")),
		Pattern:       v.GetString("pattern"),
		SkipHidden:    v.GetBool("no_hidden"),
		NoIgnore:      v.GetBool("no_ignore"),
		Sort:          v.GetBool("sort"),
		SearchText:    v.GetString("search"),
		CaseSensitive: v.GetBool("case_sensitive"),
		ContextLines:  v.GetInt("context"),
		NumThreads:    v.GetInt("threads"),
		Verbose:       v.GetBool("verbose"),
		CountTokens:   v.GetBool("tokens"),
	}
}

// run executes the full pipeline for a validated configuration.
func run(cfg *RunConfig) error {
	rootInfo, err := os.Stat(cfg.RootPath)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", cfg.RootPath, err)
	}
	rootIsDir := rootInfo.IsDir()

	entries, walkErrs := collectEntries(cfg)
	if cfg.Verbose {
		for _, werr := range walkErrs {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", werr)
		}
	}
	if len(entries) == 0 {
		color.Yellow("No files found")
		return nil
	}

	var tk Tokenizer
	if cfg.CountTokens {
		tk, err = newTokenizer(tokenizerType, tokenizerModel, tokenizerFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: token counting disabled: %v\n", err)
			cfg.CountTokens = false
		} else {
			defer tk.Close()
		}
	}

	sink := newProgressSink(len(entries))
	results, err := processEntries(context.Background(), entries, cfg, tk, sink)
	if err != nil {
		return err
	}

	report := aggregate(results, entries, cfg, rootIsDir, len(walkErrs))

	if pdfOutputFile != "" {
		if err := generatePDF(report, results, cfg, pdfOutputFile); err != nil {
			return err
		}
		fmt.Printf("Output saved to %s\n", pdfOutputFile)
		printRunSummary(report, cfg, "")
		return nil
	}

	text := renderReport(report, cfg)

	switch {
	case outputFile != "":
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outputFile, err)
		}
		printRunSummary(report, cfg, fmt.Sprintf("Output saved to %s", outputFile))
	case printToStdout:
		fmt.Print(text)
		printRunSummary(report, cfg, "")
	default:
		var cb ClipboardWriter = systemClipboard{}
		if err := cb.Write(text); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
			fmt.Println("\n--- Output (clipboard failed) ---")
			fmt.Print(text)
			return nil
		}
		printRunSummary(report, cfg, "Content copied to clipboard")
	}
	return nil
}

// printRunSummary prints the reference-style colored status lines.
func printRunSummary(report *AggregateReport, cfg *RunConfig, destination string) {
	if report.TextCount > 0 {
		noun := "text files!"
		if report.TextCount == 1 {
			noun = "text file!"
		}
		fmt.Printf("%s %s %d %s\n",
			color.GreenString("✨"),
			color.New(color.FgGreen, color.Bold).Sprint("Yoinked"),
			report.TextCount,
			color.GreenString(noun))
	}
	if report.BinaryCount > 0 {
		noun := "binary files were skipped"
		if report.BinaryCount == 1 {
			noun = "binary file was skipped"
		}
		fmt.Printf("%s %d %s\n", color.YellowString("📊"), report.BinaryCount, color.YellowString(noun))
	}
	if report.ErrorCount > 0 {
		fmt.Printf("%s %d %s\n", color.RedString("⚠"), report.ErrorCount, color.RedString("files could not be read"))
	}
	if cfg.CountTokens {
		fmt.Printf("%s %d tokens total\n", color.CyanString("🔢"), report.TotalTokens)
	}
	if destination != "" {
		fmt.Printf("%s %s\n", color.CyanString("📋"), destination)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Filtering
	rootCmd.Flags().Int64VarP(&maxSizeMB, "max-size", "m", 10, "Maximum file size in MB to consider")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", -1, "Maximum directory depth to traverse (0 means the root only)")
	viper.BindPFlag("depth", rootCmd.Flags().Lookup("depth"))
	rootCmd.Flags().StringVarP(&includeExts, "extensions", "e", "", `File extensions to include (comma-separated, e.g. "txt,md,go")`)
	viper.BindPFlag("extensions", rootCmd.Flags().Lookup("extensions"))
	rootCmd.Flags().StringVarP(&excludeExts, "exclude", "x", "", "File extensions to exclude (comma-separated)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().StringVar(&excludePaths, "exclude-paths", "", "Paths to exclude (comma-separated, exact names, not patterns)")
	viper.BindPFlag("exclude_paths", rootCmd.Flags().Lookup("exclude-paths"))
	rootCmd.Flags().StringVarP(&namePattern, "pattern", "p", "", "Glob pattern for filenames (e.g. *.txt)")
	viper.BindPFlag("pattern", rootCmd.Flags().Lookup("pattern"))
	rootCmd.Flags().BoolVarP(&noHidden, "no-hidden", "H", false, "Skip hidden files and directories")
	viper.BindPFlag("no_hidden", rootCmd.Flags().Lookup("no-hidden"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect the root .gitignore file")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Search
	rootCmd.Flags().StringVar(&searchText, "search", "", "Copy search matches with context instead of full contents")
	viper.BindPFlag("search", rootCmd.Flags().Lookup("search"))
	rootCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match the search pattern case-sensitively")
	viper.BindPFlag("case_sensitive", rootCmd.Flags().Lookup("case-sensitive"))
	rootCmd.Flags().IntVar(&contextLines, "context", defaultContextLines, "Lines of context around each search match")
	viper.BindPFlag("context", rootCmd.Flags().Lookup("context"))

	// Output
	rootCmd.Flags().BoolVarP(&sortOutput, "sort", "s", false, "Sort files by name before output")
	viper.BindPFlag("sort", rootCmd.Flags().Lookup("sort"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Save output to the specified file instead of the clipboard")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVar(&printToStdout, "print", false, "Print output to stdout instead of the clipboard")
	viper.BindPFlag("print", rootCmd.Flags().Lookup("print"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save output as a syntax-highlighted PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Processing
	rootCmd.Flags().IntVarP(&numThreads, "threads", "t", 0, "Number of worker threads (0 for auto)")
	viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	// Token counting
	rootCmd.Flags().BoolVar(&countTokens, "tokens", false, "Count tokens per text file and in the summary")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Interactive mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the root path with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	viper.SetDefault("max_size", 10)
	viper.SetDefault("depth", -1)
	viper.SetDefault("context", defaultContextLines)
	viper.SetDefault("tokenizer", "tiktoken")
}

// initConfig reads the config file and YOINK_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "yoink"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("YOINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

// expandHome resolves a leading ~ in the root path.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.RedString("Error"), err)
		os.Exit(1)
	}
}
