package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tidy-go/internal/app"
	"tidy-go/internal/classify"
	"tidy-go/internal/config"
	"tidy-go/internal/tidy"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, tidy.ErrBusy) {
			fmt.Fprintln(os.Stderr, "Another tidy operation is already running.")
		}
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Organize", "Undo");
// mutating commands take the cross-process lock.
func newApp(operation string, mutating bool, observer tidy.Observer) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation, mutating, observer)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// pathArg returns the optional positional path, defaulting to the
// current directory.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Desktop file organizer",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:         %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:          %s\n", cfg.LogDir)
		fmt.Printf("Recurse:          %v\n", cfg.Recurse)
		fmt.Printf("Collision Policy: %s\n", cfg.CollisionPolicy)
		fmt.Printf("Large Threshold:  %d MB\n", cfg.LargeFileThresholdMB)
		fmt.Printf("Database:         %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		if len(cfg.Rules) > 0 {
			fmt.Println("\nExtension overrides:")
			for ext, cat := range cfg.Rules {
				fmt.Printf("  .%s -> %s\n", ext, cat)
			}
		}
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize [PATH]",
	Short: "Sort files into category folders",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recurse, _ := cmd.Flags().GetBool("recurse")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		collision, _ := cmd.Flags().GetString("collision")

		policy := tidy.CollisionPolicy(collision)
		if collision != "" && !policy.Valid() {
			return fmt.Errorf("invalid collision policy %q (want suffix or skip)", collision)
		}

		progress := newProgressObserver(dryRun)
		a, err := newApp("Organize", !dryRun, progress)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Organize(cmd.Context(), pathArg(args), tidy.OrganizeOptions{
			Recurse:   recurse,
			DryRun:    dryRun,
			Collision: policy,
		})
		if err != nil {
			return fmt.Errorf("organize failed: %w", err)
		}

		printOrganizeResult(result)
		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse the last organize or rename",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Undo", true, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Undo(cmd.Context())
		if errors.Is(err, tidy.ErrNothingToUndo) {
			fmt.Println("Nothing to undo.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("undo failed: %w", err)
		}

		fmt.Printf("Restored %d file(s) from %s session %s\n", result.Restored, result.Kind, result.SessionID)
		for _, f := range result.Failed {
			fmt.Printf("  could not restore %s: %s\n", f.Destination, f.Reason)
		}
		return nil
	},
}

// dup command
var dupCmd = &cobra.Command{
	Use:   "dup [PATH]",
	Short: "Find duplicate files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, _ := cmd.Flags().GetBool("delete")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp("FindDuplicates", del, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.FindDuplicates(cmd.Context(), pathArg(args))
		if err != nil {
			return err
		}

		printDuplicateReport(report)
		if !del || len(report.Groups) == 0 {
			return nil
		}

		if !yes && !confirm("Move redundant copies to trash? This cannot be undone.") {
			fmt.Println("Aborted.")
			return nil
		}

		result, err := a.DeleteDuplicates(cmd.Context(), pathArg(args))
		if err != nil {
			return fmt.Errorf("deleting duplicates: %w", err)
		}
		fmt.Printf("Moved %d file(s) to %s\n", result.Deleted, result.TrashDir)
		return nil
	},
}

// large command
var largeCmd = &cobra.Command{
	Use:   "large [PATH]",
	Short: "List large files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		thresholdMB, _ := cmd.Flags().GetInt64("threshold-mb")

		a, err := newApp("FindLargeFiles", false, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.FindLargeFiles(cmd.Context(), pathArg(args), thresholdMB*1024*1024)
		if err != nil {
			return err
		}

		printLargeFiles(entries)
		return nil
	},
}

// rename command
var renameCmd = &cobra.Command{
	Use:   "rename PATTERN [PATH]",
	Short: "Rename files to a numbered pattern",
	Long: `Rename every file directly under PATH to PATTERN with a sequential
index. '#' marks the index position and its run length sets zero-padding:
"photo_###" yields photo_001.jpg, photo_002.png, ... Extensions are kept.
The batch is all-or-nothing: any name collision aborts it before a single
file is touched.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RenameBatch", true, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		target := "."
		if len(args) > 1 {
			target = args[1]
		}

		result, err := a.RenameBatch(cmd.Context(), target, args[0])
		if err != nil {
			var collision *tidy.CollisionError
			if errors.As(err, &collision) {
				return fmt.Errorf("no files renamed: %w", collision)
			}
			return fmt.Errorf("rename failed: %w", err)
		}

		fmt.Printf("Renamed %d file(s)\n", result.Renamed)
		return nil
	},
}

// sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep [PATH]",
	Short: "Remove empty folders",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SweepEmptyDirs", true, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.SweepEmptyDirs(cmd.Context(), pathArg(args))
		if err != nil {
			return err
		}

		if len(result.Removed) == 0 {
			fmt.Println("No empty folders found.")
			return nil
		}
		for _, d := range result.Removed {
			fmt.Printf("removed %s\n", d)
		}
		fmt.Printf("Removed %d empty folder(s)\n", len(result.Removed))
		return nil
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY [PATH]",
	Short: "Find files by name",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryFlag, _ := cmd.Flags().GetString("category")

		var category classify.Category
		if categoryFlag != "" {
			category = classify.Category(categoryFlag)
			if !category.Valid() {
				return fmt.Errorf("unknown category %q (want one of %s)", categoryFlag, categoryNames())
			}
		}

		a, err := newApp("Search", false, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		target := "."
		if len(args) > 1 {
			target = args[1]
		}

		entries, err := a.Search(cmd.Context(), target, args[0], category)
		if err != nil {
			return err
		}

		printSearchResults(entries)
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats [PATH]",
	Short: "Show folder statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats", false, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Stats(cmd.Context(), pathArg(args))
		if err != nil {
			return err
		}

		printStats(stats)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History", false, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.History(limit)
		if err != nil {
			return err
		}

		printHistory(sessions)
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch [PATH]",
	Short: "Organize automatically when files arrive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recurse, _ := cmd.Flags().GetBool("recurse")

		a, err := newApp("Watch", true, tidy.NopObserver{})
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", pathArg(args))
		err = a.Watch(cmd.Context(), pathArg(args), tidy.OrganizeOptions{Recurse: recurse})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// confirm prompts on stdin and returns true only for an explicit yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func categoryNames() string {
	names := make([]string, len(classify.Categories))
	for i, c := range classify.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().BoolP("recurse", "r", false, "Recurse into subdirectories")
	organizeCmd.Flags().Bool("dry-run", false, "Report what would move without moving anything")
	organizeCmd.Flags().String("collision", "", "Collision policy: suffix or skip")
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(dupCmd)
	dupCmd.Flags().Bool("delete", false, "Move redundant copies to the trash directory")
	dupCmd.Flags().BoolP("yes", "y", false, "Skip the deletion confirmation prompt")
	rootCmd.AddCommand(largeCmd)
	largeCmd.Flags().Int64P("threshold-mb", "t", 0, "Minimum size in MB (0 = configured default)")
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("category", "c", "", "Restrict results to one category")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to show")
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolP("recurse", "r", false, "Recurse into subdirectories")
}
