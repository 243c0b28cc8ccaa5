package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"desksort/internal/app"
	"desksort/internal/config"
	"desksort/internal/desk"
	"desksort/internal/model"
)

var (
	outputFormat string
	verbose      bool
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newApp loads the config (defaults when no file exists) and creates an App.
// The caller must defer a.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := app.LoadConfig(defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	if a.FirstRun() && outputFormat == outputText {
		fmt.Fprintf(os.Stderr, "Welcome to desksort. Organized files go to %s.\n", cfg.OrganizedDirName)
		fmt.Fprintln(os.Stderr, "Run `desksort preview` to see what would move, and `desksort undo` to reverse an organize.")
	}
	return a, nil
}

// confirm asks a yes/no question when stdin is a terminal. Without a terminal
// it answers yes, so scripted runs never block.
func confirm(in *os.File, out io.Writer, question string) bool {
	if !term.IsTerminal(int(in.Fd())) {
		return true
	}
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func settingsOf(a *app.App) model.Settings {
	if st, ok := a.Settings().Data.(model.Settings); ok {
		return st
	}
	return model.DefaultSettings()
}

var rootCmd = &cobra.Command{
	Use:           "desksort",
	Short:         "Sort desktop files into category folders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateOutputFormat()
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := app.DefaultConfig(defaults)
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Desktop:  %s\n", cfg.DesktopDir)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
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
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List desktop and organized files",
	RunE: func(cmd *cobra.Command, args []string) error {
		unorganized, _ := cmd.Flags().GetBool("unorganized")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp := a.Scan()
		if unorganized {
			resp = a.ScanUnorganized()
		}
		return render(cmd.OutOrStdout(), resp, printFiles)
	},
}

var statCmd = &cobra.Command{
	Use:   "stat PATH",
	Short: "Show details of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.FileStats(args[0]), printStat)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.Categories(), printCategories)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show how desktop files would be organized",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.Categorize(a.UnorganizedFiles()), printPreview)
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Move desktop files into category folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		dest, _ := cmd.Flags().GetString("dest")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		files := a.UnorganizedFiles()
		if len(files) == 0 {
			return render(cmd.OutOrStdout(), app.Response{Success: true}, printMessage("Desktop is already tidy."))
		}

		st := settingsOf(a)
		if !yes && st.ConfirmBeforeOrganize {
			if st.ShowPreview && outputFormat == outputText {
				printPreview(cmd.OutOrStdout(), a.Categorize(files).Data)
			}
			if !confirm(os.Stdin, cmd.OutOrStdout(), fmt.Sprintf("Organize %d file(s)?", len(files))) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		req := desk.OrganizeRequest{Files: files, Mode: mode, Destination: dest}
		return render(cmd.OutOrStdout(), a.Organize(cmd.Context(), req), printOrganize)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Move every organized file back to the desktop",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !yes && settingsOf(a).ConfirmBeforeOrganize {
			if !confirm(os.Stdin, cmd.OutOrStdout(), "Move all organized files back to the desktop?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
		return render(cmd.OutOrStdout(), a.Restore(cmd.Context()), printRestore)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move SRC DEST",
	Short: "Move one file, renaming on collision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.MoveFile(args[0], args[1]), func(w io.Writer, data any) {
			fmt.Fprintf(w, "Moved to %v\n", data)
		})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo [ID]",
	Short: "Reverse an operation (default: the most recent)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return render(cmd.OutOrStdout(), a.Undo(cmd.Context(), id), printUndo)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE:  historyListCmd.RunE,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded operations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.History(), printHistory)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.ClearHistory(), printMessage("History cleared."))
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.HistoryStats(), printHistoryStats)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find files by name prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.Search(args[0], limit), printFiles)
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change preferences",
	RunE:  settingsGetCmd.RunE,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.Settings(), printSettings)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:       "set KEY VALUE",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: app.SettingKeys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.UpdateSetting(args[0], args[1]), printSettings)
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return render(cmd.OutOrStdout(), a.ResetSettings(), printSettings)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Organize new desktop files as they appear",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", a.Config().DesktopDir)
		return a.Watch(ctx, force)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log everything to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// history subcommands
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatsCmd)

	// settings subcommands
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolP("unorganized", "u", false, "Only list files still on the desktop")
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().StringP("mode", "m", "", "move or copy (default from settings)")
	organizeCmd.Flags().StringP("dest", "d", "", "Organized folder to use instead of the default")
	organizeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", 50, "Maximum number of results")
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("force", false, "Watch even when watchEnabled is false")
}
