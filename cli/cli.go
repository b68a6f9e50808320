package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sokinpui/brn.go/internal/config"
	"github.com/sokinpui/brn.go/internal/transform"
	"github.com/sokinpui/brn.go/internal/ui"
)

// Config holds all the command-line flag values.
type Config struct {
	ConfigFile  string
	HistoryFile string
	Color       string

	Pattern     string
	Recursive   bool
	Stdin       bool
	Copy        bool
	Yes         bool
	NoAnimation bool
	Limit       int

	Options transform.Options

	mode       string
	caseMode   string
	timeSource string
	ignoreCase bool
}

// addGlobalFlags registers flags shared by every command.
func addGlobalFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to the configuration file (default: <user config dir>/brn/config.yaml).")
	fs.StringVar(&cfg.HistoryFile, "history-file", "", "Path to the history file (default: ~/.batch_renamer_history.json).")
	fs.StringVar(&cfg.Color, "color", string(config.ColorAuto), "Colored output: auto, always or never.")
}

// addDiscoveryFlags registers the file selection flags.
func addDiscoveryFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Pattern, "pattern", "p", "*", "Shell glob matched against file names (e.g. '*.jpg').")
	fs.BoolVarP(&cfg.Recursive, "recursive", "r", false, "Include files in subdirectories.")
}

// addModeFlags registers the naming mode and its parameters.
func addModeFlags(fs *pflag.FlagSet, cfg *Config) {
	o := &cfg.Options
	d := transform.DefaultOptions()

	modes := make([]string, len(transform.Modes))
	for i, m := range transform.Modes {
		modes[i] = string(m)
	}
	fs.StringVarP(&cfg.mode, "mode", "m", string(d.Mode), "Naming mode: "+strings.Join(modes, ", ")+".")

	fs.StringVar(&o.Prefix, "prefix", "", "Text placed before the name (prefix, number and datetime modes).")
	fs.StringVar(&o.Suffix, "suffix", "", "Text placed before the extension (suffix and datetime modes).")

	fs.StringVar(&o.Find, "find", "", "Text or pattern to replace (replace mode).")
	fs.StringVar(&o.ReplaceWith, "replace", "", "Replacement text; $1 refers to regex groups (replace mode).")
	fs.BoolVar(&o.Regex, "regex", false, "Treat --find as a regular expression.")
	fs.BoolVarP(&cfg.ignoreCase, "ignore-case", "i", false, "Match --find case-insensitively.")

	fs.IntVar(&o.Start, "start", d.Start, "First number (number mode).")
	fs.IntVar(&o.Digits, "digits", d.Digits, "Zero-padded width of the number (number mode).")
	fs.BoolVar(&o.KeepOriginal, "keep-original", false, "Keep the original name after the number or date.")

	fs.StringVar(&cfg.caseMode, "case", string(d.Case), "Case conversion: lower, upper, title or sentence (case mode).")

	fs.StringVar(&o.DateFormat, "date-format", d.DateFormat, "strftime format of the date (datetime mode).")
	fs.StringVar(&cfg.timeSource, "time-source", string(d.TimeSource), "Timestamp to use: modified or changed (datetime mode).")

	fs.BoolVar(&o.RemoveSpaces, "remove-spaces", false, "Remove spaces from the name (remove mode).")
	fs.BoolVar(&o.RemoveSpecial, "remove-special", false, "Remove characters other than letters, digits, '_' and '-' (remove mode).")
	fs.StringVar(&o.RemoveChars, "remove-chars", "", "Remove each of these characters (remove mode).")

	fs.StringVar(&o.InsertText, "insert", "", "Text to insert (insert mode).")
	fs.IntVar(&o.Position, "position", 0, "Insert position in characters; 0 is the start, -1 is before the extension.")

	fs.IntVar(&o.MaxLength, "max-length", d.MaxLength, "Maximum name length without extension (truncate mode).")
	fs.BoolVar(&o.FromEnd, "from-end", false, "Keep the end of the name instead of the start (truncate mode).")
}

// resolve validates the raw flag values and merges the configuration file
// underneath the flags that were not given explicitly.
func (cfg *Config) resolve(fs *pflag.FlagSet) error {
	path := cfg.ConfigFile
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	file, err := config.Load(path)
	if err != nil {
		return err
	}

	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if !changed("history-file") {
		cfg.HistoryFile = file.HistoryFile
	}
	if !changed("pattern") {
		cfg.Pattern = file.Pattern
	}
	if !changed("recursive") {
		cfg.Recursive = file.Recursive
	}
	if !changed("date-format") {
		cfg.Options.DateFormat = file.DateFormat
	}
	if !changed("no-animation") {
		cfg.NoAnimation = file.NoAnimation
	}

	colorMode := file.Color
	if changed("color") {
		if colorMode, err = config.ParseColorMode(cfg.Color); err != nil {
			return err
		}
	}
	applyColor(colorMode)

	if fs.Lookup("mode") == nil {
		return nil
	}
	if cfg.Options.Mode, err = transform.ParseMode(cfg.mode); err != nil {
		return err
	}
	if cfg.Options.Case, err = transform.ParseCaseMode(cfg.caseMode); err != nil {
		return err
	}
	if cfg.Options.TimeSource, err = transform.ParseTimeSource(cfg.timeSource); err != nil {
		return err
	}
	cfg.Options.CaseSensitive = !cfg.ignoreCase
	return nil
}

func applyColor(mode config.ColorMode) {
	switch mode {
	case config.ColorAlways:
		ui.SetColor(true)
	case config.ColorNever:
		ui.SetColor(false)
	default:
		if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr) {
			ui.SetColor(false)
		}
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute builds the command tree and runs it with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the brn command tree.
func NewRootCommand() *cobra.Command {
	cfg := &Config{Options: transform.DefaultOptions()}

	root := &cobra.Command{
		Use:   "brn",
		Short: "Batch rename files with preview and undo",
		Long: "brn renames groups of files with one naming rule, shows the result before\n" +
			"touching anything, and can undo the most recent batch.",
		Example: "  brn preview ~/photos -p '*.jpg' -m number --prefix trip_\n" +
			"  brn apply ~/photos -p '*.jpg' -m number --prefix trip_\n" +
			"  brn undo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		newListCommand(cfg),
		newPreviewCommand(cfg),
		newApplyCommand(cfg),
		newUndoCommand(cfg),
		newHistoryCommand(cfg),
		newClearHistoryCommand(cfg),
	)
	return root
}

func requireDirOrStdin(cfg *Config) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if cfg.Stdin && len(args) > 0 {
			return fmt.Errorf("a directory cannot be combined with --stdin")
		}
		return cobra.MaximumNArgs(1)(cmd, args)
	}
}
