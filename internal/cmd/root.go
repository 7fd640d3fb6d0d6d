package cmd

import (
	"io"
	"os"
	"sync"

	"poseidon/internal/logging"
	"poseidon/internal/messages"
	"poseidon/internal/settings"
	"poseidon/internal/store"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once     sync.Once
	app      *App
	err      error
	closeLog func() error

	// Config captured from flags before Execute()
	Dir        string
	Prefix     string
	Types      string
	Locale     string
	LogLevel   string
	LogFile    string
	JSONOutput bool
	Out        io.Writer
	Err        io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// Close releases resources held by the App, such as the log file.
func (p *AppProvider) Close() error {
	if p.closeLog == nil {
		return nil
	}
	return p.closeLog()
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a mock/test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app:        app,
		JSONOutput: app.JSON,
		Out:        app.Out,
		Err:        app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	cfg, err := settings.Load()
	if err != nil {
		return nil, err
	}
	p.applyFlags(cfg)

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	logger, closeLog, err := logging.Setup(errOut, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	p.closeLog = closeLog

	st, err := store.New(cfg.Dir, store.Options{
		Prefix:   cfg.Prefix,
		Types:    cfg.PreloadTypes(),
		Logger:   logger,
		Messages: messages.Lookup(cfg.Locale),
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Store: st,
		Log:   logger,
		Out:   out,
		Err:   errOut,
		JSON:  p.JSONOutput,
	}, nil
}

// applyFlags overrides settings with the flags that were given.
func (p *AppProvider) applyFlags(cfg *settings.Settings) {
	if p.Dir != "" {
		cfg.Dir = p.Dir
	}
	if p.Prefix != "" {
		cfg.Prefix = p.Prefix
	}
	if p.Types != "" {
		cfg.Types = p.Types
	}
	if p.Locale != "" {
		cfg.Locale = p.Locale
	}
	if p.LogLevel != "" {
		cfg.Log.Level = p.LogLevel
	}
	if p.LogFile != "" {
		cfg.Log.File = p.LogFile
	}
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}
	defer provider.Close()

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "poseidon",
		Short: "Read and edit a directory of JSON config files",
		Long: `Poseidon manages a directory of JSON config files.

The default config lives in config.json, classified configs in
config.<type>.json and hidden configs in .config.<type>.json. Keys
starting with "_" hold relative paths, which are shown resolved against
the config directory. Saved configs can keep numbered backups named
config.<type>.<N>.backup.json.

Settings are read from poseidon.yaml in the working directory and from
POSEIDON_* environment variables; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.Dir, "dir", "", "Config directory (default: current directory, $"+settings.EnvDir+")")
	rootCmd.PersistentFlags().StringVar(&provider.Prefix, "prefix", "", "Config file name prefix (default: config)")
	rootCmd.PersistentFlags().StringVar(&provider.Types, "types", "", "Comma-separated config types to load at startup")
	rootCmd.PersistentFlags().StringVar(&provider.Locale, "locale", "", "Language of error messages (en, zh)")
	rootCmd.PersistentFlags().StringVar(&provider.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&provider.LogFile, "log-file", "", "Also write JSON logs to this file")

	// Register all commands
	rootCmd.AddCommand(newTypesCmd(provider))
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newReadCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newSaveCmd(provider))
	rootCmd.AddCommand(newBackupsCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
