// Package cli builds the cobra command tree shared by the desktop binary and
// the headless voicectl tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"voice-transcriber/internal/bootstrap"
	"voice-transcriber/internal/config"
	"voice-transcriber/internal/diagnostics"
	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/history"
	"voice-transcriber/internal/hotkeys"
	"voice-transcriber/internal/logging"
)

// Options selects the binary flavor.
type Options struct {
	// Use is the command name shown in help output.
	Use string
	// Desktop makes the root command start the Wails window.
	Desktop bool
	// RegisterHotkey backs global shortcuts in desktop mode.
	RegisterHotkey hotkeys.RegisterFunc
}

type runner struct {
	opts      Options
	logPath   string
	assetsDir string
	verbose   bool
}

// NewRootCmd returns the command tree. Without Desktop the root command only
// groups the subcommands.
func NewRootCmd(opts Options) *cobra.Command {
	r := &runner{opts: opts}
	use := opts.Use
	if use == "" {
		use = "voice-transcriber"
	}
	root := &cobra.Command{
		Use:   use,
		Short: "Hotkey driven speech-to-text with optional LLM rewriting",
		Long: `voice-transcriber records from the microphone on a global shortcut,
transcribes the clip with Groq, ElevenLabs or Google, optionally rewrites
the transcript with an LLM preset and places the result on the clipboard.

The desktop binary starts the window when run without a subcommand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&r.logPath, "log-path", "", "log directory (default: <config dir>/logs)")
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "debug logging")
	if opts.Desktop {
		root.RunE = r.runApp
		root.Flags().StringVar(&r.assetsDir, "assets", "", "serve frontend assets from this directory")
	}

	settingsCmd := &cobra.Command{Use: "settings", Short: "Inspect or reset settings"}
	settingsCmd.AddCommand(
		&cobra.Command{Use: "show", Short: "Print current settings as JSON", Args: cobra.NoArgs, RunE: r.runSettingsShow},
		&cobra.Command{Use: "restore-defaults", Short: "Overwrite settings with factory defaults", Args: cobra.NoArgs, RunE: r.runSettingsRestore},
	)

	root.AddCommand(
		&cobra.Command{Use: "history", Short: "Print the history log as JSON", Args: cobra.NoArgs, RunE: r.runHistory},
		&cobra.Command{Use: "diagnostics", Short: "Run startup diagnostics", Args: cobra.NoArgs, RunE: r.runDiagnostics},
		settingsCmd,
	)
	return root
}

// environment resolves paths, loads the .env overlay and opens the log file.
func (r *runner) environment(console io.Writer) (config.Paths, *logging.Logger, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return config.Paths{}, nil, err
	}
	if err := config.LoadEnvFile(paths); err != nil {
		return config.Paths{}, nil, err
	}
	dir, err := logging.ResolveDir(r.logPath, paths.Logs)
	if err != nil {
		return config.Paths{}, nil, fmt.Errorf("resolve log dir: %w", err)
	}
	logger, err := logging.New(logging.Options{Dir: dir, Debug: r.verbose, Console: console})
	if err != nil {
		return config.Paths{}, nil, err
	}
	return paths, logger, nil
}

func (r *runner) runApp(_ *cobra.Command, _ []string) error {
	paths, logger, err := r.environment(os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	opts := bootstrap.Options{Paths: paths, Logger: logger.Logger, RegisterHotkey: r.opts.RegisterHotkey}
	if r.assetsDir != "" {
		opts.Assets = os.DirFS(r.assetsDir)
	}
	app, err := bootstrap.New(opts)
	if err != nil {
		return fmt.Errorf("bootstrap app: %w", err)
	}
	logger.Info().Str("config_dir", paths.Dir).Msg("starting voice-transcriber")
	return app.Run()
}

func (r *runner) runHistory(cmd *cobra.Command, _ []string) error {
	paths, logger, err := r.environment(nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	records := history.NewService(paths.History, logging.Component(logger.Logger, "history")).GetRecords()
	return printJSON(cmd.OutOrStdout(), records)
}

func (r *runner) runSettingsShow(cmd *cobra.Command, _ []string) error {
	paths, logger, err := r.environment(nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	svc := config.NewService(config.NewJSONStore(paths.Settings), logging.Component(logger.Logger, "settings"))
	return printJSON(cmd.OutOrStdout(), svc.Get())
}

func (r *runner) runSettingsRestore(cmd *cobra.Command, _ []string) error {
	paths, logger, err := r.environment(nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	svc := config.NewService(config.NewJSONStore(paths.Settings), logging.Component(logger.Logger, "settings"))
	if _, err := svc.RestoreDefaults(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "restored defaults in %s\n", paths.Settings)
	return nil
}

func (r *runner) runDiagnostics(cmd *cobra.Command, _ []string) error {
	paths, logger, err := r.environment(nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	secrets, err := config.NewSecretStore(paths.Secrets, logging.Component(logger.Logger, "secrets"))
	if err != nil {
		return err
	}
	settings := config.NewService(config.NewJSONStore(paths.Settings), logging.Component(logger.Logger, "settings")).Get()
	report := diagnostics.NewChecker(secrets, filepath.Dir(paths.History)).Run(settings)

	out := cmd.OutOrStdout()
	for _, item := range report.Items {
		fmt.Fprintf(out, "[%s] %-28s %s\n", item.Status, item.Name, item.Message)
		if item.Hint != "" && item.Status != domain.DiagnosticStatusPass {
			fmt.Fprintf(out, "       hint: %s\n", item.Hint)
		}
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d checks failed", len(failed), len(report.Items))
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
