package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/records/internal/cli/config"
	"github.com/conduit-lang/records/internal/cli/ui"
	"github.com/conduit-lang/records/internal/declare"
	"github.com/conduit-lang/records/pkg/record"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// session is the state shared by the subcommands of one invocation
type session struct {
	configPath string
	noColor    bool
	logLevel   string

	cfg     *config.Config
	options record.Options
	logger  *zap.Logger
}

// reportedError is an error whose diagnostic has already been written
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "records",
		Short: "Declare and inspect record types",
		Long: color.CyanString(`records - declarative record types

Record types are declared in YAML files: named, typed fields with defaults,
single or multiple inheritance, and a policy selecting the synthesized
constructor, representation, equality, ordering and hashing.

Examples:
  records check shapes.yaml
  records fields shapes.yaml Point
  records new shapes.yaml Point 3 y=4`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (default: ./records.yaml)")
	flags.BoolVar(&s.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCompletionCommand())
	rootCmd.AddCommand(newCheckCommand(s))
	rootCmd.AddCommand(newFieldsCommand(s))
	rootCmd.AddCommand(newNewCommand(s))

	return rootCmd
}

// setup loads the configuration and installs the engine logger
func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, s.noColor))
		return &reportedError{err: err}
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	if cfg.UI.NoColor {
		s.noColor = true
	}

	opts, err := cfg.Policy.Options()
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.options = opts
	s.logger = logger
	record.SetLogger(logger)
	return nil
}

// load declares the configured declaration files, then files, into one
// registry. Diagnostics for a failing file are written to w.
func (s *session) load(w io.Writer, files ...string) (*declare.Loader, error) {
	loader := declare.NewLoader(nil, s.options)
	all := append(append([]string(nil), s.cfg.Declarations...), files...)
	for _, file := range all {
		types, err := loader.LoadFile(file)
		if err != nil {
			s.reportLoadError(w, err)
			return nil, &reportedError{err: err}
		}
		s.logger.Debug("loaded declarations",
			zap.String("file", file),
			zap.Int("types", len(types)))
	}
	return loader, nil
}

func (s *session) reportLoadError(w io.Writer, err error) {
	var suggestions []string
	var unknown *declare.UnknownNameError
	if errors.As(err, &unknown) {
		suggestions = ui.FindSimilar(unknown.Name, unknown.Known, nil)
	}
	fmt.Fprint(w, ui.DeclarationError(err.Error(), "", suggestions, s.noColor))
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the records version, Git commit, build date, and Go version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(out, "records version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
