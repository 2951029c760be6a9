package commands

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/aepdoc/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aepdoc",
		Short: "Resource-oriented OpenAPI documentation generator",
		Long: color.CyanString(`aepdoc - resource-oriented API documentation

aepdoc reads a schema of resource models and operations, derives
AEP-style metadata for them and emits OpenAPI 3 documents.

Derived for every resource:
  • Path patterns from the parent chain
  • Operation IDs, tags, summaries and descriptions
  • Request and response examples, including standard errors`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to aepdoc.yaml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewCompletionCommand())
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the aepdoc version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			info := ui.NewFields(cmd.OutOrStdout(), noColor)
			info.Add("aepdoc version", Version)
			info.Add("Git commit", GitCommit)
			info.Add("Build date", BuildDate)
			info.Add("Go version", goVer)
			info.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var cfgErr *configError
		if errors.As(err, &cfgErr) {
			rootCmd.PrintErr(ui.ConfigError(cfgErr.Error(), noColor))
			return err
		}
		rootCmd.PrintErr(ui.FormatCommandError(err, noColor))
		return err
	}
	return nil
}
