// Package cli defines the logtrim command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/logtrim/internal/version"
	"github.com/arthur-debert/logtrim/pkg/config"
	"github.com/arthur-debert/logtrim/pkg/logging"
	"github.com/arthur-debert/logtrim/pkg/paths"
	"github.com/arthur-debert/logtrim/pkg/reduce"
	"github.com/arthur-debert/logtrim/pkg/style"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		storePath  string
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "logtrim",
		Short: "Reduce huge build logs to their novel lines",
		Long: `logtrim simplifies a build log from hundreds of megabytes down to the
handful of lines that are actually novel. Recognized messages are matched
against an ordered, human-curated exemption store; everything else is
printed as candidate novel content.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		// A bare log argument runs report, the default mode.
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runReport(args[0], storePath, configPath)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Path of the exemption store (default: LOGTRIM_STORE or the XDG config location)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: LOGTRIM_CONFIG or logtrim.toml in the XDG config dir)")

	rootCmd.AddCommand(newReportCmd(&storePath, &configPath))
	rootCmd.AddCommand(newValidateCmd(&storePath, &configPath))
	rootCmd.AddCommand(newUpdateCmd(&storePath, &configPath))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))

	return rootCmd
}

// buildOptions resolves flags into reduce options. The store location is
// the flag, else store.path from the merged config (which includes the
// LOGTRIM_STORE override), else the default search.
func buildOptions(logPath, storePath, configPath string) (reduce.Options, error) {
	if configPath == "" {
		configPath = paths.FindConfigFile()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return reduce.Options{}, err
	}
	if storePath == "" {
		storePath = cfg.Store.Path
	}
	if storePath == "" {
		storePath = paths.DefaultStorePath()
	}
	return reduce.Options{
		LogPath:   logPath,
		StorePath: storePath,
		Config:    cfg,
	}, nil
}

func newReportCmd(storePath, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report <log-file>",
		Short: "Print the novel lines of a build log",
		Long: `Report reduces the given log and prints the residual lines: everything
that survived filtering and matched no exemption. Residual content here
is expected output, not an error.`,
		Example: `  # Reduce a log to its novel content
  logtrim report build.log

  # Use a specific exemption store
  logtrim report build.log --store messages.ignore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(args[0], *storePath, *configPath)
		},
	}
}

func runReport(logPath, storePath, configPath string) error {
	opts, err := buildOptions(logPath, storePath, configPath)
	if err != nil {
		return err
	}
	result, err := reduce.Report(opts)
	if err != nil {
		return err
	}
	if len(result.Residual) > 0 {
		fmt.Println(strings.Join(result.Residual, "\n"))
	}
	return nil
}

func newValidateCmd(storePath, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <log-file>",
		Short: "Fail if the log contains unrecognized messages",
		Long: `Validate reduces the given log with ambiguity checking enabled and
fails when any residual content remains. A directly mergeable suggestion
file is written alongside the log so a reviewer can exempt the new
messages deliberately.`,
		Example: `  # Gate a CI build on zero new messages
  logtrim validate build.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(args[0], *storePath, *configPath)
			if err != nil {
				return err
			}
			result, err := reduce.Validate(opts)
			if err != nil {
				return err
			}
			if len(result.Residual) == 0 {
				return nil
			}
			renderer := style.NewRenderer(os.Stdout)
			fmt.Println(renderer.RenderValidationFailure(
				opts.LogPath, opts.StorePath, result.SuggestionPath, result.Residual))
			return fmt.Errorf("found %d new messages in %s", len(result.Residual), opts.LogPath)
		},
	}
}

func newUpdateCmd(storePath, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "update <log-file>",
		Short: "Add exemptions for all messages in the log",
		Long: `Update reduces the given log and overwrites the exemption store in
place, inserting generalized patterns for every residual line at
positions that preserve the store's grouping.`,
		Example: `  # Exempt all current messages
  logtrim update build.log --store messages.ignore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(args[0], *storePath, *configPath)
			if err != nil {
				return err
			}
			result, err := reduce.Update(opts)
			if err != nil {
				return err
			}
			renderer := style.NewRenderer(os.Stdout)
			fmt.Println(renderer.RenderUpdateSummary(opts.StorePath, result.StoreUpdated))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("logtrim version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "man <directory>",
		Short:  "Generate man pages",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "LOGTRIM",
				Section: "1",
			}
			return doc.GenManTree(rootCmd, header, args[0])
		},
	}
}
