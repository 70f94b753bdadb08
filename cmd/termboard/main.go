package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "termboard",
		Short: "A launcher grid for the terminal with drag-to-rearrange icons",
		Long: `termboard shows a grid of app icons. Long-press an icon to enter edit
mode, then drag icons to rearrange them. Tap an empty spot or press Done to
leave edit mode.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (default: ~/.config/termboard/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newRunCmd(opts),
		newLayoutCmd(opts),
		newReplayCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// load reads the config named by --config or the default file.
func (o *rootOptions) load() (*config.LoadResult, error) {
	if o.configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(o.configPath)
}

// setupLogging points the shared logger at the configured sink.
func (o *rootOptions) setupLogging(cfg *config.Config) error {
	opts := logging.OptionsFromConfig(cfg)
	if o.verbose {
		opts.Level = "debug"
	}
	if err := logging.Configure(opts); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}

func printWarnings(cmd *cobra.Command, res *config.LoadResult) {
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
