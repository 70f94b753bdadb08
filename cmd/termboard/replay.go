package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termboard/internal/logging"
	"github.com/1broseidon/termboard/internal/replay"
)

func newReplayCmd(opts *rootOptions) *cobra.Command {
	var logToStderr bool

	cmd := &cobra.Command{
		Use:   "replay <file.yaml>",
		Short: "Play a scripted gesture timeline headlessly and print the outcome",
		Long: `Play a scripted gesture timeline against the move-mode engine on a virtual
clock. The report lists the final app order, the edit flag and every shell
callback. When the script has an expect block, mismatches fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.load()
			if err != nil {
				return err
			}
			printWarnings(cmd, res)

			logOpts := logging.OptionsFromConfig(res.Config)
			if opts.verbose {
				logOpts.Level = "debug"
			}
			if logToStderr {
				logOpts.Output = cmd.ErrOrStderr()
			}
			if err := logging.Configure(logOpts); err != nil {
				return err
			}
			defer logging.Close()

			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			report, err := replay.Run(script, res.Config)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			return report.Check(script.Expect)
		},
	}
	cmd.Flags().BoolVar(&logToStderr, "log-stderr", false, "Write logs to stderr instead of the log file")
	return cmd
}
