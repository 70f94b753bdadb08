package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/termboard/internal/logging"
	"github.com/1broseidon/termboard/internal/tui"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the launcher grid",
		Long: `Open the launcher grid in the terminal.

Mouse:
  long-press   enter edit mode and pick up the icon
  drag         move the picked icon; others make room
  tap outside  leave edit mode

Keys:
  arrows, hjkl         select
  shift+arrows, HJKL   move the selected icon (edit mode)
  e                    toggle edit mode
  enter, esc           done
  ?                    full help
  q, ctrl+c            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.load()
			if err != nil {
				return err
			}
			printWarnings(cmd, res)
			if err := opts.setupLogging(res.Config); err != nil {
				return err
			}
			defer logging.Close()

			return tui.Run(tui.Options{
				ConfigPath: opts.configPath,
				Result:     res,
				Watch:      !noWatch,
			})
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config when it changes")
	return cmd
}
