package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/tiling"
)

type layoutFlags struct {
	width   float64
	height  float64
	apps    int
	profile string
	output  string
}

// layoutReport is the YAML form of a computed layout.
type layoutReport struct {
	Profile string       `yaml:"profile"`
	Width   float64      `yaml:"width"`
	Height  float64      `yaml:"height"`
	Sizes   tiling.Sizes `yaml:"sizes"`
	Slots   []slotReport `yaml:"slots"`
}

type slotReport struct {
	Idx  int        `yaml:"idx"`
	Cell [4]float64 `yaml:"cell,flow"`
	Icon []float64  `yaml:"icon,flow,omitempty"`
}

func rectValues(r geom.Rect) [4]float64 {
	return [4]float64{r.X1, r.Y1, r.X2, r.Y2}
}

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	f := &layoutFlags{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the cell and icon rectangles for a container size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.load()
			if err != nil {
				return err
			}
			printWarnings(cmd, res)
			return runLayout(cmd, res.Config, f)
		},
	}
	cmd.Flags().Float64Var(&f.width, "width", 400, "Container width")
	cmd.Flags().Float64Var(&f.height, "height", 600, "Container height")
	cmd.Flags().IntVar(&f.apps, "apps", -1, "Number of apps (default: the configured apps)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Profile name (default: the active profile)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: table or yaml")
	return cmd
}

func runLayout(cmd *cobra.Command, cfg *config.Config, f *layoutFlags) error {
	name := f.profile
	if name == "" {
		name = cfg.Profile
	}
	profile, err := cfg.GetProfile(name)
	if err != nil {
		return err
	}
	count := f.apps
	if count < 0 {
		count = len(cfg.Apps)
	}

	layout := tiling.NewLayout(tiling.GridFromProfile(profile), f.width, f.height)
	if !layout.Valid() {
		return fmt.Errorf("container %gx%g is too small for profile %q", f.width, f.height, name)
	}

	icons := layout.IconPositions(count)
	report := layoutReport{
		Profile: name,
		Width:   f.width,
		Height:  f.height,
		Sizes:   layout.Sizes(),
	}
	for _, slot := range layout.GridPositions() {
		s := slotReport{Idx: slot.Idx, Cell: rectValues(slot.Rect)}
		if slot.Idx < len(icons) {
			v := rectValues(icons[slot.Idx].Rect)
			s.Icon = v[:]
		}
		report.Slots = append(report.Slots, s)
	}

	out := cmd.OutOrStdout()
	switch f.output {
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "table":
		fmt.Fprintf(out, "profile: %s  container: %gx%g  %s\n", name, f.width, f.height, layout.Sizes().Describe())
		fmt.Fprintln(out, renderLayoutTable(report))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table or yaml)", f.output)
	}
}

func renderLayoutTable(r layoutReport) string {
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("slot", "cell x1", "y1", "x2", "y2", "icon x1", "y1", "x2", "y2")
	for _, s := range r.Slots {
		row := []string{strconv.Itoa(s.Idx)}
		for _, v := range s.Cell {
			row = append(row, num(v))
		}
		if len(s.Icon) == 4 {
			for _, v := range s.Icon {
				row = append(row, num(v))
			}
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		t.Row(row...)
	}
	return t.Render()
}
