package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/config"
	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/history"
	"github.com/simplay-cli/simplay/inline"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/simulation"
	"github.com/spf13/cobra"
)

func completionHistoryIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	points, err := history.Search(toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return lo.Map(points, func(p *history.Point, _ int) string {
		return p.ID + "\t" + p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("frames", "f", "all", "Criteria for selecting the frames to play")
	inlineCmd.Flags().BoolP("json", "j", false, "Write every frame as a JSON object")
	inlineCmd.Flags().BoolP("resume", "r", true, "Keep playing when a frame arrives after a stall")

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// inlineCmd plays a simulation without the terminal UI.
var inlineCmd = &cobra.Command{
	Use:     "inline <simulation-id>",
	Aliases: []string{"fetch"},
	Short:   "Play a simulation in non-interactive, scriptable inline mode",
	Long: `Play a simulation without the interactive player and print every frame as it is reached.

Frame selectors:
  all - every frame
  first - the first frame
  last - the last frame
  [number] - a single frame (starting from 0)
  [from]-[to] - an inclusive range of frames
  [from]- - every frame from the given one
  -[to] - every frame up to the given one`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionHistoryIDs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sim, ch, err := openSimulation(ctx, args[0])
		handleErr(err)
		defer ch.Close()

		frames, err := inline.ParseRange(lo.Must(cmd.Flags().GetString("frames")), sim.TotalFrames())
		handleErr(err)

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		log.Infof("Playing frames %d-%d of %s", frames.From, frames.To, sim.ID)
		handleErr(inline.Run(ctx, &inline.Options{
			Out:        writer,
			Channel:    ch,
			Simulation: sim,
			Window:     config.Lookahead(),
			Interval:   config.PlaybackInterval(),
			Range:      frames,
			Json:       lo.Must(cmd.Flags().GetBool("json")),
			Resume:     lo.Must(cmd.Flags().GetBool("resume")),
		}))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().BoolP("simulation", "m", false, "Generate the JSON Schema for simulation metadata")
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "frame", "state", "line", "simulation":
				return path.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("simulation")):
			schema = reflector.Reflect([]simulation.Simulation{})
		default:
			schema = reflector.Reflect(&inline.Line{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
