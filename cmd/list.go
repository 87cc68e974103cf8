package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/simulation"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	listCmd.Flags().BoolP("playable", "p", false, "Only list simulations whose frames can be streamed")

	listCmd.SetOut(os.Stdout)
}

var statusColors = map[simulation.Status]func(string) string{
	simulation.Pending:   style.Fg(color.Yellow),
	simulation.Computing: style.Fg(color.Cyan),
	simulation.Finished:  style.Fg(color.Green),
	simulation.Failed:    style.Fg(color.Red),
}

// listCmd prints the simulations known to the API.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the simulations available for playback",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sims, err := simulationClient().List(cmd.Context())
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("playable")) {
			sims = lo.Filter(sims, func(s simulation.Simulation, _ int) bool {
				return s.Status.Playable()
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(sims))
			return
		}

		if len(sims) == 0 {
			cmd.Println(style.Faint("No simulations"))
			return
		}

		for _, s := range sims {
			paint, ok := statusColors[s.Status]
			if !ok {
				paint = style.Faint
			}

			cmd.Printf(
				"%s %s %s %s\n",
				style.Fg(color.Purple)(s.ID),
				style.Bold(s.Name),
				paint(string(s.Status)),
				style.Faint(progressLabel(s)),
			)
		}
	},
}

func progressLabel(s simulation.Simulation) string {
	frames := util.Quantify(s.TotalFrames(), "frame", "frames")
	if s.MaxFrames <= 0 || s.Status == simulation.Finished {
		return frames
	}
	return fmt.Sprintf("%s (%.0f%%)", frames, s.Progress()*100)
}
