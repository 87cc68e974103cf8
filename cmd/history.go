package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/history"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists the saved resume points.
var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List the simulations watched so far and where they were left",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		points, err := history.Search(lo.FirstOr(args, ""))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(points))
			return
		}

		if len(points) == 0 {
			cmd.Println(style.Faint("No history"))
			return
		}

		for _, p := range points {
			mark := style.Fg(color.Yellow)(icon.Get(icon.Pause))
			if p.Finished() {
				mark = style.Fg(color.Green)(icon.Get(icon.Success))
			}

			cmd.Printf(
				"%s %s %s %s\n",
				mark,
				style.Fg(color.Purple)(p.ID),
				p.String(),
				style.Faint(p.UpdatedAt.Format(time.DateTime)),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

// historyRemoveCmd forgets the resume point of a simulation.
var historyRemoveCmd = &cobra.Command{
	Use:               "remove <simulation-id>",
	Aliases:           []string{"rm", "delete"},
	Short:             "Forget where a simulation was left",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionHistoryIDs,
	Run: func(cmd *cobra.Command, args []string) {
		if history.Find(args[0]).IsAbsent() {
			handleErr(fmt.Errorf("no history for simulation %s", args[0]))
		}

		handleErr(history.Remove(args[0]))
		fmt.Printf(
			"%s removed %s from history\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(args[0]),
		)
	},
}
