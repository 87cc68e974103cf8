package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/config"
	"github.com/simplay-cli/simplay/history"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("continue", "c", false, "Resume the most recently watched simulation")
	playCmd.Flags().IntP("frame", "f", -1, "Frame to start at")
	playCmd.Flags().BoolP("autoplay", "a", false, "Start playback immediately")
	lo.Must0(viper.BindPFlag(key.PlaybackAutoplay, playCmd.Flags().Lookup("autoplay")))

	playCmd.MarkFlagsMutuallyExclusive("continue", "frame")
}

// playCmd opens the interactive player.
var playCmd = &cobra.Command{
	Use:   "play [simulation-id]",
	Short: "Open a simulation in the interactive player",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var id string
		if len(args) == 1 {
			id = args[0]
		} else if lo.Must(cmd.Flags().GetBool("continue")) {
			points, err := history.Search("")
			handleErr(err)
			if len(points) == 0 {
				handleErr(errors.New("no simulation has been watched yet"))
			}
			id = points[0].ID
		} else {
			handleErr(errors.New("simulation id is required unless --continue is set"))
		}

		sim, ch, err := openSimulation(ctx, id)
		handleErr(err)
		defer ch.Close()

		startAt := lo.Must(cmd.Flags().GetInt("frame"))
		if startAt < 0 {
			startAt = 0
			if viper.GetBool(key.PlaybackResume) {
				if point, ok := history.Find(sim.ID).Get(); ok && !point.Finished() {
					startAt = point.Frame
				}
			}
		}
		startAt = lo.Clamp(startAt, 0, sim.TotalFrames()-1)

		status, err := tui.Run(ctx, &tui.Options{
			Simulation: sim,
			Channel:    ch,
			Window:     config.Lookahead(),
			Interval:   config.PlaybackInterval(),
			StartAt:    startAt,
			Autoplay:   viper.GetBool(key.PlaybackAutoplay),
		})

		if viper.GetBool(key.HistorySave) {
			if err := history.Save(history.Point{
				ID:    sim.ID,
				Name:  sim.Name,
				Frame: status.Cursor,
				Total: status.Total,
			}); err != nil {
				log.Warnf("save history: %v", err)
			}
		}

		handleErr(err)
		fmt.Printf(
			"%s stopped %s at frame %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(sim.Name),
			style.Fg(color.Yellow)(fmt.Sprintf("%d/%d", status.Cursor+1, status.Total)),
		)
	},
}
