package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/auth"
	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddr, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().IntP("frames", "n", 0, "Number of frames in each served simulation")
	lo.Must0(viper.BindPFlag(key.ServerFrames, serveCmd.Flags().Lookup("frames")))

	serveCmd.Flags().Bool("require-token", false, "Reject requests that do not carry the stored API token")
}

// serveCmd runs the bundled frame server on synthetic simulations.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve synthetic simulations for local playback",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		filesystem.SetReadOnly()

		frames := viper.GetInt(key.ServerFrames)
		source := server.NewSynthetic(frames)
		source.Add("Synthetic grid", frames*2, 12)

		var cfg server.Config
		if lo.Must(cmd.Flags().GetBool("require-token")) {
			cfg.Token = auth.Token()
			if cfg.Token == "" {
				handleErr(errors.New("no API token stored, set one with auth set"))
			}
		}

		handleErr(server.New(source, cfg).ListenAndServe(ctx, viper.GetString(key.ServerAddr)))
	},
}
