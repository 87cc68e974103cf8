// Package cmd implements the command-line interface for simplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/constant"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember the last viewed frame of each simulation")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().String("api", "", "Base URL of the simulation API")
	lo.Must0(viper.BindPFlag(key.APIURL, rootCmd.PersistentFlags().Lookup("api")))

	rootCmd.PersistentFlags().String("channel", "", "Base websocket URL of the frame stream")
	lo.Must0(viper.BindPFlag(key.ChannelURL, rootCmd.PersistentFlags().Lookup("channel")))

	rootCmd.PersistentFlags().Int("speed", 0, "Milliseconds between frames")
	lo.Must0(viper.BindPFlag(key.PlaybackSpeedMs, rootCmd.PersistentFlags().Lookup("speed")))

	rootCmd.PersistentFlags().Int("lookahead", 0, "Number of frames to prefetch ahead of the cursor")
	lo.Must0(viper.BindPFlag(key.PlaybackLookahead, rootCmd.PersistentFlags().Lookup("lookahead")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the simplay application.
var rootCmd = &cobra.Command{
	Use:   constant.Simplay,
	Short: "Play back computed simulations frame by frame",
	Long: constant.Logo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play back computed simulations frame by frame"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
