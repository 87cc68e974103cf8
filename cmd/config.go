package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/config"
	"github.com/simplay-cli/simplay/constant"
	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/open"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Simplay+".toml")
}

func writeConfig() error {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		return viper.SafeWriteConfig()
	default:
		return err
	}
}

// validators reject values the playback engine cannot work with.
var validators = map[string]func(v any) error{
	key.PlaybackSpeedMs: func(v any) error {
		if v.(int) <= 0 {
			return errors.New("speed must be a positive number of milliseconds")
		}
		return nil
	},
	key.PlaybackLookahead: func(v any) error {
		if v.(int) < 1 {
			return errors.New("lookahead must be at least 1")
		}
		return nil
	},
	key.ServerFrames: func(v any) error {
		if v.(int) < 1 {
			return errors.New("a simulation needs at least one frame")
		}
		return nil
	},
	key.IconsVariant: func(v any) error {
		if !lo.Contains(icon.AvailableVariants(), v.(string)) {
			return fmt.Errorf("unknown icons variant %q", v)
		}
		return nil
	},
}

// parseValue converts raw command-line values to the type of the field default.
func parseValue(field config.Field, raw []string) (any, error) {
	var (
		v   any
		err error
	)

	switch field.Value.(type) {
	case string:
		v = raw[0]
	case int:
		var n int64
		if n, err = strconv.ParseInt(raw[0], 10, 64); err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		v = int(n)
	case bool:
		if v, err = strconv.ParseBool(raw[0]); err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("unsupported type for %s", field.Key)
	}

	if validate, ok := validators[field.Key]; ok {
		if err := validate(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd serves as the parent command for managing application configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration settings and defaults",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd displays metadata and descriptions for configuration fields.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information and descriptions for configuration fields",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return field
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())

			if i < len(fields)-1 {
				cmd.Print("\n\n")
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

// configSetCmd updates the value of a configuration key.
var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Update the value of a configuration key",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, ok := config.Default[args[0]]
		if !ok {
			handleErr(errUnknownKey(args[0]))
		}

		v, err := parseValue(field, args[1:])
		handleErr(err)

		viper.Set(field.Key, v)
		handleErr(writeConfig())

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

// configGetCmd prints the current value of a configuration key.
var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a configuration key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := config.Default[args[0]]; !ok {
			handleErr(errUnknownKey(args[0]))
		}

		fmt.Println(viper.Get(args[0]))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite the existing configuration file")
}

// configWriteCmd writes the current configuration to disk.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

// configDeleteCmd removes the config file.
var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		fmt.Printf(
			"%s deleted config\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().BoolP("all", "a", false, "Restore every configuration key to its default")
}

// configResetCmd restores configuration keys to their default values.
var configResetCmd = &cobra.Command{
	Use:               "reset [key]...",
	Short:             "Restore configuration keys to their default values",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		keys := args
		if lo.Must(cmd.Flags().GetBool("all")) {
			keys = lo.Keys(config.Default)
		} else if len(keys) == 0 {
			handleErr(errors.New("either a key or --all must be given"))
		}

		for _, k := range keys {
			field, ok := config.Default[k]
			if !ok {
				handleErr(errUnknownKey(k))
			}
			viper.Set(k, field.Value)
		}

		handleErr(writeConfig())

		if len(keys) == len(config.Default) {
			fmt.Printf(
				"%s reset all config values\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
			)
			return
		}

		for _, k := range keys {
			fmt.Printf(
				"%s reset %s to default value %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(k),
				style.Fg(color.Yellow)(fmt.Sprintf("%v", config.Default[k].Value)),
			)
		}
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
	configEditCmd.Flags().StringP("editor", "e", "", "Editor to open the config file with, defaults to $EDITOR")
}

// configEditCmd opens the config file, writing the defaults first when it is missing.
var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in an editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		exists, err := filesystem.API().Exists(path)
		handleErr(err)
		if !exists {
			handleErr(viper.SafeWriteConfig())
		}

		editor := lo.Must(cmd.Flags().GetString("editor"))
		if editor == "" {
			editor = os.Getenv("EDITOR")
		}

		handleErr(open.Run(path, editor))
	},
}
