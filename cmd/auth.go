package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/auth"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/style"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd groups the commands managing the API token.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token used to access the simulation API",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("token", "t", "", "The token to store, read from stdin when omitted")
}

// authSetCmd stores the API token in the system keyring.
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API token in the system keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			var err error
			token, err = readToken()
			handleErr(err)
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("token must not be empty"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token saved to the system keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// readToken prompts for the token without echo on a terminal, or reads the
// first line of piped input.
func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		return string(raw), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

// authDeleteCmd removes the API token from the system keyring.
var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove", "logout"},
	Short:   "Remove the API token from the system keyring",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

// authStatusCmd reports whether a token is stored.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API token is stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if auth.Token() == "" {
			fmt.Printf("%s no token stored\n", style.Fg(color.Red)(icon.Get(icon.Fail)))
			return
		}
		fmt.Printf("%s token stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
