// Package open launches files with an editor or the system default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/simplay-cli/simplay/constant"
)

// Run opens input with app, or with the system default handler when app is
// empty, and waits for the process to exit. The process shares the terminal.
func Run(input, app string) error {
	cmd, ok := command(input, app)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func command(input, app string) (*exec.Cmd, bool) {
	if app != "" {
		if runtime.GOOS == constant.Darwin && filepath.Ext(app) == ".app" {
			return exec.Command("open", "-W", "-a", app, input), true
		}
		return exec.Command(app, input), true
	}

	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), true
	case constant.Darwin:
		return exec.Command("open", "-W", input), true
	case constant.Linux:
		return exec.Command("xdg-open", input), true
	case constant.Android:
		return exec.Command("termux-open", input), true
	default:
		return nil, false
	}
}
