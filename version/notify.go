package version

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/mo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/constant"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/util"
	"github.com/spf13/viper"
)

// Newer returns the latest release when it is newer than the running build.
// Lookup failures are logged and treated as no update.
func Newer() mo.Option[string] {
	latest, err := Latest()
	if err != nil {
		log.Warnf("version check: %v", err)
		return mo.None[string]()
	}

	comp, err := Compare(latest, constant.Version)
	if err != nil {
		log.Warnf("version check: %v", err)
		return mo.None[string]()
	}
	if comp <= 0 {
		return mo.None[string]()
	}
	return mo.Some(latest)
}

// Notify prints a notice about a newer release. It does nothing unless
// cli.version_check is enabled.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a newer %s...", icon.Get(icon.Progress), constant.Simplay))
	newer := Newer()
	erase()

	if latest, ok := newer.Get(); ok {
		printNotice(os.Stdout, latest)
	}
}

func printNotice(out io.Writer, latest string) {
	_, _ = fmt.Fprintf(out, `
%s %s %s is available %s
%s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		constant.Simplay,
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(running %s)", constant.Version)),
		style.Faint("https://github.com/simplay-cli/simplay/releases/tag/v"+latest),
		style.Faint(fmt.Sprintf("Disable this check with: %s config set %s false", constant.Simplay, key.CliVersionCheck)),
	)
}
