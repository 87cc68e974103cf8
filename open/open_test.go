package open

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given an explicit editor", t, func() {
		cmd, ok := command("/tmp/simplay.toml", "vi")

		Convey("Then the editor is run on the file", func() {
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"vi", "/tmp/simplay.toml"})
		})
	})

	Convey("Given no editor", t, func() {
		cmd, ok := command("/tmp/simplay.toml", "")

		Convey("Then the platform handler receives the file", func() {
			switch runtime.GOOS {
			case "linux", "darwin", "windows", "android":
				So(ok, ShouldBeTrue)
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "/tmp/simplay.toml")
			default:
				So(ok, ShouldBeFalse)
			}
		})
	})
}
