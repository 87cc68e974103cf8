package config

import (
	"testing"
	"time"

	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("playback.speed_ms")
			So(result, ShouldEqual, "playback_speed_ms")
		})

		Convey("Env names carry the application prefix", func() {
			field := Default[key.PlaybackLookahead]
			So(field.Env(), ShouldEqual, "SIMPLAY_PLAYBACK_LOOKAHEAD")
		})
	})
}

func TestPlaybackSettings(t *testing.T) {
	Convey("Given the playback settings", t, func() {
		_ = Setup()
		Reset(func() {
			viper.Set(key.PlaybackSpeedMs, Default[key.PlaybackSpeedMs].Value)
			viper.Set(key.PlaybackLookahead, Default[key.PlaybackLookahead].Value)
		})

		Convey("The interval follows the configured milliseconds", func() {
			viper.Set(key.PlaybackSpeedMs, 50)
			So(PlaybackInterval(), ShouldEqual, 50*time.Millisecond)
		})

		Convey("A non-positive interval falls back to the default", func() {
			viper.Set(key.PlaybackSpeedMs, 0)
			So(PlaybackInterval(), ShouldEqual, 200*time.Millisecond)
		})

		Convey("The lookahead is never below one", func() {
			viper.Set(key.PlaybackLookahead, -3)
			So(Lookahead(), ShouldEqual, 1)
			viper.Set(key.PlaybackLookahead, 7)
			So(Lookahead(), ShouldEqual, 7)
		})
	})
}
