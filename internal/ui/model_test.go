package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("Content passes through without a notification", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A notification is appended to the last line", func() {
			So(m.Update(Notify("speed 100ms")()), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "speed 100ms")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
			So(m.View("a\nb"), ShouldContainSubstring, "speed 100ms")

			Convey("A stale clear leaves a newer notification alone", func() {
				stale := ClearNotificationMsg{generation: 1}
				m.Update(NotificationMsg("window 4"))
				m.Update(stale)
				So(m.Current(), ShouldEqual, "window 4")

				m.Update(ClearNotificationMsg{generation: 2})
				So(m.Current(), ShouldEqual, "")
			})
		})
	})
}
