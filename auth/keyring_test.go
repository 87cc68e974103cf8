package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	Convey("Given an in-memory keyring", t, func() {
		keyring.MockInit()

		Convey("No token is stored at first", func() {
			So(Token(), ShouldEqual, "")
			So(DeleteToken(), ShouldBeNil)
		})

		Convey("A stored token can be read and deleted", func() {
			So(SetToken("s3cret"), ShouldBeNil)
			So(Token(), ShouldEqual, "s3cret")
			So(DeleteToken(), ShouldBeNil)
			_, err := GetToken()
			So(err, ShouldEqual, keyring.ErrNotFound)
		})
	})
}
