package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nxscrypto/bayview-dashboard/internal/adapters/fetch"
)

func TestFetch(t *testing.T) {
	Convey("Given a host serving a CSV export", t, func() {
		var gotUA string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("Date,Source\n1/2/2025,Google\n1/3/2025,Yelp\n"))
		}))
		defer ts.Close()

		client := fetch.NewClient()

		Convey("When the CSV is fetched", func() {
			rows, err := client.Fetch(context.Background(), ts.URL)

			Convey("Then the rows parse including the header", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0], ShouldResemble, []string{"Date", "Source"})
				So(rows[2][1], ShouldEqual, "Yelp")
			})

			Convey("And the configured user agent is sent", func() {
				So(gotUA, ShouldContainSubstring, "bayview-dashboard")
			})
		})
	})

	Convey("Given a host with ragged rows", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("a,b,c\n1,2\n1,2,3,4\n"))
		}))
		defer ts.Close()

		Convey("Then uneven field counts do not fail the fetch", func() {
			rows, err := fetch.NewClient().Fetch(context.Background(), ts.URL)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 3)
		})
	})

	Convey("Given a host returning an error status", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		Convey("Then the fetch fails with the status sentinel", func() {
			rows, err := fetch.NewClient().Fetch(context.Background(), ts.URL)
			So(rows, ShouldBeNil)
			So(errors.Is(err, fetch.ErrStatus), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable host", t, func() {
		client := fetch.NewClient(fetch.WithTimeout(time.Second))

		Convey("Then the fetch fails with the fetch sentinel", func() {
			_, err := client.Fetch(context.Background(), "http://127.0.0.1:1")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, fetch.ErrFetch), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the fetch aborts", func() {
			_, err := fetch.NewClient().Fetch(ctx, ts.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
