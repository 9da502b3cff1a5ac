package matrix

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"
)

var (
	apiLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lazycerulean_homeserver_request_latency",
			Help:    "Histogram of homeserver request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status_code"},
	)
)

func metricMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	apiLatency.WithLabelValues(
		response.Request.Method,
		routeOf(reqURL.EscapedPath()),
		strconv.Itoa(response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}

// routeOf replaces room, user, event and media identifiers in a request
// path so that label cardinality stays bounded.
func routeOf(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		s, err := url.PathUnescape(s)
		if err != nil {
			continue
		}

		switch {
		case s == "":
		case strings.ContainsRune("!#@$", rune(s[0])):
			segments[i] = "{id}"
		case i > 1 && segments[i-2] == "send":
			segments[i] = "{id}"
		case i > 1 && (segments[i-1] == "thumbnail" || segments[i-2] == "thumbnail"):
			segments[i] = "{id}"
		}
	}

	return strings.Join(segments, "/")
}
