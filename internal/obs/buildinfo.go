package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var buildInfoOnce sync.Once

// InitBuildInfo publishes a constant build_info gauge carrying the version
// and commit as labels. Call once at startup.
func InitBuildInfo(version, commit string) {
	buildInfoOnce.Do(func() {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information of the running orgbase-api binary.",
			ConstLabels: prometheus.Labels{
				"version": version,
				"commit":  commit,
			},
		})
		prometheus.MustRegister(g)
		g.Set(1)
	})
}
