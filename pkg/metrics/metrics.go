package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var histogramBuckets = []float64{
	// fast responses (0 - 500ms)
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	// medium (500ms - 2s)
	750, 1000, 1250, 1500, 1750, 2000,
	// slow (2s - 15s)
	2500, 3000, 4000, 5000, 7500, 10000, 15000,
}

// Prometheus bundles the HTTP request collectors and an optional standalone
// metrics listener.
type Prometheus struct {
	reqCnt     *prometheus.CounterVec
	reqDurMs   *prometheus.HistogramVec
	listenAddr string
	pathFn     func(c *gin.Context) string
	log        *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	// Subsystem prefixes metric names; defaults to "http".
	Subsystem string
	// PathLabelFn maps a request to its route label; defaults to FullPath.
	PathLabelFn func(c *gin.Context) string
	Logger      *zap.SugaredLogger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "http"
	}
	pathFn := opts.PathLabelFn
	if pathFn == nil {
		pathFn = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return c.Request.URL.Path
		}
	}

	p := &Prometheus{
		pathFn: pathFn,
		log:    opts.Logger,
		reqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total HTTP requests processed, partitioned by status, method and route.",
		}, []string{"code", "method", "path"}),
		reqDurMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   histogramBuckets,
		}, []string{"code", "method", "path"}),
	}
	prometheus.MustRegister(p.reqCnt, p.reqDurMs)
	return p
}

// SetListenAddress makes Use start a dedicated /metrics listener instead of
// mounting the handler on the instrumented engine.
func (p *Prometheus) SetListenAddress(addr string) {
	p.listenAddr = addr
}

// Use attaches the middleware to the engine and starts the metrics endpoint.
func (p *Prometheus) Use(r *gin.Engine) {
	r.Use(p.handlerFunc())
	if p.listenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(p.listenAddr, mux); err != nil && p.log != nil {
				p.log.Errorf("metrics listener stopped: %v", err)
			}
		}()
		return
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := p.pathFn(c)
		elapsed := float64(time.Since(start).Milliseconds())
		p.reqCnt.WithLabelValues(status, c.Request.Method, path).Inc()
		p.reqDurMs.WithLabelValues(status, c.Request.Method, path).Observe(elapsed)
	}
}
