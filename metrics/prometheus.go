package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/patagonfinance/vault-service/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

var (
	mutex       sync.RWMutex
	registerer  prometheus.Registerer
	constLabels prometheus.Labels
	initialized bool

	gauges     map[string]*prometheus.GaugeVec
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
)

func getLogger(metricName, metricType string) *log.Logger {
	return log.WithFields("metricName", metricName, "metricType", metricType)
}

// StartMetricsHttpServer initializes the metrics registry and serves the prometheus
// metrics until ctx is done
func StartMetricsHttpServer(ctx context.Context, c Config) error {
	if !c.Enabled {
		return nil
	}

	Init(c)

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultMetricsEndpoint
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second, //nolint:gomnd
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Errorf("shutdown metrics http server error: %v", shutdownErr)
		}
		err = <-errCh
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("serve metrics http server error: %v", err)
		return err
	}
	return nil
}

// Init registers every collector on the default registerer. Calling it again is a no-op.
func Init(c Config) {
	mutex.Lock()
	done := initialized
	mutex.Unlock()
	if done {
		return
	}
	initMetrics(prometheus.DefaultRegisterer, c.Env)
}

func initMetrics(reg prometheus.Registerer, env string) {
	mutex.Lock()
	registerer = reg
	constLabels = nil
	if env != "" {
		constLabels = prometheus.Labels{labelEnv: env}
	}
	gauges = make(map[string]*prometheus.GaugeVec)
	counters = make(map[string]*prometheus.CounterVec)
	histograms = make(map[string]*prometheus.HistogramVec)
	initialized = true
	mutex.Unlock()

	registerCounter(prometheus.CounterOpts{Name: metricRequestCount, Help: "HTTP requests by method"}, labelMethod, labelIsSuccess)
	registerHistogram(prometheus.HistogramOpts{Name: metricRequestLatency, Help: "HTTP request latency in milliseconds"}, labelMethod, labelIsSuccess)

	registerCounter(prometheus.CounterOpts{Name: metricOperationCount, Help: "Ledger operations by name and result"}, labelOperation, labelResult)
	registerHistogram(prometheus.HistogramOpts{Name: metricOperationLatency, Help: "Ledger operation latency in milliseconds"}, labelOperation)

	registerGauge(prometheus.GaugeOpts{Name: metricVaultPhase, Help: "Current vault phase: 0 deposit, 1 locked, 2 withdraw"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultRound, Help: "Current vault round"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultPaused, Help: "1 when the vault is paused"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultBaseReserve, Help: "Base asset held by the vault"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultFloat, Help: "Shares held by the vault"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultShareSupply, Help: "Total share supply"})

	registerCounter(prometheus.CounterOpts{Name: metricEventCount, Help: "Committed events by type"}, labelEventType)
	registerCounter(prometheus.CounterOpts{Name: metricDepositedTotal, Help: "Base asset deposited"})
	registerCounter(prometheus.CounterOpts{Name: metricWithdrawnTotal, Help: "Base asset paid out by withdrawals"})
	registerCounter(prometheus.CounterOpts{Name: metricSharesMintedOut, Help: "Shares credited to depositors"})
}

// register builds and registers the collector called name unless it exists.
// build runs with the lock held, so it may read constLabels.
func register[V prometheus.Collector](set *map[string]V, name, metricType string, build func() V) {
	logger := getLogger(name, metricType)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := (*set)[name]; ok {
		return
	}
	collector := build()
	if err := registerer.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	(*set)[name] = collector
	logger.Debugf("metrics register successfully")
}

// update runs fn on the collector called name. Updates before Init are dropped.
func update[V any](set *map[string]V, name, metricType string, fn func(c V)) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}
	c, ok := (*set)[name]
	if !ok {
		getLogger(name, metricType).Errorf("collector not found")
		return
	}
	fn(c)
}

func registerGauge(opt prometheus.GaugeOpts, labelNames ...string) {
	register(&gauges, opt.Name, typeGauge, func() *prometheus.GaugeVec {
		opt.ConstLabels = constLabels
		return prometheus.NewGaugeVec(opt, labelNames)
	})
}

func registerCounter(opt prometheus.CounterOpts, labelNames ...string) {
	register(&counters, opt.Name, typeCounter, func() *prometheus.CounterVec {
		opt.ConstLabels = constLabels
		return prometheus.NewCounterVec(opt, labelNames)
	})
}

func registerHistogram(opt prometheus.HistogramOpts, labelNames ...string) {
	register(&histograms, opt.Name, typeHistogram, func() *prometheus.HistogramVec {
		opt.ConstLabels = constLabels
		return prometheus.NewHistogramVec(opt, labelNames)
	})
}

func gaugeSet(name string, value float64, labelValues map[string]string) {
	update(&gauges, name, typeGauge, func(c *prometheus.GaugeVec) {
		c.With(labelValues).Set(value)
	})
}

func counterInc(name string, labelValues map[string]string) {
	counterAdd(name, 1, labelValues)
}

func counterAdd(name string, value float64, labelValues map[string]string) {
	update(&counters, name, typeCounter, func(c *prometheus.CounterVec) {
		c.With(labelValues).Add(value)
	})
}

func histogramObserve(name string, value float64, labelValues map[string]string) {
	update(&histograms, name, typeHistogram, func(c *prometheus.HistogramVec) {
		c.With(labelValues).Observe(value)
	})
}
