package metrics

const (
	defaultMetricsEndpoint = "/metrics"
)

// Metric types
const (
	typeGauge     = "gauge"
	typeCounter   = "counter"
	typeHistogram = "histogram"
)

// Metric names and labels
const (
	prefix   = "vault_service_"
	labelEnv = "env"

	prefixRequest        = prefix + "request_"
	metricRequestCount   = prefixRequest + "count"
	metricRequestLatency = prefixRequest + "latency_ms"
	labelMethod          = "method"
	labelIsSuccess       = "is_success"

	prefixOperation        = prefix + "operation_"
	metricOperationCount   = prefixOperation + "count"
	metricOperationLatency = prefixOperation + "latency_ms"
	labelOperation         = "operation"
	labelResult            = "result"

	prefixVault            = prefix + "vault_"
	metricVaultPhase       = prefixVault + "phase"
	metricVaultRound       = prefixVault + "round"
	metricVaultPaused      = prefixVault + "paused"
	metricVaultBaseReserve = prefixVault + "base_reserve"
	metricVaultFloat       = prefixVault + "float"
	metricVaultShareSupply = prefixVault + "share_supply"

	metricEventCount      = prefix + "event_count"
	metricDepositedTotal  = prefix + "deposited_total"
	metricWithdrawnTotal  = prefix + "withdrawn_total"
	metricSharesMintedOut = prefix + "shares_issued_total"
	labelEventType        = "type"
)

const (
	resultCommitted = "committed"
	resultRejected  = "rejected"
)
