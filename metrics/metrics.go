package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/vault"
)

// RecordRequest increments the request count for the method
func RecordRequest(method string, isSuccess bool) {
	counterInc(metricRequestCount, map[string]string{labelMethod: method, labelIsSuccess: strconv.FormatBool(isSuccess)})
}

// RecordRequestLatency records the request latency histogram in milliseconds
func RecordRequestLatency(method string, latency time.Duration, isSuccess bool) {
	histogramObserve(metricRequestLatency, float64(latency.Milliseconds()), map[string]string{labelMethod: method, labelIsSuccess: strconv.FormatBool(isSuccess)})
}

// RecordOperation counts one ledger operation and observes its latency
func RecordOperation(name string, committed bool, latency time.Duration) {
	result := resultRejected
	if committed {
		result = resultCommitted
	}
	counterInc(metricOperationCount, map[string]string{labelOperation: name, labelResult: result})
	histogramObserve(metricOperationLatency, float64(latency.Milliseconds()), map[string]string{labelOperation: name})
}

// RecordVault sets the vault gauges from summary
func RecordVault(summary *vault.Summary) {
	gaugeSet(metricVaultPhase, float64(summary.Phase), nil)
	gaugeSet(metricVaultRound, float64(summary.Round), nil)
	paused := 0.0
	if summary.Paused {
		paused = 1
	}
	gaugeSet(metricVaultPaused, paused, nil)
	gaugeSet(metricVaultBaseReserve, toFloat(summary.BaseReserve), nil)
	gaugeSet(metricVaultFloat, toFloat(summary.Float), nil)
	gaugeSet(metricVaultShareSupply, toFloat(summary.ShareSupply), nil)
}

// RecordEvent counts an event and adds deposit and withdraw amounts to their totals
func RecordEvent(ev *ledger.EventRecord) {
	counterInc(metricEventCount, map[string]string{labelEventType: ev.Name})
	switch e := ev.Event.(type) {
	case vault.Deposit:
		counterAdd(metricDepositedTotal, toFloat(e.AmountIn), nil)
		counterAdd(metricSharesMintedOut, toFloat(e.SharesOut), nil)
	case vault.Withdraw:
		counterAdd(metricWithdrawnTotal, toFloat(e.BaseOut), nil)
	}
}

// toFloat converts an amount in base units. Precision is lost above 2^53.
func toFloat(v *uint256.Int) float64 {
	if v == nil {
		return 0
	}
	return v.Float64()
}

// Sink records every ledger operation.
type Sink struct{}

// OnCommit implements ledger.Sink.
func (Sink) OnCommit(_ context.Context, op *ledger.Operation, summary *vault.Summary) {
	RecordOperation(op.Name, true, op.Duration)
	for _, ev := range op.Events {
		RecordEvent(ev)
	}
	RecordVault(summary)
}

// OnReject implements ledger.RejectSink.
func (Sink) OnReject(_ context.Context, name string, _ error, duration time.Duration) {
	RecordOperation(name, false, duration)
}
