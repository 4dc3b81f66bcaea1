package ledger

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/patagonfinance/vault-service/state"
	"github.com/pkg/errors"
)

// Operation is a committed unit of work: the words it wrote and the events it emitted.
type Operation struct {
	ID          uuid.UUID
	Name        string
	Caller      common.Address
	Events      []*EventRecord
	Changes     []state.StorageEntry
	CommittedAt time.Time
	Duration    time.Duration
}

// EventRecord is the persisted form of an event.
type EventRecord struct {
	OperationID uuid.UUID       `json:"operationId"`
	CommittedAt time.Time       `json:"committedAt"`
	Index       uint            `json:"index"`
	Contract    common.Address  `json:"contract"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`

	// Event is the decoded payload. It is only set on operations produced by
	// this process, never on records read back from storage.
	Event state.Event `json:"-"`
}

func newEventRecords(logs []*state.Log) ([]*EventRecord, error) {
	records := make([]*EventRecord, 0, len(logs))
	for _, l := range logs {
		payload, err := json.Marshal(l.Event)
		if err != nil {
			return nil, errors.Wrapf(err, "encode event %s", l.Event.EventName())
		}
		records = append(records, &EventRecord{
			Index:    l.Index,
			Contract: l.Address,
			Name:     l.Event.EventName(),
			Payload:  payload,
			Event:    l.Event,
		})
	}
	return records, nil
}

// EventQuery selects stored events, newest first. Zero fields match everything.
type EventQuery struct {
	Name     string
	Contract common.Address
	Limit    uint
	Offset   uint
}

// EventsNamed returns the events of the operation with the given name.
func (op *Operation) EventsNamed(name string) []*EventRecord {
	var out []*EventRecord
	for _, e := range op.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
