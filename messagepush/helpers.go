package messagepush

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/pkg/errors"
)

// walletFields are the payload fields naming the account an event is about, by priority.
var walletFields = []string{"recipient", "payer", "account", "to", "from"}

func convertMsgToString(msg interface{}) (string, error) {
	var msgString string
	switch v := msg.(type) {
	case string:
		// If message is a string, just send it
		msgString = v
	default:
		// If message is an object, encode to json
		b, err := json.Marshal(msg)
		if err != nil {
			log.Errorf("msg cannot be encoded to json: msg[%v] err[%v]", msg, err)
			return "", errors.Wrap(err, "kafka produce: JSON marshal error")
		}
		msgString = string(b)
	}
	return msgString, nil
}

func newEventMessage(ev *ledger.EventRecord) (*PushMessage, error) {
	if ev == nil {
		return nil, nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, "json marshal error")
	}
	bizCode := BizCodeVaultEvent
	if ev.Name == "PhaseChanged" {
		bizCode = BizCodeVaultPhase
	}
	return &PushMessage{
		BizCode:       bizCode,
		WalletAddress: walletAddress(ev),
		RequestID:     uuid.NewString(),
		PushContent:   string(b),
		Time:          ev.CommittedAt.UnixMilli(),
	}, nil
}

// walletAddress returns the account the event concerns, or the emitting contract.
func walletAddress(ev *ledger.EventRecord) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(ev.Payload, &fields); err == nil {
		for _, name := range walletFields {
			raw, ok := fields[name]
			if !ok {
				continue
			}
			var addr common.Address
			if err := json.Unmarshal(raw, &addr); err == nil && addr != (common.Address{}) {
				return strings.ToLower(addr.Hex())
			}
		}
	}
	return strings.ToLower(ev.Contract.Hex())
}
