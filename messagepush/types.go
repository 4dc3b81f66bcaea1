package messagepush

const (
	BizCodeVaultEvent = "vault_event"
	BizCodeVaultPhase = "vault_phase"
)

// Record headers set on every pushed event.
const (
	headerEventName   = "event"
	headerOperationID = "operation"
)

type PushMessage struct {
	BizCode       string `json:"bizCode"`
	WalletAddress string `json:"walletAddress"`
	RequestID     string `json:"requestId"`
	PushContent   string `json:"pushContent"`
	Time          int64  `json:"time"`
}
