package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v4"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cret"

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	admin    = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	operator = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	investor = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000e0")
)

type fakeEvents struct {
	query  ledger.EventQuery
	events []*ledger.EventRecord
	err    error
}

func (f *fakeEvents) GetEvents(_ context.Context, q ledger.EventQuery, _ pgx.Tx) ([]*ledger.EventRecord, error) {
	f.query = q
	return f.events, f.err
}

type fakeCache struct {
	summary *vault.Summary
	err     error
}

func (f *fakeCache) GetVaultSummary(context.Context) (*vault.Summary, error) {
	return f.summary, f.err
}

type testServer struct {
	host    *ledger.Host
	service *vaultService
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	host, err := ledger.Open(context.Background(), ledger.GenesisConfig{
		Deployer:          deployer,
		Admin:             admin,
		Operator:          operator,
		MinimumDeposit:    100,
		BaseAssetSupply:   1_000_000,
		BaseAssetDecimals: 2,
		VaultVersion:      1,
		Whitelisted:       []common.Address{investor},
	})
	require.NoError(t, err)

	cfg := Config{DefaultPageLimit: 25, MaxPageLimit: 100, OperatorToken: testToken}
	s, err := NewVaultService(cfg, host, operator)
	require.NoError(t, err)
	return &testServer{host: host, service: s, handler: NewRouter(cfg, s)}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (int, json.RawMessage, string) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if method == http.MethodPost {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp.Data, resp.Msg
}

func TestNewVaultServiceRequiresOperator(t *testing.T) {
	ts := newTestServer(t)
	_, err := NewVaultService(Config{}, ts.host, common.Address{})
	require.ErrorIs(t, err, gerror.ErrZeroAddressArgument)
}

func TestHealthzAndVersion(t *testing.T) {
	ts := newTestServer(t)

	code, data, _ := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"SERVING"}`, string(data))

	code, data, _ = ts.do(t, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(data), `"version"`)
}

func TestDepositLifecycle(t *testing.T) {
	ts := newTestServer(t)

	code, data, msg := ts.do(t, http.MethodPost, "/bridge/fund", FundBridgeRequest{Amount: "50"})
	require.Equal(t, http.StatusOK, code, msg)
	var op OperationView
	require.NoError(t, json.Unmarshal(data, &op))
	assert.Equal(t, opFundBridge, op.Name)
	assert.NotEmpty(t, op.ID)

	code, data, msg = ts.do(t, http.MethodPost, "/deposits/finalize", FinalizeDepositRequest{
		Amount:      "20",
		ExternalRef: "settlement-1",
		Recipient:   investor,
	})
	require.Equal(t, http.StatusOK, code, msg)
	require.NoError(t, json.Unmarshal(data, &op))
	names := make([]string, 0, len(op.Events))
	for _, ev := range op.Events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Deposit")
	assert.Contains(t, names, "DepositExecuted")

	code, data, _ = ts.do(t, http.MethodGet, "/accounts/"+investor.Hex(), nil)
	require.Equal(t, http.StatusOK, code)
	var account AccountView
	require.NoError(t, json.Unmarshal(data, &account))
	assert.Equal(t, investor, account.Address)
	assert.Equal(t, uint256.NewInt(2000), account.Shares.Raw)
	assert.Equal(t, "20", account.Shares.Display)
	assert.Equal(t, "20", account.SharesValue.Display)
	assert.Equal(t, "0", account.BaseBalance.Display)
	assert.True(t, account.Whitelisted)

	code, data, _ = ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
	var view VaultView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, vault.PhaseDeposit, view.Phase)
	assert.Equal(t, "20", view.BaseReserve.Display)
	assert.Equal(t, "20", view.ShareSupply.Display)
	assert.Equal(t, "1", view.MinimumDeposit.Display)
	assert.Equal(t, ts.host.Addresses(), view.Contracts)

	code, _, msg = ts.do(t, http.MethodPost, "/phase", AdvancePhaseRequest{VaultToken: "1", BaseToken: "1"})
	require.Equal(t, http.StatusOK, code, msg)

	code, data, _ = ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, vault.PhaseLocked, view.Phase)

	code, _, _ = ts.do(t, http.MethodPost, "/deposits/finalize", FinalizeDepositRequest{
		Amount:      "5",
		ExternalRef: "settlement-2",
		Recipient:   investor,
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestWriteRoutesRejects(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/bridge/fund", FundBridgeRequest{Amount: "50"})

	testCases := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"too many decimals", "/deposits/finalize", FinalizeDepositRequest{Amount: "1.001", Recipient: investor}, http.StatusBadRequest},
		{"malformed amount", "/deposits/finalize", FinalizeDepositRequest{Amount: "ten", Recipient: investor}, http.StatusBadRequest},
		{"unknown field", "/deposits/finalize", map[string]string{"amount": "1", "memo": "x"}, http.StatusBadRequest},
		{"below minimum", "/deposits/finalize", FinalizeDepositRequest{Amount: "0.5", Recipient: investor}, http.StatusUnprocessableEntity},
		{"zero amount", "/deposits/finalize", FinalizeDepositRequest{Amount: "0", Recipient: investor}, http.StatusUnprocessableEntity},
		{"recipient not whitelisted", "/deposits/finalize", FinalizeDepositRequest{Amount: "1", Recipient: stranger}, http.StatusUnprocessableEntity},
		{"exceeds bridge funds", "/deposits/finalize", FinalizeDepositRequest{Amount: "60", Recipient: investor}, http.StatusUnprocessableEntity},
		{"zero rate", "/phase", AdvancePhaseRequest{VaultToken: "0", BaseToken: "1"}, http.StatusUnprocessableEntity},
		{"bad rate", "/phase", AdvancePhaseRequest{VaultToken: "-1", BaseToken: "1"}, http.StatusBadRequest},
		{"not paused", "/unpause", nil, http.StatusConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, msg := ts.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.status, code, msg)
		})
	}

	code, data, _ := ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
	var view VaultView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.True(t, view.BaseReserve.Raw.IsZero())
	assert.Equal(t, vault.PhaseDeposit, view.Phase)
}

func TestPauseRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/pause", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/pause", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, _, msg := ts.do(t, http.MethodPost, "/pause", nil)
	require.Equal(t, http.StatusOK, code, msg)
	code, _, _ = ts.do(t, http.MethodPost, "/pause", nil)
	assert.Equal(t, http.StatusConflict, code)

	_, data, _ := ts.do(t, http.MethodGet, "/vault", nil)
	var view VaultView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.True(t, view.Paused)

	code, _, _ = ts.do(t, http.MethodPost, "/phase", AdvancePhaseRequest{VaultToken: "1", BaseToken: "1"})
	assert.Equal(t, http.StatusConflict, code)

	code, _, msg = ts.do(t, http.MethodPost, "/unpause", nil)
	require.Equal(t, http.StatusOK, code, msg)
}

func TestGetRole(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		path    string
		status  int
		hasRole bool
	}{
		{"/roles/PAUSER/" + operator.Hex(), http.StatusOK, true},
		{"/roles/lifecycle_manager_role/" + operator.Hex(), http.StatusOK, true},
		{"/roles/ADMIN/" + admin.Hex(), http.StatusOK, true},
		{"/roles/ADMIN/" + operator.Hex(), http.StatusOK, false},
		{"/roles/NOPE/" + operator.Hex(), http.StatusBadRequest, false},
		{"/roles/ADMIN/0x1234", http.StatusBadRequest, false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			code, data, _ := ts.do(t, http.MethodGet, tc.path, nil)
			require.Equal(t, tc.status, code)
			if code != http.StatusOK {
				return
			}
			var view RoleView
			require.NoError(t, json.Unmarshal(data, &view))
			assert.Equal(t, tc.hasRole, view.HasRole)
		})
	}
}

func TestGetVaultFromCache(t *testing.T) {
	ts := newTestServer(t)
	cached := &vault.Summary{
		Phase:          vault.PhaseWithdraw,
		Round:          7,
		Rate:           vault.NewExchangeRate(100, 105),
		MinimumDeposit: uint256.NewInt(100),
		BaseReserve:    uint256.NewInt(12345),
		Float:          uint256.NewInt(0),
		ShareSupply:    uint256.NewInt(10000),
	}
	ts.service.WithSummaryCache(&fakeCache{summary: cached})

	code, data, _ := ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
	var view VaultView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, vault.PhaseWithdraw, view.Phase)
	assert.Equal(t, uint64(7), view.Round)
	assert.Equal(t, "123.45", view.BaseReserve.Display)

	ts.service.WithSummaryCache(&fakeCache{err: gerror.ErrCacheMiss})
	code, data, _ = ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, vault.PhaseDeposit, view.Phase)

	ts.service.WithSummaryCache(&fakeCache{err: errors.New("connection refused")})
	code, _, _ = ts.do(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestGetEvents(t *testing.T) {
	ts := newTestServer(t)

	code, _, _ := ts.do(t, http.MethodGet, "/events", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	contract := ts.host.Addresses().Vault
	events := &fakeEvents{events: []*ledger.EventRecord{{
		CommittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Contract:    contract,
		Name:        "PhaseChanged",
		Payload:     json.RawMessage(`{"phase":"locked"}`),
	}}}
	ts.service.WithEventStorage(events)

	code, data, _ := ts.do(t, http.MethodGet, "/events?name=PhaseChanged&contract="+contract.Hex()+"&offset=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ledger.EventQuery{Name: "PhaseChanged", Contract: contract, Limit: 25, Offset: 5}, events.query)
	var got []*ledger.EventRecord
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"phase":"locked"}`, string(got[0].Payload))

	code, _, _ = ts.do(t, http.MethodGet, "/events?limit=1000", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint(100), events.query.Limit)

	for _, q := range []string{"limit=0", "limit=x", "offset=-1", "contract=0x12"} {
		code, _, _ = ts.do(t, http.MethodGet, "/events?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, code, q)
	}

	events.err = errors.New("db down")
	code, _, _ = ts.do(t, http.MethodGet, "/events", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
}
