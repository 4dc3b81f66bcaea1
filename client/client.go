package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/server"
	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for any non 2xx response.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault service returned %d: %s", e.Status, e.Msg)
}

// RestClient is a client for the rest api.
type RestClient struct {
	vaultURL      string
	operatorToken string
	httpClient    *http.Client
}

// NewRestClient creates new rest api client. operatorToken may be empty when
// the server runs without one.
func NewRestClient(url, operatorToken string) *RestClient {
	return &RestClient{
		vaultURL:      url,
		operatorToken: operatorToken,
		httpClient:    &http.Client{Timeout: defaultTimeout},
	}
}

// WaitHealthy polls /healthz until it answers or ctx is done.
func (c *RestClient) WaitHealthy(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := c.get(ctx, "/healthz", nil)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "waiting for %s, last error: %v", c.vaultURL, err)
		case <-ticker.C:
		}
	}
}

// GetVault returns the vault summary.
func (c *RestClient) GetVault(ctx context.Context) (*server.VaultView, error) {
	var view server.VaultView
	if err := c.get(ctx, "/vault", &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// GetAccount returns the balances of account.
func (c *RestClient) GetAccount(ctx context.Context, account common.Address) (*server.AccountView, error) {
	var view server.AccountView
	if err := c.get(ctx, "/accounts/"+account.Hex(), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// HasRole reports whether account holds role. role is a role name or id.
func (c *RestClient) HasRole(ctx context.Context, role string, account common.Address) (bool, error) {
	var view server.RoleView
	if err := c.get(ctx, "/roles/"+url.PathEscape(role)+"/"+account.Hex(), &view); err != nil {
		return false, err
	}
	return view.HasRole, nil
}

// GetEvents lists stored events, newest first.
func (c *RestClient) GetEvents(ctx context.Context, name string, offset, limit uint) ([]*ledger.EventRecord, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	q.Set("offset", strconv.FormatUint(uint64(offset), 10))
	if limit > 0 {
		q.Set("limit", strconv.FormatUint(uint64(limit), 10))
	}
	var events []*ledger.EventRecord
	if err := c.get(ctx, "/events?"+q.Encode(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// AdvancePhase moves the vault to its next phase at vaultToken:baseToken.
func (c *RestClient) AdvancePhase(ctx context.Context, vaultToken, baseToken uint64) (*server.OperationView, error) {
	return c.post(ctx, "/phase", server.AdvancePhaseRequest{
		VaultToken: strconv.FormatUint(vaultToken, 10),
		BaseToken:  strconv.FormatUint(baseToken, 10),
	})
}

// FundBridge moves amount, in display units, from the operator to the deposit bridge.
func (c *RestClient) FundBridge(ctx context.Context, amount string) (*server.OperationView, error) {
	return c.post(ctx, "/bridge/fund", server.FundBridgeRequest{Amount: amount})
}

// FinalizeDeposit deposits bridge funds for a recipient.
func (c *RestClient) FinalizeDeposit(ctx context.Context, amount, externalRef string, recipient common.Address) (*server.OperationView, error) {
	return c.post(ctx, "/deposits/finalize", server.FinalizeDepositRequest{
		Amount:      amount,
		ExternalRef: externalRef,
		Recipient:   recipient,
	})
}

// Pause pauses the vault.
func (c *RestClient) Pause(ctx context.Context) (*server.OperationView, error) {
	return c.post(ctx, "/pause", nil)
}

// Unpause resumes the vault.
func (c *RestClient) Unpause(ctx context.Context) (*server.OperationView, error) {
	return c.post(ctx, "/unpause", nil)
}

func (c *RestClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.vaultURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *RestClient) post(ctx context.Context, path string, body interface{}) (*server.OperationView, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.vaultURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.operatorToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.operatorToken)
	}
	var op server.OperationView
	if err := c.do(req, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *RestClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var commonResp struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &commonResp); err != nil {
		return errors.Wrapf(err, "decode response of %s %s", req.Method, req.URL.Path)
	}
	if resp.StatusCode/100 != 2 { //nolint:gomnd
		return &APIError{Status: resp.StatusCode, Msg: commonResp.Msg}
	}
	if out == nil || len(commonResp.Data) == 0 {
		return nil
	}
	return json.Unmarshal(commonResp.Data, out)
}
