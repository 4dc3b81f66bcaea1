package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	vaultservice "github.com/patagonfinance/vault-service"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/vault"
)

// Operation names recorded for the routes that write to the ledger.
const (
	opAdvancePhase    = "advancePhase"
	opFinalizeDeposit = "finalizeDeposit"
	opFundBridge      = "fundBridge"
	opPause           = "pause"
	opUnpause         = "unpause"
)

type vaultService struct {
	host             ledgerHost
	storage          eventStorage
	cache            summaryCache
	operator         common.Address
	decimals         uint8
	defaultPageLimit uint
	maxPageLimit     uint
}

// NewVaultService creates the REST service. Write routes run as operator.
func NewVaultService(cfg Config, host ledgerHost, operator common.Address) (*vaultService, error) {
	if operator == (common.Address{}) {
		return nil, gerror.ErrZeroAddressArgument
	}
	s := &vaultService{
		host:             host,
		operator:         operator,
		defaultPageLimit: cfg.DefaultPageLimit,
		maxPageLimit:     cfg.MaxPageLimit,
	}
	err := host.View(func(c *ledger.Contracts) error {
		s.decimals = c.BaseAsset.Decimals()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WithEventStorage enables GET /events.
func (s *vaultService) WithEventStorage(storage eventStorage) *vaultService {
	s.storage = storage
	return s
}

// WithSummaryCache makes GET /vault read the cached summary first.
func (s *vaultService) WithSummaryCache(cache summaryCache) *vaultService {
	s.cache = cache
	return s
}

// VaultView is the body of GET /vault.
type VaultView struct {
	Address        common.Address     `json:"address"`
	Phase          vault.Phase        `json:"phase"`
	Round          uint64             `json:"round"`
	Rate           vault.ExchangeRate `json:"rate"`
	Paused         bool               `json:"paused"`
	Version        uint64             `json:"version"`
	PauseCount     uint64             `json:"pauseCount"`
	MinimumDeposit Amount             `json:"minimumDeposit"`
	BaseReserve    Amount             `json:"baseReserve"`
	Float          Amount             `json:"float"`
	ShareSupply    Amount             `json:"shareSupply"`
	Contracts      ledger.Addresses   `json:"contracts"`
}

// AccountView is the body of GET /accounts/{address}.
type AccountView struct {
	Address       common.Address `json:"address"`
	BaseBalance   Amount         `json:"baseBalance"`
	Shares        Amount         `json:"shares"`
	SharesValue   Amount         `json:"sharesValue"`
	VaultApproval Amount         `json:"vaultApproval"`
	Whitelisted   bool           `json:"whitelisted"`
}

// RoleView is the body of GET /roles/{role}/{address}.
type RoleView struct {
	Role    string         `json:"role"`
	RoleID  common.Hash    `json:"roleId"`
	Account common.Address `json:"account"`
	HasRole bool           `json:"hasRole"`
}

// OperationView is returned by every write route.
type OperationView struct {
	ID          string                `json:"operationId"`
	Name        string                `json:"name"`
	CommittedAt time.Time             `json:"committedAt"`
	Events      []*ledger.EventRecord `json:"events"`
}

// AdvancePhaseRequest carries the rate set by POST /phase, in base units.
type AdvancePhaseRequest struct {
	VaultToken string `json:"vaultToken"`
	BaseToken  string `json:"baseToken"`
}

// FinalizeDepositRequest is the body of POST /deposits/finalize. Amount is in display units.
type FinalizeDepositRequest struct {
	Amount      string         `json:"amount"`
	ExternalRef string         `json:"externalRef"`
	Recipient   common.Address `json:"recipient"`
}

// FundBridgeRequest is the body of POST /bridge/fund. Amount is in display units.
type FundBridgeRequest struct {
	Amount string `json:"amount"`
}

// Healthz reports the server is up.
func (s *vaultService) Healthz(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "SERVING"})
}

// GetVersion returns the build version.
func (s *vaultService) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"version": vaultservice.Version})
}

// GetVault returns the vault summary.
func (s *vaultService) GetVault(w http.ResponseWriter, r *http.Request) {
	summary, err := s.summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s.vaultView(summary))
}

// summary reads the cached summary and falls back to the ledger on any cache error.
func (s *vaultService) summary(ctx context.Context) (*vault.Summary, error) {
	if s.cache != nil {
		summary, err := s.cache.GetVaultSummary(ctx)
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, gerror.ErrCacheMiss) {
			log.Warnf("read vault summary from cache error: %v", err)
		}
	}
	var summary *vault.Summary
	err := s.host.View(func(c *ledger.Contracts) error {
		var err error
		summary, err = c.Vault.Summarize()
		return err
	})
	return summary, err
}

func (s *vaultService) vaultView(summary *vault.Summary) VaultView {
	return VaultView{
		Address:        summary.Address,
		Phase:          summary.Phase,
		Round:          summary.Round,
		Rate:           summary.Rate,
		Paused:         summary.Paused,
		Version:        summary.Version,
		PauseCount:     summary.PauseCount,
		MinimumDeposit: newAmount(summary.MinimumDeposit, s.decimals),
		BaseReserve:    newAmount(summary.BaseReserve, s.decimals),
		Float:          newAmount(summary.Float, s.decimals),
		ShareSupply:    newAmount(summary.ShareSupply, s.decimals),
		Contracts:      s.host.Addresses(),
	}
}

// GetAccount returns the balances of an account.
func (s *vaultService) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := addressParam(r, "address")
	if err != nil {
		writeError(w, err)
		return
	}
	view := AccountView{Address: account}
	err = s.host.View(func(c *ledger.Contracts) error {
		shares := c.ShareUnit.BalanceOf(account)
		value, err := c.Vault.ConvertShareToBase(shares)
		if err != nil {
			return err
		}
		view.BaseBalance = newAmount(c.BaseAsset.BalanceOf(account), s.decimals)
		view.Shares = newAmount(shares, s.decimals)
		view.SharesValue = newAmount(value, s.decimals)
		view.VaultApproval = newAmount(c.ShareUnit.Allowance(account, c.Vault.Address()), s.decimals)
		view.Whitelisted = c.Whitelist.IsWhitelisted(account)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, view)
}

// GetRole reports whether an account holds a role.
func (s *vaultService) GetRole(w http.ResponseWriter, r *http.Request) {
	role, ok := security.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		writeError(w, fmt.Errorf("%w: unknown role %q", errBadRequest, chi.URLParam(r, "role")))
		return
	}
	account, err := addressParam(r, "address")
	if err != nil {
		writeError(w, err)
		return
	}
	view := RoleView{Role: security.RoleName(role), RoleID: role, Account: account}
	_ = s.host.View(func(c *ledger.Contracts) error {
		view.HasRole = c.Registry.HasRole(role, account)
		return nil
	})
	writeData(w, view)
}

// GetEvents lists stored events, newest first.
func (s *vaultService) GetEvents(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, errNoStorage)
		return
	}
	q, err := s.eventQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := s.storage.GetEvents(r.Context(), q, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []*ledger.EventRecord{}
	}
	writeData(w, events)
}

func (s *vaultService) eventQuery(r *http.Request) (ledger.EventQuery, error) {
	values := r.URL.Query()
	q := ledger.EventQuery{Name: values.Get("name"), Limit: s.defaultPageLimit}
	if contract := values.Get("contract"); contract != "" {
		if !common.IsHexAddress(contract) {
			return q, fmt.Errorf("%w: invalid contract %q", errBadRequest, contract)
		}
		q.Contract = common.HexToAddress(contract)
	}
	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.ParseUint(limit, 10, 32)
		if err != nil || n == 0 {
			return q, fmt.Errorf("%w: invalid limit %q", errBadRequest, limit)
		}
		q.Limit = uint(n)
	}
	if s.maxPageLimit > 0 && q.Limit > s.maxPageLimit {
		q.Limit = s.maxPageLimit
	}
	if offset := values.Get("offset"); offset != "" {
		n, err := strconv.ParseUint(offset, 10, 32)
		if err != nil {
			return q, fmt.Errorf("%w: invalid offset %q", errBadRequest, offset)
		}
		q.Offset = uint(n)
	}
	return q, nil
}

// AdvancePhase moves the vault to its next phase.
func (s *vaultService) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	var req AdvancePhaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rate, err := parseRate(req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.execute(w, r, opAdvancePhase, func(c *ledger.Contracts) error {
		return c.Vault.AdvancePhase(s.operator, rate)
	})
}

// FinalizeDeposit deposits bridge funds into the vault for a recipient.
func (s *vaultService) FinalizeDeposit(w http.ResponseWriter, r *http.Request) {
	var req FinalizeDepositRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount, s.decimals)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.execute(w, r, opFinalizeDeposit, func(c *ledger.Contracts) error {
		return c.Bridge.FinalizeDeposit(s.operator, amount, req.ExternalRef, req.Recipient)
	})
}

// FundBridge moves operator funds to the deposit bridge, standing in for an
// inbound settlement.
func (s *vaultService) FundBridge(w http.ResponseWriter, r *http.Request) {
	var req FundBridgeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount, s.decimals)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.execute(w, r, opFundBridge, func(c *ledger.Contracts) error {
		ok, err := c.BaseAsset.Transfer(s.operator, c.Bridge.Address(), amount)
		if err != nil {
			return err
		}
		if !ok {
			return gerror.ErrTokenTransferFailed
		}
		return nil
	})
}

// Pause pauses the vault.
func (s *vaultService) Pause(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, opPause, func(c *ledger.Contracts) error {
		return c.Vault.Pause(s.operator)
	})
}

// Unpause resumes the vault.
func (s *vaultService) Unpause(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, opUnpause, func(c *ledger.Contracts) error {
		return c.Vault.Unpause(s.operator)
	})
}

func (s *vaultService) execute(w http.ResponseWriter, r *http.Request, name string, fn func(c *ledger.Contracts) error) {
	op, err := s.host.Execute(r.Context(), name, s.operator, fn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, OperationView{ID: op.ID.String(), Name: op.Name, CommittedAt: op.CommittedAt, Events: op.Events})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func addressParam(r *http.Request, name string) (common.Address, error) {
	s := chi.URLParam(r, name)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: invalid address %q", errBadRequest, s)
	}
	return common.HexToAddress(s), nil
}

func parseRate(req AdvancePhaseRequest) (vault.ExchangeRate, error) {
	var (
		rate vault.ExchangeRate
		err  error
	)
	if rate.VaultToken, err = parseUnits(req.VaultToken); err != nil {
		return rate, fmt.Errorf("%w: vaultToken: %v", errBadRequest, err)
	}
	if rate.BaseToken, err = parseUnits(req.BaseToken); err != nil {
		return rate, fmt.Errorf("%w: baseToken: %v", errBadRequest, err)
	}
	return rate, nil
}
