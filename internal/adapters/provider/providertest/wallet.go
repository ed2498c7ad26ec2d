// Package providertest runs an in-memory EIP-1193 wallet behind a go-ethereum
// rpc.Server for tests that need a real JSON-RPC peer.
package providertest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Error is a JSON-RPC error carrying an EIP-1193 code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string  { return e.Message }
func (e *Error) ErrorCode() int { return e.Code }

type SendTransactionArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value"`
}

type subscriber struct {
	event    string
	notifier *rpc.Notifier
	id       rpc.ID
}

type Wallet struct {
	mu sync.Mutex

	chainID      string
	accounts     []string
	knownChains  map[string]bool
	balance      *big.Int
	rejectAccess bool
	switchErr    *Error
	calls        []string
	subs         map[rpc.ID]subscriber

	// OnSendTransaction handles eth_sendTransaction. Nil rejects with 4001.
	OnSendTransaction func(args SendTransactionArgs) (common.Hash, error)
}

// NewWallet starts on chainID with the given accounts unlocked. Only chainID
// is known to the wallet until wallet_addEthereumChain is called.
func NewWallet(chainID string, accounts ...string) *Wallet {
	return &Wallet{
		chainID:     chainID,
		accounts:    append([]string(nil), accounts...),
		knownChains: map[string]bool{strings.ToLower(chainID): true},
		balance:     new(big.Int),
		subs:        map[rpc.ID]subscriber{},
	}
}

// Server exposes the wallet under the eth and wallet namespaces.
func (w *Wallet) Server() (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("eth", &ethAPI{w: w}); err != nil {
		return nil, err
	}
	if err := server.RegisterName("wallet", &walletAPI{w: w}); err != nil {
		return nil, err
	}

	return server, nil
}

func (w *Wallet) SetBalance(wei *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = new(big.Int).Set(wei)
}

func (w *Wallet) RejectAccess(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectAccess = reject
}

// FailSwitch makes every wallet_switchEthereumChain fail with err.
func (w *Wallet) FailSwitch(err *Error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switchErr = err
}

func (w *Wallet) ChainID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID
}

func (w *Wallet) KnowsChain(chainID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.knownChains[strings.ToLower(chainID)]
}

func (w *Wallet) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func (w *Wallet) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

// SetAccounts replaces the authorized accounts and notifies subscribers.
func (w *Wallet) SetAccounts(accounts ...string) {
	w.mu.Lock()
	w.accounts = append([]string(nil), accounts...)
	w.mu.Unlock()

	w.notify("accountsChanged", append([]string{}, accounts...))
}

// SetChain switches the active chain from the wallet side and notifies subscribers.
func (w *Wallet) SetChain(chainID string) {
	w.mu.Lock()
	w.chainID = chainID
	w.knownChains[strings.ToLower(chainID)] = true
	w.mu.Unlock()

	w.notify("chainChanged", chainID)
}

func (w *Wallet) record(method string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, method)
}

func (w *Wallet) notify(event string, data any) {
	w.mu.Lock()
	targets := make([]subscriber, 0, len(w.subs))
	for _, sub := range w.subs {
		if sub.event == event {
			targets = append(targets, sub)
		}
	}
	w.mu.Unlock()

	for _, sub := range targets {
		_ = sub.notifier.Notify(sub.id, data)
	}
}

func (w *Wallet) subscribe(ctx context.Context, event string) (*rpc.Subscription, error) {
	notifier, ok := rpc.NotifierFromContext(ctx)
	if !ok {
		return nil, rpc.ErrNotificationsUnsupported
	}

	sub := notifier.CreateSubscription()
	w.mu.Lock()
	w.subs[sub.ID] = subscriber{event: event, notifier: notifier, id: sub.ID}
	w.mu.Unlock()

	go func() {
		<-sub.Err()
		w.mu.Lock()
		delete(w.subs, sub.ID)
		w.mu.Unlock()
	}()

	return sub, nil
}

type ethAPI struct{ w *Wallet }

func (api *ethAPI) ChainId() string {
	api.w.record("eth_chainId")
	return api.w.ChainID()
}

func (api *ethAPI) Accounts() []string {
	api.w.record("eth_accounts")
	api.w.mu.Lock()
	defer api.w.mu.Unlock()
	return append([]string{}, api.w.accounts...)
}

func (api *ethAPI) RequestAccounts() ([]string, error) {
	api.w.record("eth_requestAccounts")
	api.w.mu.Lock()
	defer api.w.mu.Unlock()
	if api.w.rejectAccess {
		return nil, &Error{Code: domain.ErrCodeUserRejected, Message: "User rejected the request."}
	}
	return append([]string{}, api.w.accounts...), nil
}

func (api *ethAPI) GetBalance(address common.Address, block string) (*hexutil.Big, error) {
	api.w.record("eth_getBalance")
	api.w.mu.Lock()
	defer api.w.mu.Unlock()
	return (*hexutil.Big)(new(big.Int).Set(api.w.balance)), nil
}

func (api *ethAPI) SendTransaction(args SendTransactionArgs) (common.Hash, error) {
	api.w.record("eth_sendTransaction")
	if api.w.OnSendTransaction == nil {
		return common.Hash{}, &Error{Code: domain.ErrCodeUserRejected, Message: "User rejected the request."}
	}
	return api.w.OnSendTransaction(args)
}

func (api *ethAPI) AccountsChanged(ctx context.Context) (*rpc.Subscription, error) {
	return api.w.subscribe(ctx, "accountsChanged")
}

func (api *ethAPI) ChainChanged(ctx context.Context) (*rpc.Subscription, error) {
	return api.w.subscribe(ctx, "chainChanged")
}

type walletAPI struct{ w *Wallet }

type permission struct {
	ParentCapability string `json:"parentCapability"`
}

func (api *walletAPI) RequestPermissions(request map[string]json.RawMessage) ([]permission, error) {
	api.w.record("wallet_requestPermissions")
	api.w.mu.Lock()
	defer api.w.mu.Unlock()
	if api.w.rejectAccess {
		return nil, &Error{Code: domain.ErrCodeUserRejected, Message: "User rejected the request."}
	}

	granted := make([]permission, 0, len(request))
	for name := range request {
		granted = append(granted, permission{ParentCapability: name})
	}
	return granted, nil
}

func (api *walletAPI) SwitchEthereumChain(params domain.SwitchChainParams) error {
	api.w.record("wallet_switchEthereumChain")
	api.w.mu.Lock()
	if api.w.switchErr != nil {
		err := api.w.switchErr
		api.w.mu.Unlock()
		return err
	}
	if !api.w.knownChains[strings.ToLower(params.ChainID)] {
		api.w.mu.Unlock()
		return &Error{Code: domain.ErrCodeUnrecognizedChain, Message: fmt.Sprintf("Unrecognized chain ID %q.", params.ChainID)}
	}
	changed := api.w.chainID != params.ChainID
	api.w.chainID = params.ChainID
	api.w.mu.Unlock()

	if changed {
		api.w.notify("chainChanged", params.ChainID)
	}
	return nil
}

func (api *walletAPI) AddEthereumChain(params domain.AddChainParams) error {
	api.w.record("wallet_addEthereumChain")
	api.w.mu.Lock()
	defer api.w.mu.Unlock()
	if params.ChainID == "" || len(params.RPCURLs) == 0 {
		return &Error{Code: -32602, Message: "invalid chain parameters"}
	}
	api.w.knownChains[strings.ToLower(params.ChainID)] = true
	return nil
}
