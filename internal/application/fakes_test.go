package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/mock"
)

const (
	addrA = "0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa"
	addrB = "0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mockAnyContext() interface{} {
	return mock.Anything
}

type codedErr struct {
	code int
}

func (e codedErr) Error() string  { return fmt.Sprintf("provider error %d", e.code) }
func (e codedErr) ErrorCode() int { return e.code }

// fakeProvider is a scripted in-memory wallet.
type fakeProvider struct {
	mu         sync.Mutex
	chainID    string
	accounts   []string
	balance    *big.Int
	errs       map[string]error
	switchErrs []error
	calls      []string
	events     chan ports.ProviderEvent
	before     map[string]func()
}

func newFakeProvider(chainID string, accounts ...string) *fakeProvider {
	return &fakeProvider{
		chainID:  chainID,
		accounts: accounts,
		balance:  big.NewInt(1_500_000_000_000_000_000),
		errs:     map[string]error{},
		events:   make(chan ports.ProviderEvent, 8),
		before:   map[string]func(){},
	}
}

func (p *fakeProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, method)
	if hook := p.before[method]; hook != nil {
		hook()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := p.errs[method]; err != nil {
		return err
	}

	switch method {
	case "wallet_requestPermissions", "wallet_addEthereumChain":
		return nil
	case "eth_requestAccounts", "eth_accounts":
		*result.(*[]string) = append([]string(nil), p.accounts...)
	case "eth_chainId":
		*result.(*string) = p.chainID
	case "wallet_switchEthereumChain":
		if len(p.switchErrs) > 0 {
			err := p.switchErrs[0]
			p.switchErrs = p.switchErrs[1:]
			if err != nil {
				return err
			}
		}
		p.chainID = params[0].(domain.SwitchChainParams).ChainID
	case "eth_getBalance":
		*result.(*hexutil.Big) = hexutil.Big(*new(big.Int).Set(p.balance))
	default:
		return errors.New("unexpected method " + method)
	}

	return nil
}

func (p *fakeProvider) Subscribe(context.Context) (<-chan ports.ProviderEvent, error) {
	return p.events, nil
}

func (p *fakeProvider) Close() {}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeProvider) ResetCalls() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

func (p *fakeProvider) SetChain(chainID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chainID = chainID
}

// Before runs fn when method is requested, ahead of its normal handling.
func (p *fakeProvider) Before(method string, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.before[method] = fn
}

func (p *fakeProvider) Fail(method string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[method] = err
}

type memSessionStore struct {
	mu      sync.Mutex
	session *domain.PersistedSession
	saves   int
	clears  int
}

func (m *memSessionStore) Load(context.Context) (domain.PersistedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return domain.PersistedSession{}, domain.ErrNoSession
	}
	return *m.session, nil
}

func (m *memSessionStore) Save(_ context.Context, session domain.PersistedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.session = &session
	return nil
}

func (m *memSessionStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.session = nil
	return nil
}

func (m *memSessionStore) Address() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Address
}

type staticSession domain.WalletSession

func (s staticSession) Snapshot() domain.WalletSession {
	return domain.WalletSession(s)
}
