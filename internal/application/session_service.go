package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// SessionService owns the one WalletSession. User operations and provider
// events are serialised by opMu; stateMu only guards reads of the snapshot so
// a view can observe Connecting while an operation is in flight.
type SessionService struct {
	provider ports.WalletProvider
	store    ports.SessionStore
	chain    domain.Chain
	clock    ports.Clock
	logger   *zap.Logger

	opMu    sync.Mutex
	stateMu sync.RWMutex
	session domain.WalletSession
	updates chan domain.WalletSession
}

// NewSessionService accepts a nil provider, meaning no wallet is reachable.
func NewSessionService(provider ports.WalletProvider, store ports.SessionStore, chain domain.Chain, logger *zap.Logger, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		provider: provider,
		store:    store,
		chain:    chain,
		clock:    clock,
		logger:   logger.Named("session"),
		updates:  make(chan domain.WalletSession, 1),
	}
}

func (s *SessionService) Chain() domain.Chain {
	return s.chain
}

func (s *SessionService) ProviderAvailable() bool {
	return s.provider != nil
}

func (s *SessionService) Snapshot() domain.WalletSession {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.session
}

// Updates carries the latest snapshot after every change. Slow readers only
// ever see the newest state.
func (s *SessionService) Updates() <-chan domain.WalletSession {
	return s.updates
}

func (s *SessionService) Connect(ctx context.Context) (domain.WalletSession, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}

	if s.provider == nil {
		s.update(func(ws *domain.WalletSession) { ws.Fail(domain.ErrProviderUnavailable.Error(), s.clock.Now()) })
		return s.Snapshot(), domain.ErrProviderUnavailable
	}

	s.update(func(ws *domain.WalletSession) { ws.BeginConnecting() })

	address, balance, err := s.connect(ctx)
	if err != nil {
		s.logger.Warn("wallet connection failed", zap.Error(err))
		s.failAndForget(ctx, err)
		return s.Snapshot(), err
	}

	s.update(func(ws *domain.WalletSession) { ws.MarkConnected(address, balance) })
	s.persist(ctx, address)
	s.logger.Info("wallet connected", zap.String("address", address))

	return s.Snapshot(), nil
}

func (s *SessionService) connect(ctx context.Context) (string, string, error) {
	permissions := map[string]any{"eth_accounts": struct{}{}}
	if err := s.provider.Request(ctx, nil, "wallet_requestPermissions", permissions); err != nil {
		return "", "", fmt.Errorf("request wallet permissions: %w", err)
	}

	var accounts []string
	if err := s.provider.Request(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return "", "", fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", "", domain.ErrNoAccountsGranted
	}
	address := accounts[0]

	if err := s.ensureChain(ctx); err != nil {
		return "", "", err
	}

	return address, s.fetchBalance(ctx, address), nil
}

// Disconnect forgets the session locally. The wallet keeps its own permissions.
func (s *SessionService) Disconnect(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.disconnect(ctx)
}

func (s *SessionService) disconnect(ctx context.Context) error {
	s.update(func(ws *domain.WalletSession) { ws.Reset() })

	// A cancelled caller must not leave the address behind.
	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}

	s.logger.Info("wallet disconnected")
	return nil
}

// Restore reconnects silently when the persisted address is still authorized
// and the wallet is on the target chain. A persisted address missing from the
// wallet's accounts is kept: a locked wallet reports no accounts.
func (s *SessionService) Restore(ctx context.Context) (domain.WalletSession, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}

	persisted, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return s.Snapshot(), nil
		}
		return s.Snapshot(), fmt.Errorf("load persisted session: %w", err)
	}
	if s.provider == nil {
		return s.Snapshot(), nil
	}

	var accounts []string
	if err := s.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
		return s.Snapshot(), fmt.Errorf("read wallet accounts: %w", err)
	}

	address, ok := findAddress(accounts, persisted.Address)
	if !ok {
		s.logger.Debug("persisted address not authorized", zap.String("address", persisted.Address))
		return s.Snapshot(), nil
	}

	if err := s.ensureChain(ctx); err != nil {
		s.update(func(ws *domain.WalletSession) { ws.Fail(err.Error(), s.clock.Now()) })
		return s.Snapshot(), err
	}

	balance := s.fetchBalance(ctx, address)
	s.update(func(ws *domain.WalletSession) { ws.MarkConnected(address, balance) })

	return s.Snapshot(), nil
}

// Watch feeds provider events into HandleEvent until ctx ends or the provider goes away.
func (s *SessionService) Watch(ctx context.Context) error {
	if s.provider == nil {
		return domain.ErrProviderUnavailable
	}

	events, err := s.provider.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to wallet events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.HandleEvent(ctx, event)
		}
	}
}

func (s *SessionService) HandleEvent(ctx context.Context, event ports.ProviderEvent) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.logger.Debug("provider event", zap.String("kind", string(event.Kind)), zap.Strings("accounts", event.Accounts), zap.String("chain_id", event.ChainID))

	switch event.Kind {
	case ports.EventAccountsChanged:
		s.handleAccountsChanged(ctx, event.Accounts)
	case ports.EventChainChanged:
		s.handleChainChanged(ctx)
	case ports.EventDisconnected:
		if event.Err != nil {
			s.logger.Warn("wallet provider disconnected", zap.Error(event.Err))
		}
		if err := s.disconnect(ctx); err != nil {
			s.logger.Warn("disconnect after provider loss", zap.Error(err))
		}
	}
}

func (s *SessionService) handleAccountsChanged(ctx context.Context, accounts []string) {
	if len(accounts) == 0 {
		if err := s.disconnect(ctx); err != nil {
			s.logger.Warn("disconnect after accounts revoked", zap.Error(err))
		}
		return
	}
	if !s.Snapshot().Connected {
		return
	}

	address := accounts[0]
	s.update(func(ws *domain.WalletSession) { ws.Address = address })
	s.persist(ctx, address)

	balance := s.fetchBalance(ctx, address)
	s.update(func(ws *domain.WalletSession) {
		if ws.Connected && domain.SameAddress(ws.Address, address) {
			ws.Balance = balance
		}
	})
}

func (s *SessionService) handleChainChanged(ctx context.Context) {
	current := s.Snapshot()
	if !current.Connected {
		return
	}

	if err := s.ensureChain(ctx); err != nil {
		s.logger.Warn("wallet left the target network", zap.Error(err))
		s.update(func(ws *domain.WalletSession) { ws.Fail(err.Error(), s.clock.Now()) })
		return
	}

	balance := s.fetchBalance(ctx, current.Address)
	s.update(func(ws *domain.WalletSession) {
		if ws.Connected && domain.SameAddress(ws.Address, current.Address) {
			ws.Balance = balance
		}
	})
}

// ensureChain switches the wallet to the target chain, registering it first
// when the wallet does not know it (code 4902). The switch is retried once.
func (s *SessionService) ensureChain(ctx context.Context) error {
	var current string
	if err := s.provider.Request(ctx, &current, "eth_chainId"); err != nil {
		return fmt.Errorf("%w: read chain id: %w", domain.ErrNetworkSwitchFailed, err)
	}
	if s.chain.Matches(current) {
		return nil
	}

	s.logger.Info("switching wallet network", zap.String("from", current), zap.String("to", s.chain.HexID()))

	err := s.switchChain(ctx)
	if err == nil {
		return nil
	}

	var coded ports.CodedError
	if !errors.As(err, &coded) || coded.ErrorCode() != domain.ErrCodeUnrecognizedChain {
		return fmt.Errorf("%w: %w", domain.ErrNetworkSwitchFailed, err)
	}

	if err := s.provider.Request(ctx, nil, "wallet_addEthereumChain", s.chain.AddChainParams()); err != nil {
		return fmt.Errorf("%w: add %s: %w", domain.ErrNetworkSwitchFailed, s.chain.Name, err)
	}
	if err := s.switchChain(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetworkSwitchFailed, err)
	}

	return nil
}

func (s *SessionService) switchChain(ctx context.Context) error {
	return s.provider.Request(ctx, nil, "wallet_switchEthereumChain", domain.SwitchChainParams{ChainID: s.chain.HexID()})
}

func (s *SessionService) fetchBalance(ctx context.Context, address string) string {
	var wei hexutil.Big
	if err := s.provider.Request(ctx, &wei, "eth_getBalance", address, "latest"); err != nil {
		s.logger.Warn("balance lookup failed", zap.String("address", address), zap.Error(err))
		return ""
	}

	return domain.FormatEther(wei.ToInt())
}

func (s *SessionService) persist(ctx context.Context, address string) {
	err := s.store.Save(context.WithoutCancel(ctx), domain.PersistedSession{Address: address, ConnectedAt: s.clock.Now()})
	if err != nil {
		s.logger.Warn("persist session failed", zap.Error(err))
	}
}

func (s *SessionService) failAndForget(ctx context.Context, cause error) {
	s.update(func(ws *domain.WalletSession) { ws.Fail(cause.Error(), s.clock.Now()) })
	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("clear persisted session failed", zap.Error(err))
	}
}

func (s *SessionService) update(mutate func(*domain.WalletSession)) {
	s.stateMu.Lock()
	mutate(&s.session)
	snapshot := s.session
	s.stateMu.Unlock()

	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snapshot:
	default:
	}
}

func findAddress(accounts []string, want string) (string, bool) {
	for _, account := range accounts {
		if domain.SameAddress(account, want) {
			return account, true
		}
	}
	return "", false
}
