package application

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/umi-memepool/internal/adapters/provider"
	"github.com/bnema/umi-memepool/internal/adapters/provider/providertest"
	tomlrepo "github.com/bnema/umi-memepool/internal/adapters/repo/toml"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	portmocks "github.com/bnema/umi-memepool/internal/ports/mocks"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	devnetHex  = "0xa455"
	mainnetHex = "0x1"
)

func newTestSessionService(p ports.WalletProvider, store ports.SessionStore) *SessionService {
	return NewSessionService(p, store, domain.UmiDevnet(), nil, fixedClock{now: testNow})
}

func TestConnectHappyPath(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	store := &memSessionStore{}
	svc := newTestSessionService(p, store)

	session, err := svc.Connect(context.Background())
	require.NoError(t, err)

	assert.True(t, session.Connected)
	assert.False(t, session.Connecting)
	assert.Equal(t, addrA, session.Address)
	assert.Equal(t, "1.5", session.Balance)
	assert.Empty(t, session.LastError)
	assert.True(t, session.Valid())

	assert.Equal(t, []string{
		"wallet_requestPermissions",
		"eth_requestAccounts",
		"eth_chainId",
		"eth_getBalance",
	}, p.Calls())

	assert.Equal(t, addrA, store.Address())
	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testNow, persisted.ConnectedAt)
}

func TestConnectSwitchesWrongChain(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(mainnetHex, addrA)
	svc := newTestSessionService(p, &memSessionStore{})

	session, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Connected)

	assert.Equal(t, []string{
		"wallet_requestPermissions",
		"eth_requestAccounts",
		"eth_chainId",
		"wallet_switchEthereumChain",
		"eth_getBalance",
	}, p.Calls())
}

func TestConnectAddsUnknownChainAndRetriesSwitch(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(mainnetHex, addrA)
	p.switchErrs = []error{codedErr{code: domain.ErrCodeUnrecognizedChain}}
	svc := newTestSessionService(p, &memSessionStore{})

	session, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Connected)

	assert.Equal(t, []string{
		"wallet_requestPermissions",
		"eth_requestAccounts",
		"eth_chainId",
		"wallet_switchEthereumChain",
		"wallet_addEthereumChain",
		"wallet_switchEthereumChain",
		"eth_getBalance",
	}, p.Calls())
}

func TestConnectSwitchFailureResetsSession(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(mainnetHex, addrA)
	p.switchErrs = []error{codedErr{code: domain.ErrCodeUserRejected}}
	store := &memSessionStore{session: &domain.PersistedSession{Address: addrA}}
	svc := newTestSessionService(p, store)

	session, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNetworkSwitchFailed)

	assert.False(t, session.Connected)
	assert.False(t, session.Connecting)
	assert.Empty(t, session.Address)
	assert.Contains(t, session.LastError, domain.ErrNetworkSwitchFailed.Error())
	assert.Equal(t, testNow, session.ErrorAt)
	assert.Empty(t, store.Address())
	assert.NotContains(t, p.Calls(), "wallet_addEthereumChain")
}

func TestConnectAddChainFailure(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(mainnetHex, addrA)
	p.switchErrs = []error{codedErr{code: domain.ErrCodeUnrecognizedChain}}
	p.Fail("wallet_addEthereumChain", codedErr{code: domain.ErrCodeUserRejected})
	svc := newTestSessionService(p, &memSessionStore{})

	_, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNetworkSwitchFailed)
	assert.ErrorContains(t, err, "add Umi Devnet")
}

func TestConnectNoAccounts(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex)
	svc := newTestSessionService(p, &memSessionStore{})

	session, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNoAccountsGranted)
	assert.False(t, session.Connected)
	assert.Equal(t, domain.ErrNoAccountsGranted.Error(), session.LastError)
	assert.NotContains(t, p.Calls(), "eth_chainId")
}

func TestConnectRejectedPermissions(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	p.Fail("wallet_requestPermissions", codedErr{code: domain.ErrCodeUserRejected})
	store := &memSessionStore{}
	svc := newTestSessionService(p, store)

	session, err := svc.Connect(context.Background())
	require.Error(t, err)

	var coded ports.CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, domain.ErrCodeUserRejected, coded.ErrorCode())
	assert.False(t, session.Connected)
	assert.NotEmpty(t, session.LastError)
	assert.Equal(t, []string{"wallet_requestPermissions"}, p.Calls())
	assert.Equal(t, 1, store.clears)
}

func TestConnectWithoutProvider(t *testing.T) {
	t.Parallel()

	store := &memSessionStore{session: &domain.PersistedSession{Address: addrA}}
	svc := newTestSessionService(nil, store)

	assert.False(t, svc.ProviderAvailable())

	session, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.False(t, session.Connected)
	assert.Equal(t, domain.ErrProviderUnavailable.Error(), session.LastError)
	assert.Equal(t, addrA, store.Address())
}

func TestConnectBalanceFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	p.Fail("eth_getBalance", errors.New("header not found"))
	svc := newTestSessionService(p, &memSessionStore{})

	session, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Connected)
	assert.Empty(t, session.Balance)
}

func TestConnectCancelledContext(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	svc := newTestSessionService(p, &memSessionStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Connect(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.Calls())
}

func TestDisconnectClearsEverything(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	store := &memSessionStore{}
	svc := newTestSessionService(p, store)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background()))

	assert.Equal(t, domain.WalletSession{}, svc.Snapshot())
	assert.Empty(t, store.Address())
}

func TestCancelledConnectForgetsPersistedAddress(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("session.path", filepath.Join(t.TempDir(), "session.toml"))
	repo, err := tomlrepo.NewSessionRepository(v)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), domain.PersistedSession{Address: addrB, ConnectedAt: testNow}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newFakeProvider(devnetHex, addrA)
	p.Before("eth_requestAccounts", cancel)
	svc := newTestSessionService(p, repo)

	_, err = svc.Connect(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.False(t, svc.Snapshot().Connected)
}

func TestDisconnectClearsStoreEvenWhenCancelled(t *testing.T) {
	t.Parallel()

	store := portmocks.NewMockSessionStore(t)
	store.EXPECT().
		Clear(mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })).
		Return(nil).
		Once()
	svc := newTestSessionService(newFakeProvider(devnetHex, addrA), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Disconnect(ctx))
	assert.Equal(t, domain.WalletSession{}, svc.Snapshot())
}

func TestRestore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		persisted     *domain.PersistedSession
		walletChain   string
		accounts      []string
		switchErrs    []error
		wantConnected bool
		wantErr       error
		wantStored    string
	}{
		{
			name:          "authorized address reconnects",
			persisted:     &domain.PersistedSession{Address: addrA},
			walletChain:   devnetHex,
			accounts:      []string{addrB, addrA},
			wantConnected: true,
			wantStored:    addrA,
		},
		{
			name:          "address match ignores case",
			persisted:     &domain.PersistedSession{Address: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
			walletChain:   devnetHex,
			accounts:      []string{addrA},
			wantConnected: true,
			wantStored:    "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
		{
			name:        "stale address stays disconnected",
			persisted:   &domain.PersistedSession{Address: addrA},
			walletChain: devnetHex,
			accounts:    []string{addrB},
			wantStored:  addrA,
		},
		{
			name:        "locked wallet keeps persisted address",
			persisted:   &domain.PersistedSession{Address: addrA},
			walletChain: devnetHex,
			wantStored:  addrA,
		},
		{
			name:        "nothing persisted",
			walletChain: devnetHex,
			accounts:    []string{addrA},
		},
		{
			name:        "chain switch failure",
			persisted:   &domain.PersistedSession{Address: addrA},
			walletChain: mainnetHex,
			accounts:    []string{addrA},
			switchErrs:  []error{codedErr{code: domain.ErrCodeUserRejected}},
			wantErr:     domain.ErrNetworkSwitchFailed,
			wantStored:  addrA,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newFakeProvider(tc.walletChain, tc.accounts...)
			p.switchErrs = tc.switchErrs
			store := &memSessionStore{session: tc.persisted}
			svc := newTestSessionService(p, store)

			session, err := svc.Restore(context.Background())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.NotEmpty(t, session.LastError)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantConnected, session.Connected)
			assert.Equal(t, tc.wantStored, store.Address())
			assert.NotContains(t, p.Calls(), "eth_requestAccounts")
			assert.NotContains(t, p.Calls(), "wallet_requestPermissions")
			if tc.wantConnected {
				assert.True(t, domain.SameAddress(tc.persisted.Address, session.Address))
				assert.Equal(t, "1.5", session.Balance)
			}
		})
	}
}

func TestRestoreWithoutProviderKeepsSession(t *testing.T) {
	t.Parallel()

	store := &memSessionStore{session: &domain.PersistedSession{Address: addrA}}
	svc := newTestSessionService(nil, store)

	session, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, session.Connected)
	assert.Equal(t, addrA, store.Address())
}

func connectedService(t *testing.T, p *fakeProvider, store *memSessionStore) *SessionService {
	t.Helper()

	svc := newTestSessionService(p, store)
	_, err := svc.Connect(context.Background())
	require.NoError(t, err)
	p.ResetCalls()

	return svc
}

func TestHandleAccountsChanged(t *testing.T) {
	t.Parallel()

	t.Run("empty list disconnects", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		store := &memSessionStore{}
		svc := connectedService(t, p, store)

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventAccountsChanged})

		assert.Equal(t, domain.WalletSession{}, svc.Snapshot())
		assert.Empty(t, store.Address())
	})

	t.Run("new account replaces address", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		store := &memSessionStore{}
		svc := connectedService(t, p, store)
		p.balance = big.NewInt(2_000_000_000_000_000_000)

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{addrB}})

		session := svc.Snapshot()
		assert.True(t, session.Connected)
		assert.Equal(t, addrB, session.Address)
		assert.Equal(t, "2", session.Balance)
		assert.Equal(t, addrB, store.Address())
		assert.Equal(t, []string{"eth_getBalance"}, p.Calls())
	})

	t.Run("ignored while disconnected", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		store := &memSessionStore{}
		svc := newTestSessionService(p, store)

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{addrB}})

		assert.False(t, svc.Snapshot().Connected)
		assert.Empty(t, store.Address())
		assert.Empty(t, p.Calls())
	})
}

func TestHandleChainChanged(t *testing.T) {
	t.Parallel()

	t.Run("back on target refreshes balance", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		svc := connectedService(t, p, &memSessionStore{})
		p.balance = big.NewInt(250_000_000_000_000_000)

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: devnetHex})

		session := svc.Snapshot()
		assert.True(t, session.Connected)
		assert.Equal(t, "0.25", session.Balance)
		assert.Equal(t, []string{"eth_chainId", "eth_getBalance"}, p.Calls())
	})

	t.Run("moved away is switched back", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		svc := connectedService(t, p, &memSessionStore{})
		p.SetChain(mainnetHex)

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: mainnetHex})

		assert.True(t, svc.Snapshot().Connected)
		assert.Equal(t, []string{"eth_chainId", "wallet_switchEthereumChain", "eth_getBalance"}, p.Calls())
	})

	t.Run("switch back refused", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(devnetHex, addrA)
		store := &memSessionStore{}
		svc := connectedService(t, p, store)
		p.SetChain(mainnetHex)
		p.switchErrs = []error{codedErr{code: domain.ErrCodeUserRejected}}

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: mainnetHex})

		session := svc.Snapshot()
		assert.False(t, session.Connected)
		assert.Contains(t, session.LastError, domain.ErrNetworkSwitchFailed.Error())
		assert.Equal(t, addrA, store.Address())
	})

	t.Run("ignored while disconnected", func(t *testing.T) {
		t.Parallel()
		p := newFakeProvider(mainnetHex, addrA)
		svc := newTestSessionService(p, &memSessionStore{})

		svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: mainnetHex})

		assert.Empty(t, p.Calls())
	})
}

func TestHandleProviderDisconnect(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	store := &memSessionStore{}
	svc := connectedService(t, p, store)

	svc.HandleEvent(context.Background(), ports.ProviderEvent{Kind: ports.EventDisconnected, Err: errors.New("connection reset")})

	assert.Equal(t, domain.WalletSession{}, svc.Snapshot())
	assert.Empty(t, store.Address())
}

func TestWatchStopsOnCancel(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	svc := connectedService(t, p, &memSessionStore{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx) }()

	p.events <- ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{addrB}}
	require.Eventually(t, func() bool {
		return svc.Snapshot().Address == addrB
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchWithoutProvider(t *testing.T) {
	t.Parallel()

	svc := newTestSessionService(nil, &memSessionStore{})
	assert.ErrorIs(t, svc.Watch(context.Background()), domain.ErrProviderUnavailable)
}

func TestUpdatesKeepLatestSnapshot(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(devnetHex, addrA)
	svc := newTestSessionService(p, &memSessionStore{})

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(context.Background()))

	select {
	case latest := <-svc.Updates():
		assert.Equal(t, domain.WalletSession{}, latest)
	default:
		t.Fatal("no update published")
	}

	select {
	case extra := <-svc.Updates():
		t.Fatalf("unexpected stale update %+v", extra)
	default:
	}
}

func TestSessionStaysValidAcrossOperations(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(mainnetHex, addrA)
	svc := newTestSessionService(p, &memSessionStore{})
	ctx := context.Background()

	steps := []func(){
		func() { _, _ = svc.Connect(ctx) },
		func() { svc.HandleEvent(ctx, ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{addrB}}) },
		func() {
			p.SetChain(mainnetHex)
			p.switchErrs = []error{errors.New("nope")}
			svc.HandleEvent(ctx, ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: mainnetHex})
		},
		func() { _, _ = svc.Connect(ctx) },
		func() { svc.HandleEvent(ctx, ports.ProviderEvent{Kind: ports.EventAccountsChanged}) },
		func() { _ = svc.Disconnect(ctx) },
	}

	for i, step := range steps {
		step()
		session := svc.Snapshot()
		assert.True(t, session.Valid(), "step %d left invalid session %+v", i, session)
		assert.False(t, session.Connecting, "step %d left session connecting", i)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	svc := connectedService(t, newFakeProvider(devnetHex, addrA), &memSessionStore{})

	status := svc.Status()
	assert.True(t, status.ProviderAvailable)
	assert.True(t, status.Session.Connected)
	assert.Equal(t, domain.UmiDevnetChainID, status.Chain.ID)
}

func TestSessionServiceOverRPCWallet(t *testing.T) {
	t.Parallel()

	wallet := providertest.NewWallet(mainnetHex, addrA)
	wallet.SetBalance(big.NewInt(3_000_000_000_000_000_000))
	server, err := wallet.Server()
	require.NoError(t, err)
	p := provider.New(rpc.DialInProc(server), nil)
	t.Cleanup(func() {
		p.Close()
		server.Stop()
	})

	store := &memSessionStore{}
	svc := newTestSessionService(p, store)

	session, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Connected)
	assert.Equal(t, "3", session.Balance)
	assert.Equal(t, devnetHex, wallet.ChainID())
	assert.True(t, wallet.KnowsChain(devnetHex))
	assert.Equal(t, []string{
		"wallet_requestPermissions",
		"eth_requestAccounts",
		"eth_chainId",
		"wallet_switchEthereumChain",
		"wallet_addEthereumChain",
		"wallet_switchEthereumChain",
		"eth_getBalance",
	}, wallet.Calls())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = svc.Watch(ctx) }()
	require.Eventually(t, func() bool { return wallet.Subscribers() == 2 }, 2*time.Second, 10*time.Millisecond)

	wallet.SetAccounts()
	require.Eventually(t, func() bool { return !svc.Snapshot().Connected }, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, store.Address())
}
