package provider

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/umi-memepool/internal/adapters/provider/providertest"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "0x1111111111111111111111111111111111111111"

func newInProcProvider(t *testing.T, wallet *providertest.Wallet) (*Provider, *rpc.Server) {
	t.Helper()

	server, err := wallet.Server()
	require.NoError(t, err)
	p := New(rpc.DialInProc(server), nil)
	t.Cleanup(func() {
		p.Close()
		server.Stop()
	})

	return p, server
}

func nextEvent(t *testing.T, events <-chan ports.ProviderEvent) ports.ProviderEvent {
	t.Helper()

	select {
	case event, ok := <-events:
		require.True(t, ok, "event channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for provider event")
		return ports.ProviderEvent{}
	}
}

func TestDialProbesChainID(t *testing.T) {
	t.Parallel()

	wallet := providertest.NewWallet("0xa455", testAccount)
	server, err := wallet.Server()
	require.NoError(t, err)
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	p, err := Dial(context.Background(), httpServer.URL, nil)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	assert.Equal(t, []string{"eth_chainId"}, wallet.Calls())
}

func TestDialReportsUnavailableProvider(t *testing.T) {
	t.Parallel()

	httpServer := httptest.NewServer(nil)
	url := httpServer.URL
	httpServer.Close()

	_, err := Dial(context.Background(), url, nil)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	_, err = Dial(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestRequestDecodesResult(t *testing.T) {
	t.Parallel()

	p, _ := newInProcProvider(t, providertest.NewWallet("0xa455", testAccount))

	var accounts []string
	require.NoError(t, p.Request(context.Background(), &accounts, "eth_requestAccounts"))
	assert.Equal(t, []string{testAccount}, accounts)

	require.NoError(t, p.Request(context.Background(), nil, "wallet_requestPermissions", map[string]any{"eth_accounts": struct{}{}}))
}

func TestRequestKeepsProviderErrorCode(t *testing.T) {
	t.Parallel()

	p, _ := newInProcProvider(t, providertest.NewWallet("0x1", testAccount))

	err := p.Request(context.Background(), nil, "wallet_switchEthereumChain", domain.SwitchChainParams{ChainID: "0xa455"})
	require.Error(t, err)

	var coded ports.CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, domain.ErrCodeUnrecognizedChain, coded.ErrorCode())
	assert.Contains(t, err.Error(), "wallet_switchEthereumChain")
}

func TestRequestHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	p, _ := newInProcProvider(t, providertest.NewWallet("0xa455"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Request(ctx, nil, "eth_chainId")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubscribeForwardsWalletEvents(t *testing.T) {
	t.Parallel()

	wallet := providertest.NewWallet("0xa455", testAccount)
	p, _ := newInProcProvider(t, wallet)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := p.Subscribe(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return wallet.Subscribers() == 2 }, 2*time.Second, 10*time.Millisecond)

	wallet.SetAccounts("0x2222222222222222222222222222222222222222")
	event := nextEvent(t, events)
	assert.Equal(t, ports.EventAccountsChanged, event.Kind)
	assert.Equal(t, []string{"0x2222222222222222222222222222222222222222"}, event.Accounts)

	wallet.SetAccounts()
	event = nextEvent(t, events)
	assert.Equal(t, ports.EventAccountsChanged, event.Kind)
	assert.Empty(t, event.Accounts)

	wallet.SetChain("0x1")
	event = nextEvent(t, events)
	assert.Equal(t, ports.EventChainChanged, event.Kind)
	assert.Equal(t, "0x1", event.ChainID)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribeReportsDisconnect(t *testing.T) {
	t.Parallel()

	wallet := providertest.NewWallet("0xa455", testAccount)
	p, server := newInProcProvider(t, wallet)

	events, err := p.Subscribe(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return wallet.Subscribers() == 2 }, 2*time.Second, 10*time.Millisecond)

	server.Stop()

	event := nextEvent(t, events)
	assert.Equal(t, ports.EventDisconnected, event.Kind)
}

func TestSubscribeOverHTTPIsUnsupported(t *testing.T) {
	t.Parallel()

	wallet := providertest.NewWallet("0xa455", testAccount)
	server, err := wallet.Server()
	require.NoError(t, err)
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	p, err := Dial(context.Background(), httpServer.URL, nil)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	_, err = p.Subscribe(context.Background())
	assert.ErrorIs(t, err, domain.ErrRPCFailure)
}
