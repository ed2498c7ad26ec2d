// Package provider talks to an EIP-1193 wallet that exposes its JSON-RPC
// endpoint over websocket, IPC or HTTP (Frame, Rabby's local bridge, ...).
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const eventBuffer = 16

type Provider struct {
	client    *rpc.Client
	logger    *zap.Logger
	closeOnce sync.Once
}

var _ ports.WalletProvider = (*Provider)(nil)

// Dial connects to the wallet endpoint and probes it with eth_chainId so a
// missing wallet is reported up front instead of on the first request.
func Dial(ctx context.Context, endpoint string, logger *zap.Logger) (*Provider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: wallet.provider_url is empty", domain.ErrProviderUnavailable)
	}

	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", domain.ErrProviderUnavailable, endpoint, err)
	}

	var chainID string
	if err := client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: probe %s: %w", domain.ErrProviderUnavailable, endpoint, err)
	}

	p := New(client, logger)
	p.logger.Debug("wallet provider connected", zap.String("endpoint", endpoint), zap.String("chain_id", chainID))
	return p, nil
}

func New(client *rpc.Client, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provider{client: client, logger: logger.Named("provider")}
}

func (p *Provider) Request(ctx context.Context, result any, method string, params ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.client.CallContext(ctx, result, method, params...); err != nil {
		// rpc errors keep their ErrorCode through the wrap.
		return fmt.Errorf("%s: %w", method, err)
	}

	return nil
}

// Subscribe forwards accountsChanged and chainChanged notifications. The
// returned channel is closed when ctx ends or the connection drops; a drop is
// reported as an EventDisconnected first.
func (p *Provider) Subscribe(ctx context.Context) (<-chan ports.ProviderEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := make(chan []string)
	accountsSub, err := p.client.EthSubscribe(ctx, accounts, string(ports.EventAccountsChanged))
	if err != nil {
		return nil, subscribeError(ports.EventAccountsChanged, err)
	}

	chains := make(chan string)
	chainSub, err := p.client.EthSubscribe(ctx, chains, string(ports.EventChainChanged))
	if err != nil {
		accountsSub.Unsubscribe()
		return nil, subscribeError(ports.EventChainChanged, err)
	}

	events := make(chan ports.ProviderEvent, eventBuffer)
	go func() {
		defer close(events)
		defer accountsSub.Unsubscribe()
		defer chainSub.Unsubscribe()

		emit := func(event ports.ProviderEvent) bool {
			select {
			case events <- event:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case list := <-accounts:
				if !emit(ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: list}) {
					return
				}
			case chainID := <-chains:
				if !emit(ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: chainID}) {
					return
				}
			case err := <-accountsSub.Err():
				p.logger.Debug("accounts subscription ended", zap.Error(err))
				emit(ports.ProviderEvent{Kind: ports.EventDisconnected, Err: err})
				return
			case err := <-chainSub.Err():
				p.logger.Debug("chain subscription ended", zap.Error(err))
				emit(ports.ProviderEvent{Kind: ports.EventDisconnected, Err: err})
				return
			}
		}
	}()

	return events, nil
}

func (p *Provider) Close() {
	p.closeOnce.Do(p.client.Close)
}

func subscribeError(kind ports.ProviderEventKind, err error) error {
	if errors.Is(err, rpc.ErrNotificationsUnsupported) {
		return fmt.Errorf("%w: subscribe %s: provider endpoint does not support notifications, use a websocket or ipc url", domain.ErrRPCFailure, kind)
	}

	return fmt.Errorf("%w: subscribe %s: %w", domain.ErrRPCFailure, kind, err)
}
