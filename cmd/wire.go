package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/umi-memepool/internal/adapters/contract"
	"github.com/bnema/umi-memepool/internal/adapters/logging"
	"github.com/bnema/umi-memepool/internal/adapters/pinata"
	"github.com/bnema/umi-memepool/internal/adapters/provider"
	statusadapter "github.com/bnema/umi-memepool/internal/adapters/render/status"
	tomlrepo "github.com/bnema/umi-memepool/internal/adapters/repo/toml"
	chainstore "github.com/bnema/umi-memepool/internal/adapters/secrets/chain"
	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/config"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const providerDialTimeout = 3 * time.Second

// app holds the wiring shared by all commands. Network-backed pieces (wallet
// provider, chain client) are dialed on first use so offline commands stay offline.
type app struct {
	cfg         config.Config
	logger      *zap.Logger
	sessions    ports.SessionStore
	credentials *application.CredentialService
	pinner      pinata.Client
	clock       ports.Clock
	now         func() time.Time

	wallet       ports.WalletProvider
	walletDialed bool
	sessionSvc   *application.SessionService
	closers      []func()
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	cfg, err := config.Load(v, homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, syncLogger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	sessionRepo, err := tomlrepo.NewSessionRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir, logger.Named("secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}
	credentials := application.NewCredentialService(secretStore)

	a := &app{
		cfg:         cfg,
		logger:      logger,
		sessions:    sessionRepo,
		credentials: credentials,
		clock:       ports.SystemClock{},
		now:         time.Now,
		closers:     []func(){syncLogger},
	}
	a.pinner = pinata.Client{
		API:            pinata.API{BaseURL: cfg.PinEndpoint},
		RequestTimeout: cfg.PinTimeout,
		Token: func(ctx context.Context) (string, error) {
			return credentials.PinningToken(ctx, cfg.PinJWT)
		},
		Logger: logger.Named("pinata"),
	}

	logger.Debug("app wired",
		zap.String("config", cfg.ConfigFile),
		zap.String("provider", cfg.ProviderURL),
		zap.String("rpc", cfg.Chain.RPCURL),
		zap.Stringer("contract", cfg.Contract),
	)

	return a, nil
}

// walletProvider returns nil when no wallet answers at the configured endpoint.
func (a *app) walletProvider(ctx context.Context) ports.WalletProvider {
	if a.walletDialed {
		return a.wallet
	}
	a.walletDialed = true

	dialCtx, cancel := context.WithTimeout(ctx, providerDialTimeout)
	defer cancel()

	p, err := provider.Dial(dialCtx, a.cfg.ProviderURL, a.logger)
	if err != nil {
		a.logger.Debug("wallet provider unavailable", zap.Error(err))
		return nil
	}

	a.wallet = p
	a.closers = append(a.closers, p.Close)
	return a.wallet
}

func (a *app) sessionService(ctx context.Context) *application.SessionService {
	if a.sessionSvc == nil {
		a.sessionSvc = application.NewSessionService(a.walletProvider(ctx), a.sessions, a.cfg.Chain, a.logger, a.clock)
	}
	return a.sessionSvc
}

// contractAdapter returns nil, nil when no contract address is configured.
func (a *app) contractAdapter(ctx context.Context, withWallet bool) (*contract.Adapter, error) {
	if a.cfg.Contract == (common.Address{}) {
		return nil, nil
	}

	client, err := ethclient.DialContext(ctx, a.cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc %s: %w", a.cfg.Chain.RPCURL, err)
	}
	a.closers = append(a.closers, client.Close)

	var sender ports.WalletProvider
	if withWallet {
		sender = a.walletProvider(ctx)
	}

	adapter, err := contract.New(contract.Config{
		Address:        a.cfg.Contract,
		ConfirmTimeout: a.cfg.ConfirmTimeout,
		PollInterval:   a.cfg.PollInterval,
	}, client, sender, a.logger)
	if err != nil {
		return nil, err
	}

	return adapter, nil
}

func (a *app) poolService(ctx context.Context) (*application.PoolService, error) {
	adapter, err := a.contractAdapter(ctx, false)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return application.NewPoolService(nil, a.logger), nil
	}

	return application.NewPoolService(adapter, a.logger), nil
}

func (a *app) submitService(ctx context.Context) (*application.SubmitService, error) {
	adapter, err := a.contractAdapter(ctx, true)
	if err != nil {
		return nil, err
	}

	sessions := a.sessionService(ctx)
	if adapter == nil {
		return application.NewSubmitService(sessions, a.pinner, nil, a.cfg.SubmissionFee, a.logger, a.clock), nil
	}

	return application.NewSubmitService(sessions, a.pinner, adapter, a.cfg.SubmissionFee, a.logger, a.clock), nil
}

// uploadService can only pin: it has neither a wallet nor a contract.
func (a *app) uploadService() *application.SubmitService {
	return application.NewSubmitService(nil, a.pinner, nil, a.cfg.SubmissionFee, a.logger, a.clock)
}

func (a *app) renderOptions() statusadapter.RenderOptions {
	return statusadapter.RenderOptions{
		Now:     a.now(),
		Gateway: a.cfg.PinGateway,
		Chain:   a.cfg.Chain,
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
