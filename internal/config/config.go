// Package config loads ~/.memepool/config.toml with MEMEPOOL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	DirName    = ".memepool"
	configName = "config"
	configType = "toml"
	envPrefix  = "MEMEPOOL"

	KeyProviderURL    = "wallet.provider_url"
	KeyRPCURL         = "chain.rpc_url"
	KeyExplorerURL    = "chain.explorer_url"
	KeyContract       = "contract.address"
	KeyConfirmTimeout = "contract.confirm_timeout"
	KeyPollInterval   = "contract.poll_interval"
	KeySubmissionFee  = "submission.fee"
	KeyPinEndpoint    = "pinning.endpoint"
	KeyPinGateway     = "pinning.gateway"
	KeyPinJWT         = "pinning.jwt"
	KeyPinTimeout     = "pinning.timeout"
	KeySessionPath    = "session.path"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"

	DefaultProviderURL   = "ws://127.0.0.1:1248"
	DefaultSubmissionFee = "0.00001"
	DefaultPinEndpoint   = "https://api.pinata.cloud"
)

type Config struct {
	Dir        string
	ConfigFile string

	ProviderURL string
	Chain       domain.Chain
	Contract    common.Address

	ConfirmTimeout time.Duration
	PollInterval   time.Duration

	SubmissionFee string

	PinEndpoint string
	PinGateway  string
	PinJWT      string
	PinTimeout  time.Duration

	SessionPath string
	SecretsDir  string

	LogLevel string
	LogFile  string
}

// Load prepares v (defaults, file, env) and returns the resolved configuration.
// A missing config file is fine; a malformed one is not.
func Load(v *viper.Viper, homeDir string) (Config, error) {
	if v == nil {
		return Config{}, errors.New("viper instance is nil")
	}
	if strings.TrimSpace(homeDir) == "" {
		return Config{}, errors.New("home directory is empty")
	}

	dir := filepath.Join(homeDir, DirName)
	devnet := domain.UmiDevnet()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyProviderURL, DefaultProviderURL)
	v.SetDefault(KeyRPCURL, devnet.RPCURL)
	v.SetDefault(KeyExplorerURL, devnet.ExplorerURL)
	v.SetDefault(KeyContract, "")
	v.SetDefault(KeyConfirmTimeout, "2m")
	v.SetDefault(KeyPollInterval, "1s")
	v.SetDefault(KeySubmissionFee, DefaultSubmissionFee)
	v.SetDefault(KeyPinEndpoint, DefaultPinEndpoint)
	v.SetDefault(KeyPinGateway, domain.DefaultGateway)
	v.SetDefault(KeyPinJWT, "")
	v.SetDefault(KeyPinTimeout, "60s")
	v.SetDefault(KeySessionPath, filepath.Join(dir, "session.toml"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Dir:            dir,
		ConfigFile:     filepath.Join(dir, configName+"."+configType),
		ProviderURL:    strings.TrimSpace(v.GetString(KeyProviderURL)),
		Chain:          devnet,
		ConfirmTimeout: v.GetDuration(KeyConfirmTimeout),
		PollInterval:   v.GetDuration(KeyPollInterval),
		SubmissionFee:  strings.TrimSpace(v.GetString(KeySubmissionFee)),
		PinEndpoint:    strings.TrimSpace(v.GetString(KeyPinEndpoint)),
		PinGateway:     strings.TrimSpace(v.GetString(KeyPinGateway)),
		PinJWT:         strings.TrimSpace(v.GetString(KeyPinJWT)),
		PinTimeout:     v.GetDuration(KeyPinTimeout),
		SessionPath:    v.GetString(KeySessionPath),
		SecretsDir:     filepath.Join(dir, "secrets"),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
	}
	cfg.Chain.RPCURL = strings.TrimSpace(v.GetString(KeyRPCURL))
	cfg.Chain.ExplorerURL = strings.TrimSpace(v.GetString(KeyExplorerURL))

	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}

	if raw := strings.TrimSpace(v.GetString(KeyContract)); raw != "" {
		if !common.IsHexAddress(raw) {
			return Config{}, fmt.Errorf("%s %q is not a hex address", KeyContract, raw)
		}
		cfg.Contract = common.HexToAddress(raw)
	}

	if _, err := domain.ParseEther(cfg.SubmissionFee); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeySubmissionFee, err)
	}
	if cfg.ConfirmTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", KeyConfirmTimeout)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", KeyPollInterval)
	}

	return cfg, nil
}
