package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	defaultConfirmTimeout = 2 * time.Minute
	defaultPollInterval   = time.Second
)

// Backend is the read side of a chain node. *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Config struct {
	Address        common.Address
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

type Adapter struct {
	abi            abi.ABI
	address        common.Address
	backend        Backend
	sender         ports.WalletProvider
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *zap.Logger
}

type CallRequest struct {
	To common.Address
	// Data is the enveloped payload sent on the wire.
	Data []byte
	// Calldata is the bare ABI encoding inside the envelope.
	Calldata []byte
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value,omitempty"`
}

var _ ports.MemeContract = (*Adapter)(nil)

// New builds an adapter. sender may be nil, in which case writes fail with
// domain.ErrWalletNotConnected.
func New(cfg Config, backend Backend, sender ports.WalletProvider, logger *zap.Logger) (*Adapter, error) {
	if cfg.Address == (common.Address{}) {
		return nil, domain.ErrContractNotConfigured
	}
	if backend == nil {
		return nil, errors.New("contract backend is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	confirmTimeout := cfg.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Adapter{
		abi:            memePoolABI,
		address:        cfg.Address,
		backend:        backend,
		sender:         sender,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
		logger:         logger.Named("contract"),
	}, nil
}

func (a *Adapter) Address() common.Address {
	return a.address
}

func (a *Adapter) BuildCall(name string, args ...any) (CallRequest, error) {
	if _, ok := a.abi.Methods[name]; !ok {
		return CallRequest{}, fmt.Errorf("%w: %q", domain.ErrUnknownMethod, name)
	}

	calldata, err := a.abi.Pack(name, args...)
	if err != nil {
		return CallRequest{}, fmt.Errorf("%w: %s: %w", domain.ErrEncoding, name, err)
	}

	return CallRequest{
		To:       a.address,
		Data:     EncodeEvmContract(calldata),
		Calldata: calldata,
	}, nil
}

func (a *Adapter) Read(ctx context.Context, name string, args ...any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call, err := a.BuildCall(name, args...)
	if err != nil {
		return nil, err
	}

	out, err := a.backend.CallContract(ctx, ethereum.CallMsg{To: &call.To, Data: call.Data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %w", domain.ErrRPCFailure, name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyResponse, name)
	}

	return out, nil
}

// DecodeEntry never fails: anything that does not decode to a real submission is reported as not found.
func (a *Adapter) DecodeEntry(raw []byte, id *big.Int) (entry domain.Entry, found bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Debug("decode meme panicked", zap.Any("panic", r))
			entry, found = domain.Entry{}, false
		}
	}()

	values, err := a.abi.Unpack(methodMemes, raw)
	if err != nil || len(values) != 7 {
		a.logger.Debug("decode meme failed", zap.Stringer("id", id), zap.Error(err))
		return domain.Entry{}, false
	}

	tokenID, ok0 := values[0].(*big.Int)
	creator, ok1 := values[1].(common.Address)
	contentRef, ok2 := values[2].(string)
	contestID, ok3 := values[3].(*big.Int)
	totalStake, ok4 := values[4].(*big.Int)
	isWinner, ok5 := values[5].(bool)
	timestamp, ok6 := values[6].(*big.Int)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5 && ok6) || !timestamp.IsInt64() {
		return domain.Entry{}, false
	}

	if id == nil {
		id = tokenID
	}

	entry = domain.Entry{
		ID:         new(big.Int).Set(id),
		Creator:    creator,
		ContentRef: strings.TrimSpace(contentRef),
		ContestID:  contestID,
		TotalStake: totalStake,
		IsWinner:   isWinner,
		CreatedAt:  time.Unix(timestamp.Int64(), 0).UTC(),
	}
	if !entry.Exists() {
		return domain.Entry{}, false
	}

	return entry, true
}

// Write sends a transaction through the wallet and blocks until it is mined.
func (a *Adapter) Write(ctx context.Context, from common.Address, name string, value *big.Int, args ...any) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.sender == nil {
		return nil, domain.ErrWalletNotConnected
	}

	call, err := a.BuildCall(name, args...)
	if err != nil {
		return nil, err
	}

	tx := sendTxArgs{From: from, To: call.To, Data: call.Data}
	if value != nil && value.Sign() > 0 {
		tx.Value = (*hexutil.Big)(value)
	}

	var hash common.Hash
	if err := a.sender.Request(ctx, &hash, "eth_sendTransaction", tx); err != nil {
		return nil, classifyWriteError(name, err)
	}

	a.logger.Info("transaction sent", zap.String("method", name), zap.String("tx", hash.Hex()))

	receipt, err := a.waitMined(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s in block %s", domain.ErrTransactionReverted, hash.Hex(), receipt.BlockNumber)
	}

	return receipt, nil
}

func (a *Adapter) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, a.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := a.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			a.logger.Debug("receipt retrieval failed", zap.String("tx", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for receipt of %s: %w", domain.ErrRPCFailure, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func classifyWriteError(method string, err error) error {
	var coded ports.CodedError
	if errors.As(err, &coded) && coded.ErrorCode() == domain.ErrCodeUserRejected {
		return fmt.Errorf("%w: %s: %w", domain.ErrTransactionRejected, method, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return fmt.Errorf("%w: %s: %w", domain.ErrInsufficientFunds, method, err)
	}

	return fmt.Errorf("%w: send %s: %w", domain.ErrRPCFailure, method, err)
}
