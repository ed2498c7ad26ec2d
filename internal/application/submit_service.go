package application

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const DefaultSubmissionFee = "0.00001"

type SessionReader interface {
	Snapshot() domain.WalletSession
}

type SubmitResult struct {
	ContentRef string
	Fee        *big.Int
	Receipt    domain.SubmissionReceipt
}

// SubmitService pins a draft and registers it in the current contest.
type SubmitService struct {
	sessions    SessionReader
	pinner      ports.Pinner
	contract    ports.MemeWriter
	fallbackFee string
	clock       ports.Clock
	logger      *zap.Logger
}

// NewSubmitService takes the configured fee in ether. It is only used when the
// contract cannot report SUBMISSION_FEE.
func NewSubmitService(sessions SessionReader, pinner ports.Pinner, contract ports.MemeWriter, fallbackFee string, logger *zap.Logger, clock ports.Clock) *SubmitService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(fallbackFee) == "" {
		fallbackFee = DefaultSubmissionFee
	}

	return &SubmitService{
		sessions:    sessions,
		pinner:      pinner,
		contract:    contract,
		fallbackFee: fallbackFee,
		clock:       clock,
		logger:      logger.Named("submit"),
	}
}

// Upload pins the draft without touching the contract.
func (s *SubmitService) Upload(ctx context.Context, draft domain.UploadDraft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}

	cid, err := s.pinner.Pin(ctx, draft.PinRequest(s.clock.Now()))
	if err != nil {
		return "", fmt.Errorf("pin image: %w", err)
	}

	return cid, nil
}

func (s *SubmitService) Submit(ctx context.Context, draft domain.UploadDraft) (SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, err
	}
	if s.contract == nil {
		return SubmitResult{}, domain.ErrContractNotConfigured
	}

	session := s.sessions.Snapshot()
	if !session.Connected || !common.IsHexAddress(session.Address) {
		return SubmitResult{}, domain.ErrWalletNotConnected
	}

	cid, err := s.Upload(ctx, draft)
	if err != nil {
		return SubmitResult{}, err
	}

	fee, err := s.ResolveFee(ctx)
	if err != nil {
		return SubmitResult{}, err
	}

	s.logger.Info("submitting meme", zap.String("cid", cid), zap.String("fee", domain.FormatEther(fee)))

	receipt, err := s.contract.SubmitMeme(ctx, common.HexToAddress(session.Address), cid, fee)
	if err != nil {
		return SubmitResult{ContentRef: cid, Fee: fee}, err
	}

	return SubmitResult{ContentRef: cid, Fee: fee, Receipt: receipt}, nil
}

// ResolveFee prefers the contract's SUBMISSION_FEE and falls back to the
// configured amount when the contract cannot answer or reports zero.
func (s *SubmitService) ResolveFee(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configured, configErr := domain.ParseEther(s.fallbackFee)

	var onchain *big.Int
	if s.contract != nil {
		fee, err := s.contract.SubmissionFee(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("contract fee unavailable, using configured fee", zap.Error(err))
		} else if fee != nil && fee.Sign() > 0 {
			onchain = fee
		}
	}

	switch {
	case onchain != nil && configErr == nil && onchain.Cmp(configured) != 0:
		s.logger.Warn("configured submission fee differs from contract, using contract value",
			zap.String("configured", domain.FormatEther(configured)),
			zap.String("contract", domain.FormatEther(onchain)),
		)
		return onchain, nil
	case onchain != nil:
		return onchain, nil
	case configErr != nil:
		return nil, fmt.Errorf("parse configured submission fee: %w", configErr)
	default:
		return configured, nil
	}
}
