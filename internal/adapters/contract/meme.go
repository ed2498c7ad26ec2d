package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func (a *Adapter) CurrentContestID(ctx context.Context) (*big.Int, error) {
	raw, err := a.Read(ctx, methodGetCurrentContest)
	if err != nil {
		return nil, fmt.Errorf("get current contest: %w", err)
	}

	if len(raw) < 32 {
		return nil, fmt.Errorf("decode current contest: %w: %d bytes", domain.ErrEmptyResponse, len(raw))
	}

	values, err := a.abi.Unpack(methodGetCurrentContest, raw[:32])
	if err != nil {
		return nil, fmt.Errorf("decode current contest: %w", err)
	}
	if len(values) == 0 {
		return nil, errors.New("decode current contest: no fields")
	}

	id, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode current contest: unexpected id type %T", values[0])
	}

	return id, nil
}

func (a *Adapter) MemeIDsByContest(ctx context.Context, contestID *big.Int) ([]*big.Int, error) {
	raw, err := a.Read(ctx, methodGetMemesByContest, contestID)
	if err != nil {
		return nil, fmt.Errorf("get memes by contest %s: %w", contestID, err)
	}

	values, err := a.abi.Unpack(methodGetMemesByContest, raw)
	if err != nil {
		return nil, fmt.Errorf("decode memes by contest %s: %w", contestID, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("decode memes by contest %s: expected 1 value, got %d", contestID, len(values))
	}

	ids, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode memes by contest %s: unexpected type %T", contestID, values[0])
	}

	return ids, nil
}

func (a *Adapter) Meme(ctx context.Context, id *big.Int) (domain.Entry, bool, error) {
	raw, err := a.Read(ctx, methodMemes, id)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResponse) {
			return domain.Entry{}, false, nil
		}
		return domain.Entry{}, false, fmt.Errorf("get meme %s: %w", id, err)
	}

	entry, found := a.DecodeEntry(raw, id)
	return entry, found, nil
}

func (a *Adapter) SubmissionFee(ctx context.Context) (*big.Int, error) {
	raw, err := a.Read(ctx, methodSubmissionFee)
	if err != nil {
		return nil, fmt.Errorf("get submission fee: %w", err)
	}

	values, err := a.abi.Unpack(methodSubmissionFee, raw)
	if err != nil {
		return nil, fmt.Errorf("decode submission fee: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("decode submission fee: expected 1 value, got %d", len(values))
	}

	fee, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode submission fee: unexpected type %T", values[0])
	}

	return fee, nil
}

func (a *Adapter) SubmitMeme(ctx context.Context, from common.Address, contentRef string, fee *big.Int) (domain.SubmissionReceipt, error) {
	receipt, err := a.Write(ctx, from, methodSubmitMeme, fee, contentRef)
	if err != nil {
		return domain.SubmissionReceipt{}, fmt.Errorf("submit meme: %w", err)
	}

	result := domain.SubmissionReceipt{
		TxHash:  receipt.TxHash.Hex(),
		GasUsed: receipt.GasUsed,
		TokenID: a.submittedTokenID(receipt),
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}

	return result, nil
}

func (a *Adapter) submittedTokenID(receipt *types.Receipt) *big.Int {
	event, ok := a.abi.Events[eventMemeSubmitted]
	if !ok {
		return nil
	}

	for _, log := range receipt.Logs {
		if log == nil || log.Address != a.address || len(log.Topics) < 2 {
			continue
		}
		if log.Topics[0] != event.ID {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[1].Bytes())
	}

	return nil
}
