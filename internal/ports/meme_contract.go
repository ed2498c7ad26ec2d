package ports

import (
	"context"
	"math/big"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

type MemeReader interface {
	CurrentContestID(ctx context.Context) (*big.Int, error)
	MemeIDsByContest(ctx context.Context, contestID *big.Int) ([]*big.Int, error)
	// Meme returns found=false for ids that do not decode to a real submission.
	Meme(ctx context.Context, id *big.Int) (entry domain.Entry, found bool, err error)
}

type MemeWriter interface {
	SubmissionFee(ctx context.Context) (*big.Int, error)
	SubmitMeme(ctx context.Context, from common.Address, contentRef string, fee *big.Int) (domain.SubmissionReceipt, error)
}

type MemeContract interface {
	MemeReader
	MemeWriter
}

type Pinner interface {
	Pin(ctx context.Context, req domain.PinRequest) (string, error)
}
