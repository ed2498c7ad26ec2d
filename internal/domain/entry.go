package domain

import (
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const DefaultGateway = "https://gateway.pinata.cloud/ipfs"

type Entry struct {
	ID         *big.Int
	Creator    common.Address
	ContentRef string
	ContestID  *big.Int
	TotalStake *big.Int
	IsWinner   bool
	CreatedAt  time.Time
}

// Exists reports whether the record is a real submission rather than the zero value
// the contract returns for unknown ids.
func (e Entry) Exists() bool {
	if e.Creator == (common.Address{}) {
		return false
	}

	return strings.TrimSpace(e.ContentRef) != ""
}

func (e Entry) GatewayURL(gateway string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}

	return strings.TrimRight(gateway, "/") + "/" + e.ContentRef
}

func (e Entry) Stake() *big.Int {
	if e.TotalStake == nil {
		return new(big.Int)
	}

	return e.TotalStake
}

// SortEntries orders by stake, highest first, and breaks ties with the newest entry first.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.Stake().Cmp(a.Stake()); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

type EntryFailure struct {
	ID  *big.Int
	Err error
}

type Listing struct {
	ContestID *big.Int
	Entries   []Entry
	Failures  []EntryFailure
}

func (l Listing) FailedCount() int {
	return len(l.Failures)
}

type SubmissionReceipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	TokenID     *big.Int
}
