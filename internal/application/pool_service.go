package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"go.uber.org/zap"
)

// PoolService reads the current contest's entries from the contract.
type PoolService struct {
	reader ports.MemeReader
	logger *zap.Logger
}

func NewPoolService(reader ports.MemeReader, logger *zap.Logger) *PoolService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PoolService{reader: reader, logger: logger.Named("pool")}
}

// ListCurrent fetches every entry of the current contest. Contest and id
// lookups are fatal; a failing entry read is recorded in Listing.Failures and
// the rest of the listing still loads.
func (s *PoolService) ListCurrent(ctx context.Context) (domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return domain.Listing{}, err
	}
	if s.reader == nil {
		return domain.Listing{}, domain.ErrContractNotConfigured
	}

	contestID, err := s.reader.CurrentContestID(ctx)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("load current contest: %w", err)
	}

	ids, err := s.reader.MemeIDsByContest(ctx, contestID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("load contest %s entries: %w", contestID, err)
	}

	listing := domain.Listing{ContestID: contestID, Entries: make([]domain.Entry, 0, len(ids))}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		key := id.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := ctx.Err(); err != nil {
			return domain.Listing{}, err
		}

		entry, found, err := s.reader.Meme(ctx, id)
		if err != nil {
			s.logger.Warn("meme read failed", zap.Stringer("id", id), zap.Error(err))
			listing.Failures = append(listing.Failures, domain.EntryFailure{ID: id, Err: err})
			continue
		}
		if !found {
			s.logger.Debug("skipping empty meme record", zap.Stringer("id", id))
			continue
		}

		listing.Entries = append(listing.Entries, entry)
	}

	domain.SortEntries(listing.Entries)
	s.logger.Debug("contest listed",
		zap.Stringer("contest", contestID),
		zap.Int("ids", len(ids)),
		zap.Int("entries", len(listing.Entries)),
		zap.Int("failed", listing.FailedCount()),
	)

	return listing, nil
}

func (s *PoolService) GetEntry(ctx context.Context, id *big.Int) (domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entry{}, err
	}
	if s.reader == nil {
		return domain.Entry{}, domain.ErrContractNotConfigured
	}
	if id == nil || id.Sign() < 0 {
		return domain.Entry{}, errors.New("meme id must be a non-negative integer")
	}

	entry, found, err := s.reader.Meme(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("load meme %s: %w", id, err)
	}
	if !found {
		return domain.Entry{}, fmt.Errorf("%w: id %s", domain.ErrEntryNotFound, id)
	}

	return entry, nil
}
