package cmd

import (
	"encoding/json"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/domain"
)

type entryJSON struct {
	ID         string    `json:"id"`
	ContestID  string    `json:"contest_id"`
	Creator    string    `json:"creator"`
	ContentRef string    `json:"content_ref"`
	ImageURL   string    `json:"image_url"`
	TotalStake string    `json:"total_stake"`
	IsWinner   bool      `json:"is_winner"`
	CreatedAt  time.Time `json:"created_at"`
}

type listingJSON struct {
	ContestID string      `json:"contest_id"`
	Entries   []entryJSON `json:"entries"`
	Failed    []string    `json:"failed,omitempty"`
}

type walletJSON struct {
	Connected         bool   `json:"connected"`
	Address           string `json:"address,omitempty"`
	Balance           string `json:"balance,omitempty"`
	ChainID           uint64 `json:"chain_id"`
	ChainName         string `json:"chain_name"`
	ProviderAvailable bool   `json:"provider_available"`
	Error             string `json:"error,omitempty"`
}

type submissionJSON struct {
	ContentRef  string `json:"content_ref"`
	ImageURL    string `json:"image_url"`
	Fee         string `json:"fee,omitempty"`
	TxHash      string `json:"tx_hash,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	MemeID      string `json:"meme_id,omitempty"`
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func toEntryJSON(entry domain.Entry, gateway string) entryJSON {
	out := entryJSON{
		Creator:    entry.Creator.Hex(),
		ContentRef: entry.ContentRef,
		ImageURL:   entry.GatewayURL(gateway),
		TotalStake: domain.FormatEther(entry.Stake()),
		IsWinner:   entry.IsWinner,
		CreatedAt:  entry.CreatedAt.UTC(),
	}
	if entry.ID != nil {
		out.ID = entry.ID.String()
	}
	if entry.ContestID != nil {
		out.ContestID = entry.ContestID.String()
	}
	return out
}

func toListingJSON(listing domain.Listing, gateway string) listingJSON {
	out := listingJSON{Entries: make([]entryJSON, 0, len(listing.Entries))}
	if listing.ContestID != nil {
		out.ContestID = listing.ContestID.String()
	}
	for _, entry := range listing.Entries {
		out.Entries = append(out.Entries, toEntryJSON(entry, gateway))
	}
	for _, failure := range listing.Failures {
		if failure.ID != nil {
			out.Failed = append(out.Failed, failure.ID.String())
		}
	}
	return out
}

func toWalletJSON(status application.WalletStatus, now time.Time) walletJSON {
	return walletJSON{
		Connected:         status.Session.Connected,
		Address:           status.Session.Address,
		Balance:           status.Session.Balance,
		ChainID:           status.Chain.ID,
		ChainName:         status.Chain.Name,
		ProviderAvailable: status.ProviderAvailable,
		Error:             status.Session.VisibleError(now),
	}
}

func toSubmissionJSON(result application.SubmitResult, gateway string) submissionJSON {
	out := submissionJSON{
		ContentRef:  result.ContentRef,
		ImageURL:    domain.Entry{ContentRef: result.ContentRef}.GatewayURL(gateway),
		TxHash:      result.Receipt.TxHash,
		BlockNumber: result.Receipt.BlockNumber,
	}
	if result.Fee != nil {
		out.Fee = domain.FormatEther(result.Fee)
	}
	if result.Receipt.TokenID != nil {
		out.MemeID = result.Receipt.TokenID.String()
	}
	return out
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
