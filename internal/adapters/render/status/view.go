package status

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const stakeBarWidth = 16

type RenderOptions struct {
	Now     time.Time
	Gateway string
	Chain   domain.Chain
}

func RenderPool(listing domain.Listing, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderPool(listing, opts, s) })
}

func RenderEntry(entry domain.Entry, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderEntryDetail(entry, opts, s) })
}

func RenderWallet(status application.WalletStatus, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderWallet(status, opts, s) })
}

func RenderSubmission(result application.SubmitResult, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderSubmission(result, opts, s) })
}

func renderPool(listing domain.Listing, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Umi Meme Pool"),
		s.header.Render(fmt.Sprintf("contest: %s · entries: %d", contestLabel(listing.ContestID), len(listing.Entries))),
	}

	if failed := listing.FailedCount(); failed > 0 {
		noun := "entries"
		if failed == 1 {
			noun = "entry"
		}
		lines = append(lines, s.warning.Render(fmt.Sprintf("[%d %s could not be loaded]", failed, noun)))
	}

	if len(listing.Entries) == 0 {
		lines = append(lines, s.empty.Render("No memes submitted to this contest yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	top := maxStake(listing.Entries)
	for i, entry := range listing.Entries {
		lines = append(lines, s.section.Render(renderEntryRow(i+1, entry, top, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntryRow(rank int, entry domain.Entry, top *big.Int, opts RenderOptions, s styles) string {
	summary := []string{
		s.rank.Render(fmt.Sprintf("#%d", rank)),
		" ",
		s.entry.Render(fmt.Sprintf("meme %s", idLabel(entry.ID))),
		" ",
		renderProgressBar(stakeShare(entry.Stake(), top), stakeBarWidth, s),
		" ",
		s.detail.Render(formatAmount(entry.Stake(), opts.Chain)),
	}
	if entry.IsWinner {
		summary = append(summary, " ", s.winner.Render("[winner]"))
	}

	ageColor := ageColor(entry.CreatedAt, opts.Now)
	meta := s.header.Render(fmt.Sprintf("by %s ", domain.ShortenAddress(entry.Creator.Hex()))) +
		lipgloss.NewStyle().Foreground(ageColor).Render(formatAge(entry.CreatedAt, opts.Now))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, summary...),
		"   "+meta,
		"   "+s.link.Render(sanitizeForTerminal(entry.GatewayURL(opts.Gateway))),
	)
}

func renderEntryDetail(entry domain.Entry, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Meme %s", idLabel(entry.ID))),
		field(s, "contest", contestLabel(entry.ContestID)),
		field(s, "creator", entry.Creator.Hex()),
		field(s, "stake", formatAmount(entry.Stake(), opts.Chain)),
		field(s, "created", formatCreated(entry.CreatedAt, opts.Now)),
		field(s, "content", sanitizeForTerminal(entry.ContentRef)),
		field(s, "image", s.link.Render(sanitizeForTerminal(entry.GatewayURL(opts.Gateway)))),
	}
	if entry.IsWinner {
		lines = append(lines, s.winner.Render("Winner of this contest"))
	}
	if url := opts.Chain.AddressURL(entry.Creator.Hex()); url != "" {
		lines = append(lines, field(s, "explorer", s.link.Render(url)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderWallet(status application.WalletStatus, opts RenderOptions, s styles) string {
	session := status.Session
	chain := status.Chain

	lines := []string{
		s.title.Render("Wallet"),
		field(s, "network", fmt.Sprintf("%s (%d)", chain.Name, chain.ID)),
		field(s, "status", walletState(status, s)),
	}

	if session.Connected {
		lines = append(lines, field(s, "address", session.Address))
		balance := domain.DisplayBalance(session.Balance)
		if balance == "" {
			balance = "unavailable"
		} else {
			balance += " " + currencySymbol(chain)
		}
		lines = append(lines, field(s, "balance", balance))
		if url := chain.AddressURL(session.Address); url != "" {
			lines = append(lines, field(s, "explorer", s.link.Render(url)))
		}
	}

	if message := session.VisibleError(opts.Now); message != "" {
		lines = append(lines, s.warning.Render("error: "+sanitizeForTerminal(message)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSubmission(result application.SubmitResult, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Meme submitted"),
		field(s, "content", result.ContentRef),
		field(s, "image", s.link.Render(domain.Entry{ContentRef: result.ContentRef}.GatewayURL(opts.Gateway))),
		field(s, "fee", formatAmount(result.Fee, opts.Chain)),
	}

	receipt := result.Receipt
	if receipt.TxHash != "" {
		lines = append(lines, field(s, "tx", receipt.TxHash))
		lines = append(lines, field(s, "block", fmt.Sprintf("%d", receipt.BlockNumber)))
		if url := opts.Chain.TxURL(receipt.TxHash); url != "" {
			lines = append(lines, field(s, "explorer", s.link.Render(url)))
		}
	}
	if receipt.TokenID != nil {
		lines = append(lines, field(s, "meme id", receipt.TokenID.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func walletState(status application.WalletStatus, s styles) string {
	session := status.Session
	switch {
	case session.Connected:
		return s.connected.Render("connected")
	case session.Connecting:
		return s.pending.Render("connecting...")
	case !status.ProviderAvailable:
		return s.offline.Render("no wallet provider")
	default:
		return s.offline.Render("disconnected")
	}
}

func field(s styles, label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label+":"), value)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func maxStake(entries []domain.Entry) *big.Int {
	top := new(big.Int)
	for _, entry := range entries {
		if entry.Stake().Cmp(top) > 0 {
			top = entry.Stake()
		}
	}
	return top
}

// stakeShare is the entry's stake as a percentage of the leading stake.
func stakeShare(stake, top *big.Int) float64 {
	if top == nil || top.Sign() <= 0 || stake == nil {
		return 0
	}

	ratio, _ := new(big.Rat).SetFrac(new(big.Int).Mul(stake, big.NewInt(100)), top).Float64()
	return ratio
}

func formatAmount(wei *big.Int, chain domain.Chain) string {
	return domain.FormatEther(wei) + " " + currencySymbol(chain)
}

func currencySymbol(chain domain.Chain) string {
	if chain.NativeCurrency.Symbol != "" {
		return chain.NativeCurrency.Symbol
	}
	return "ETH"
}

func contestLabel(id *big.Int) string {
	if id == nil {
		return "unknown"
	}
	return id.String()
}

func idLabel(id *big.Int) string {
	if id == nil {
		return "?"
	}
	return id.String()
}

func formatCreated(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "unknown"
	}
	stamp := createdAt.UTC().Format("2006-01-02 15:04 MST")
	if now.IsZero() {
		return stamp
	}
	return fmt.Sprintf("%s (%s)", stamp, formatAge(createdAt, now))
}

func formatAge(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "unknown age"
	}
	if now.IsZero() {
		return createdAt.UTC().Format("15:04 on 02 Jan")
	}

	age := now.Sub(createdAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return plural(int(age.Minutes()), "minute") + " ago"
	case age < 24*time.Hour:
		return plural(int(age.Hours()), "hour") + " ago"
	default:
		return plural(int(age.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ageColor fades from bright white for fresh entries to grey after a week.
func ageColor(createdAt, now time.Time) lipgloss.Color {
	if now.IsZero() || createdAt.IsZero() || createdAt.After(now) {
		return lipgloss.Color("255")
	}

	window := 7 * 24 * time.Hour
	freshness := window.Seconds() - now.Sub(createdAt).Seconds()
	return interpolateColor(freshness, 0, window.Seconds())
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 (faded) to 255 (bright).
	interpolated := 240.0 + 15.0*normalized
	return lipgloss.Color(fmt.Sprintf("%d", int(interpolated)))
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
