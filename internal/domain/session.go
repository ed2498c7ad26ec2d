package domain

import (
	"strings"
	"time"
)

// ErrorDisplayWindow is how long a session error stays visible after it was recorded.
const ErrorDisplayWindow = 5 * time.Second

type WalletSession struct {
	Connected  bool
	Connecting bool
	Address    string
	Balance    string
	LastError  string
	ErrorAt    time.Time
}

func (s WalletSession) Valid() bool {
	if !s.Connected {
		return true
	}

	return s.Address != "" && !s.Connecting
}

func (s *WalletSession) BeginConnecting() {
	*s = WalletSession{Connecting: true}
}

func (s *WalletSession) MarkConnected(address, balance string) {
	*s = WalletSession{Connected: true, Address: address, Balance: balance}
}

func (s *WalletSession) Reset() {
	*s = WalletSession{}
}

func (s *WalletSession) Fail(message string, at time.Time) {
	*s = WalletSession{LastError: message, ErrorAt: at}
}

func (s WalletSession) VisibleError(now time.Time) string {
	if s.LastError == "" {
		return ""
	}
	if now.Sub(s.ErrorAt) >= ErrorDisplayWindow {
		return ""
	}

	return s.LastError
}

func (s WalletSession) ErrorExpiresIn(now time.Time) time.Duration {
	if s.LastError == "" {
		return 0
	}
	remaining := ErrorDisplayWindow - now.Sub(s.ErrorAt)
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (s WalletSession) ShortAddress() string {
	return ShortenAddress(s.Address)
}

// ShortenAddress renders 0x1234...abcd for display.
func ShortenAddress(address string) string {
	address = strings.TrimSpace(address)
	if len(address) <= 10 {
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}

func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

type PersistedSession struct {
	Address     string
	ConnectedAt time.Time
}
