package ports

import "context"

type ProviderEventKind string

const (
	EventAccountsChanged ProviderEventKind = "accountsChanged"
	EventChainChanged    ProviderEventKind = "chainChanged"
	EventDisconnected    ProviderEventKind = "disconnect"
)

type ProviderEvent struct {
	Kind     ProviderEventKind
	Accounts []string
	ChainID  string
	Err      error
}

// WalletProvider is an EIP-1193 style wallet. Request decodes the JSON result
// into result, which may be nil when the caller does not need it.
type WalletProvider interface {
	Request(ctx context.Context, result any, method string, params ...any) error
	Subscribe(ctx context.Context) (<-chan ProviderEvent, error)
	Close()
}

// CodedError matches provider errors that carry an EIP-1193 / JSON-RPC code.
type CodedError interface {
	error
	ErrorCode() int
}
