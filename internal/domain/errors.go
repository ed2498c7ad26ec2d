package domain

import "errors"

var (
	ErrProviderUnavailable = errors.New("no wallet provider available: install a wallet such as Rabby (https://rabby.io/) and expose its JSON-RPC endpoint")
	ErrNoAccountsGranted   = errors.New("wallet granted no accounts")
	ErrNetworkSwitchFailed = errors.New("failed to switch wallet to the target network")
	ErrWalletNotConnected  = errors.New("wallet is not connected")
	ErrNoSession           = errors.New("no persisted wallet session")

	ErrTransactionRejected = errors.New("transaction rejected in wallet")
	ErrInsufficientFunds   = errors.New("insufficient funds for transaction")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrRPCFailure          = errors.New("rpc request failed")

	ErrUnknownMethod         = errors.New("unknown contract method")
	ErrEncoding              = errors.New("contract call encoding failed")
	ErrEmptyResponse         = errors.New("contract call returned no data")
	ErrEntryNotFound         = errors.New("meme not found")
	ErrContractNotConfigured = errors.New("contract address is not configured")

	ErrUploadFailure       = errors.New("upload to pinning service failed")
	ErrPinningTokenMissing = errors.New("pinning token is not configured")
	ErrInvalidToken        = errors.New("token is empty")
	ErrInvalidHashtag      = errors.New("hashtag is empty")
	ErrInvalidImage        = errors.New("file is not an image")
	ErrSecretNotFound      = errors.New("secret not found")
)
