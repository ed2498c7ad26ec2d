package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	UmiDevnetChainID     uint64 = 42069
	UmiDevnetName               = "Umi Devnet"
	UmiDevnetRPCURL             = "https://devnet.moved.network"
	UmiDevnetExplorerURL        = "https://devnet.explorer.moved.network"

	// ErrCodeUnrecognizedChain is returned by wallets when asked to switch to a chain they do not know.
	ErrCodeUnrecognizedChain = 4902
	ErrCodeUserRejected      = 4001
)

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type Chain struct {
	ID             uint64
	Name           string
	NativeCurrency NativeCurrency
	RPCURL         string
	ExplorerURL    string
}

// AddChainParams is the wallet_addEthereumChain payload.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

func UmiDevnet() Chain {
	return Chain{
		ID:   UmiDevnetChainID,
		Name: UmiDevnetName,
		NativeCurrency: NativeCurrency{
			Name:     "ETH",
			Symbol:   "ETH",
			Decimals: 18,
		},
		RPCURL:      UmiDevnetRPCURL,
		ExplorerURL: UmiDevnetExplorerURL,
	}
}

func (c Chain) HexID() string {
	return "0x" + strconv.FormatUint(c.ID, 16)
}

func (c Chain) Matches(hexChainID string) bool {
	id, err := ParseChainID(hexChainID)
	if err != nil {
		return false
	}

	return id == c.ID
}

func (c Chain) AddChainParams() AddChainParams {
	params := AddChainParams{
		ChainID:        c.HexID(),
		ChainName:      c.Name,
		NativeCurrency: c.NativeCurrency,
		RPCURLs:        []string{c.RPCURL},
	}
	if c.ExplorerURL != "" {
		params.BlockExplorerURLs = []string{c.ExplorerURL}
	}

	return params
}

func (c Chain) TxURL(hash string) string {
	if c.ExplorerURL == "" {
		return ""
	}

	return strings.TrimRight(c.ExplorerURL, "/") + "/tx/" + hash
}

func (c Chain) AddressURL(address string) string {
	if c.ExplorerURL == "" {
		return ""
	}

	return strings.TrimRight(c.ExplorerURL, "/") + "/address/" + address
}

// ParseChainID accepts the hex quantity wallets return from eth_chainId.
func ParseChainID(value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "0x") {
		return 0, fmt.Errorf("chain id %q is not a hex quantity", value)
	}

	id, err := strconv.ParseUint(lower[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chain id %q: %w", value, err)
	}

	return id, nil
}
