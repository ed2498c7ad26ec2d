package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type chainJSON struct {
	ID            uint64 `json:"id"`
	HexID         string `json:"hex_id"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	RPCURL        string `json:"rpc_url"`
	ExplorerURL   string `json:"explorer_url,omitempty"`
	Contract      string `json:"contract,omitempty"`
	SubmissionFee string `json:"submission_fee"`
	ConfigFile    string `json:"config_file"`
}

func newChainCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect the target network",
	}

	cmd.AddCommand(newChainInfoCmd(app))

	return cmd
}

func newChainInfoCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the configured network, contract and fee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain := app.cfg.Chain
			info := chainJSON{
				ID:            chain.ID,
				HexID:         chain.HexID(),
				Name:          chain.Name,
				Currency:      chain.NativeCurrency.Symbol,
				RPCURL:        chain.RPCURL,
				ExplorerURL:   chain.ExplorerURL,
				SubmissionFee: app.cfg.SubmissionFee,
				ConfigFile:    app.cfg.ConfigFile,
			}
			if app.cfg.Contract != (common.Address{}) {
				info.Contract = app.cfg.Contract.Hex()
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}

			contract := info.Contract
			if contract == "" {
				contract = "not configured (set contract.address in " + info.ConfigFile + ")"
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "network: %s\n", info.Name)
			_, _ = fmt.Fprintf(out, "chain id: %d (%s)\n", info.ID, info.HexID)
			_, _ = fmt.Fprintf(out, "rpc: %s\n", info.RPCURL)
			if info.ExplorerURL != "" {
				_, _ = fmt.Fprintf(out, "explorer: %s\n", info.ExplorerURL)
			}
			_, _ = fmt.Fprintf(out, "contract: %s\n", contract)
			_, err := fmt.Fprintf(out, "submission fee: %s %s (contract value takes precedence)\n", info.SubmissionFee, info.Currency)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
