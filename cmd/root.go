package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, closeApp := newRootCmd()
	return executeRoot(ctx, rootCmd, closeApp)
}

// executeRoot releases the wiring however the command ends; cobra skips
// post-run hooks when RunE fails.
func executeRoot(ctx context.Context, rootCmd *cobra.Command, closeApp func()) error {
	defer closeApp()

	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, func()) {
	app, err := wireApp()
	if err != nil {
		rootCmd := baseRootCmd()
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() {}
	}

	return buildRootCmd(app), app.close
}

func buildRootCmd(app *app) *cobra.Command {
	rootCmd := baseRootCmd()
	rootCmd.AddCommand(
		newVersionCmd(),
		newWalletCmd(app),
		newMemeCmd(app),
		newPinningCmd(app),
		newChainCmd(app),
	)

	return rootCmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "memepool",
		Short:         "Umi meme pool: connect a wallet, browse and submit memes",
		Long:          "memepool connects to an EIP-1193 wallet over JSON-RPC, lists the current contest of the Umi meme pool contract, and submits new memes pinned to IPFS.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
}
