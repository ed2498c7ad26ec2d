package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	statusadapter "github.com/bnema/umi-memepool/internal/adapters/render/status"
	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWalletCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Connect, inspect and disconnect your wallet",
	}

	cmd.AddCommand(
		newWalletConnectCmd(app),
		newWalletDisconnectCmd(app),
		newWalletStatusCmd(app),
		newWalletWatchCmd(app),
	)

	return cmd
}

func newWalletConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Request wallet access and switch it to the Umi network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions := app.sessionService(cmd.Context())

			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Waiting for wallet approval...", func(ctx context.Context) error {
				_, err := sessions.Connect(ctx)
				return err
			})
			if err != nil {
				return err
			}

			return writeWalletCard(cmd, app, sessions.Status())
		},
	}
}

func newWalletDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the connected wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Disconnecting never needs the wallet itself.
			sessions := application.NewSessionService(nil, app.sessions, app.cfg.Chain, app.logger, app.clock)
			if err := sessions.Disconnect(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wallet disconnected")
			return nil
		},
	}
}

func newWalletStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var showQR bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet session, restoring a previous connection if possible",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions := app.sessionService(cmd.Context())
			restoreSession(cmd.Context(), app, sessions)
			status := sessions.Status()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toWalletJSON(status, app.now()))
			}

			if err := writeWalletCard(cmd, app, status); err != nil {
				return err
			}

			if showQR && status.Session.Connected {
				code, err := addressQR(status.Session.Address)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				_, _ = fmt.Fprint(cmd.OutOrStdout(), code)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	cmd.Flags().BoolVar(&showQR, "qr", false, "Print the connected address as a QR code")

	return cmd
}

func newWalletWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow wallet account and network changes live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sessions := app.sessionService(ctx)
			if !sessions.ProviderAvailable() {
				return domain.ErrProviderUnavailable
			}
			restoreSession(ctx, app, sessions)

			watchErr := make(chan error, 1)
			go func() { watchErr <- sessions.Watch(ctx) }()

			err := statusadapter.Watch(ctx, sessions, cmd.InOrStdin(), cmd.OutOrStdout(), statusadapter.WatchOptions{
				Render: app.renderOptions(),
				Now:    app.now,
				Connect: func() error {
					_, err := sessions.Connect(ctx)
					return err
				},
				Disconnect: func() error {
					return sessions.Disconnect(ctx)
				},
			})
			cancel()

			if subErr := <-watchErr; subErr != nil && err == nil {
				return subErr
			}
			return err
		},
	}
}

// restoreSession logs restore failures; the session itself records what the user needs to see.
func restoreSession(ctx context.Context, app *app, sessions *application.SessionService) {
	if _, err := sessions.Restore(ctx); err != nil {
		level := zap.WarnLevel
		if errors.Is(err, domain.ErrNetworkSwitchFailed) {
			level = zap.DebugLevel
		}
		app.logger.Log(level, "restore wallet session", zap.Error(err))
	}
}

func writeWalletCard(cmd *cobra.Command, app *app, status application.WalletStatus) error {
	rendered, err := statusadapter.RenderWallet(status, app.renderOptions())
	if err != nil {
		return fmt.Errorf("render wallet: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func addressQR(address string) (string, error) {
	code, err := qrcode.New(strings.TrimSpace(address), qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode address qr: %w", err)
	}

	return code.ToSmallString(false), nil
}
