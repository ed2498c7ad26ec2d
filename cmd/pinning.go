package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newPinningCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinning",
		Short: "Manage the IPFS pinning service credentials",
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Pinata JWT",
	}
	tokenCmd.AddCommand(
		newPinningTokenSetCmd(app),
		newPinningTokenRemoveCmd(app),
		newPinningTokenVerifyCmd(app),
	)

	cmd.AddCommand(tokenCmd)

	return cmd
}

func newPinningTokenSetCmd(app *app) *cobra.Command {
	var token string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Pinata JWT in pass, or the file store when pass is unavailable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fromStdin {
				value, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = value
			}
			if strings.TrimSpace(token) == "" {
				return errors.New("provide the token with --token or --stdin")
			}

			if err := app.credentials.SetPinningToken(cmd.Context(), token); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Pinning token saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Pinata JWT")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the token from standard input")
	cmd.MarkFlagsMutuallyExclusive("token", "stdin")

	return cmd
}

func newPinningTokenRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored Pinata JWT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.RemovePinningToken(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Pinning token removed")
			return nil
		},
	}
}

func newPinningTokenVerifyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the token against the pinning service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.pinner.Verify(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Pinning token is valid")
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}

	return strings.TrimSpace(line), nil
}
