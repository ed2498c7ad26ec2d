package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	statusadapter "github.com/bnema/umi-memepool/internal/adapters/render/status"
	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/spf13/cobra"
)

const maxImageBytes = 20 << 20

func newMemeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meme",
		Short: "Browse and submit memes in the current contest",
	}

	cmd.AddCommand(
		newMemeListCmd(app),
		newMemeShowCmd(app),
		newMemeSubmitCmd(app),
	)

	return cmd
}

func newMemeListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the current contest's memes, highest stake first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := app.poolService(cmd.Context())
			if err != nil {
				return err
			}

			var listing domain.Listing
			fetch := func(ctx context.Context) error {
				var fetchErr error
				listing, fetchErr = pool.ListCurrent(ctx)
				return fetchErr
			}

			if asJSON {
				if err := fetch(cmd.Context()); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), toListingJSON(listing, app.cfg.PinGateway))
			}

			if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading contest entries...", fetch); err != nil {
				return err
			}

			rendered, err := statusadapter.RenderPool(listing, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render pool: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")

	return cmd
}

func newMemeShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one meme by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := new(big.Int).SetString(strings.TrimSpace(args[0]), 10)
			if !ok {
				return fmt.Errorf("invalid meme id %q", args[0])
			}

			pool, err := app.poolService(cmd.Context())
			if err != nil {
				return err
			}

			entry, err := pool.GetEntry(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toEntryJSON(entry, app.cfg.PinGateway))
			}

			rendered, err := statusadapter.RenderEntry(entry, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render meme: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the meme as JSON")

	return cmd
}

func newMemeSubmitCmd(app *app) *cobra.Command {
	var imagePath string
	var caption string
	var tags []string
	var pinOnly bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Pin an image to IPFS and submit it to the current contest",
		Example: `  memepool meme submit --image doge.png --caption "much wow" --tag doge --tag umi
  memepool meme submit --image doge.png --pin-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			image, err := readImage(imagePath)
			if err != nil {
				return err
			}

			draft, err := application.SubmitMemeCommand{
				FileName: imagePath,
				Image:    image,
				Caption:  caption,
				Hashtags: tags,
			}.Draft()
			if err != nil {
				return err
			}

			submit := app.uploadService()
			if !pinOnly {
				if submit, err = app.submitService(cmd.Context()); err != nil {
					return err
				}
			}

			var result application.SubmitResult
			task := func(ctx context.Context) error {
				if pinOnly {
					cid, err := submit.Upload(ctx, draft)
					result.ContentRef = cid
					return err
				}

				restoreSession(ctx, app, app.sessionService(ctx))
				var submitErr error
				result, submitErr = submit.Submit(ctx, draft)
				return submitErr
			}

			label := "Submitting meme, confirm the transaction in your wallet..."
			if pinOnly {
				label = "Pinning image..."
			}
			if asJSON {
				err = task(cmd.Context())
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, task)
			}
			if err != nil {
				if result.ContentRef != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "image was pinned as %s\n", result.ContentRef)
				}
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toSubmissionJSON(result, app.cfg.PinGateway))
			}
			if pinOnly {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s\n", sanitizeForTerminal(result.ContentRef))
				_, err = fmt.Fprintln(cmd.OutOrStdout(), domain.Entry{ContentRef: result.ContentRef}.GatewayURL(app.cfg.PinGateway))
				return err
			}

			rendered, err := statusadapter.RenderSubmission(result, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render submission: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the image file")
	cmd.Flags().StringVar(&caption, "caption", "", "Caption stored with the pinned image")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Hashtag, repeatable or comma separated")
	cmd.Flags().BoolVar(&pinOnly, "pin-only", false, "Pin the image without submitting to the contract")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func readImage(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read image: %s is a directory", path)
	}
	if info.Size() > maxImageBytes {
		return nil, fmt.Errorf("read image: %s is larger than %d MiB", path, maxImageBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}
