package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/imageurl"
)

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its stored location",
		Args:  cobra.ExactArgs(1),
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runUpload(ctx, env, args[0])
		}),
	}
}

func runUpload(ctx context.Context, env *Env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := env.API.UploadImage(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return printData(env.Out, env.Format, data)
}

// NewImageCmd creates the image command
func NewImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <src>...",
		Short: "Resolve image sources against the asset origin",
		Args:  cobra.MinimumNArgs(1),
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runImage(env, args)
		}),
	}
}

func runImage(env *Env, sources []string) error {
	for _, src := range sources {
		if imageurl.IsPlaceholder(src) {
			fmt.Fprintln(env.ErrOut, "placeholder image, nothing to fetch")
		}
		fmt.Fprintln(env.Out, env.Images.Resolve(src))
	}
	return nil
}
