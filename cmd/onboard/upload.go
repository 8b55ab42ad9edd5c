package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a portfolio or profile image",
	Long: `Upload a PNG, JPEG or WebP image of at most 5MB. The server stores it as
WebP and prints the URL to pass to --profile-image-url or a portfolio.

Without --hairstyle the image is stored as a profile image.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().Uint("hairstyle", 0, "catalog hairstyle id the image belongs to")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	mgr, client, err := startSession(ctx)
	if err != nil {
		printError(err)
		return err
	}
	defer mgr.Close()

	hairstyleID, _ := cmd.Flags().GetUint("hairstyle")
	out, err := client.UploadPortfolioImage(ctx, mgr.AccessToken(), mgr.Session().UserID, hairstyleID, filepath.Base(args[0]), f)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(out)
	}
	fmt.Println(out.URL)
	return nil
}
