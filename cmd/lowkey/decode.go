package main

import (
	"errors"
	"os"

	"github.com/lowkeysteg/lowkey/pkg/steg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var decodeFlags struct {
	Image     string
	ImageList []string
	ImageDir  string
	Output    string
	Pass      string
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Recover a payload hidden in one or more carrier images",
	Run: func(cmd *cobra.Command, args []string) {
		switch countSources(decodeFlags.Image, decodeFlags.ImageList, decodeFlags.ImageDir) {
		case 0:
			log.Fatal().Msg("one of --image, --image-list, or --image-dir is required")
		case 1:
		default:
			log.Fatal().Msg("only one of --image, --image-list, or --image-dir can be provided")
		}

		paths := decodeFlags.ImageList
		if decodeFlags.Image != "" {
			paths = []string{decodeFlags.Image}
		}
		if decodeFlags.ImageDir != "" {
			var err error
			paths, err = steg.CollectImages(decodeFlags.ImageDir)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to scan image directory")
			}
		}

		payload, err := steg.DecodeImages(paths, steg.Options{Passphrase: decodeFlags.Pass})
		if err != nil {
			// Same message for tampering and truncation on purpose: no
			// oracle about which check failed.
			if errors.Is(err, steg.ErrInvalidCiphertext) || errors.Is(err, steg.ErrTruncatedInput) {
				log.Fatal().Msg("Failed to recover payload: wrong key or corrupted carriers")
			}
			log.Fatal().Err(err).Msg("Failed to decode payload")
		}

		if decodeFlags.Output != "" {
			if err := os.WriteFile(decodeFlags.Output, payload, 0644); err != nil {
				log.Fatal().Err(err).Str("path", decodeFlags.Output).Msg("Failed to write output file")
			}
			log.Info().Str("output", decodeFlags.Output).Int("bytes", len(payload)).Msg("Decoded payload")
			return
		}
		os.Stdout.Write(payload)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeFlags.Image, "image", "i", "", "Path to a single carrier image")
	decodeCmd.Flags().StringSliceVar(&decodeFlags.ImageList, "image-list", nil, "Paths to multiple carrier images")
	decodeCmd.Flags().StringVar(&decodeFlags.ImageDir, "image-dir", "", "Directory of carrier images")
	decodeCmd.Flags().StringVarP(&decodeFlags.Output, "output", "o", "", "Output path for the payload (default: stdout)")
	decodeCmd.Flags().StringVarP(&decodeFlags.Pass, "passphrase", "p", "", "Passphrase to decrypt the payload")
}
