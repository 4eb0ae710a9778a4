package main

import (
	"os"

	"github.com/lowkeysteg/lowkey/pkg/steg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var encodeFlags struct {
	Image      string
	ImageList  []string
	ImageDir   string
	Message    string
	File       string
	Output     string
	OutputDir  string
	Pass       string
	AutoResize bool
	MinDim     int
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Hide a payload in one or more carrier images",
	Run: func(cmd *cobra.Command, args []string) {
		switch countSources(encodeFlags.Image, encodeFlags.ImageList, encodeFlags.ImageDir) {
		case 0:
			log.Fatal().Msg("one of --image, --image-list, or --image-dir is required")
		case 1:
		default:
			log.Fatal().Msg("only one of --image, --image-list, or --image-dir can be provided")
		}
		if encodeFlags.Message != "" && encodeFlags.File != "" {
			log.Fatal().Msg("message and file flags cannot both be provided")
		}
		if encodeFlags.Message == "" && encodeFlags.File == "" {
			log.Fatal().Msg("one of --message or --file is required")
		}

		payload := []byte(encodeFlags.Message)
		if encodeFlags.File != "" {
			var err error
			payload, err = os.ReadFile(encodeFlags.File)
			if err != nil {
				log.Fatal().Err(err).Str("path", encodeFlags.File).Msg("Failed to read payload file")
			}
		}

		opts := steg.Options{
			Passphrase:   encodeFlags.Pass,
			AutoResize:   encodeFlags.AutoResize,
			MinDimension: encodeFlags.MinDim,
		}

		if encodeFlags.Image != "" {
			if encodeFlags.Output == "" {
				log.Fatal().Msg("--output is required with --image")
			}
			if encodeFlags.OutputDir != "" {
				log.Fatal().Msg("--output-dir cannot be used with --image (use --output)")
			}
			if err := steg.EncodeImage(encodeFlags.Image, payload, encodeFlags.Output, opts); err != nil {
				log.Fatal().Err(err).Msg("Failed to encode payload")
			}
			log.Info().Str("output", encodeFlags.Output).Msg("Encoded payload")
			return
		}

		if encodeFlags.OutputDir == "" {
			log.Fatal().Msg("--output-dir is required with --image-list or --image-dir")
		}
		if encodeFlags.Output != "" {
			log.Fatal().Msg("--output cannot be used with --image-list or --image-dir (use --output-dir)")
		}
		if encodeFlags.AutoResize {
			log.Fatal().Msg("--auto-resize is only supported with a single --image")
		}

		paths := encodeFlags.ImageList
		if encodeFlags.ImageDir != "" {
			var err error
			paths, err = steg.CollectImages(encodeFlags.ImageDir)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to scan image directory")
			}
		}
		if err := steg.EncodeImages(paths, payload, encodeFlags.OutputDir, opts); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode payload")
		}
		log.Info().Str("outputDir", encodeFlags.OutputDir).Int("carriers", len(paths)).Msg("Encoded payload")
	},
}

func countSources(image string, list []string, dir string) int {
	n := 0
	if image != "" {
		n++
	}
	if len(list) > 0 {
		n++
	}
	if dir != "" {
		n++
	}
	return n
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&encodeFlags.Image, "image", "i", "", "Path to a single carrier image")
	encodeCmd.Flags().StringSliceVar(&encodeFlags.ImageList, "image-list", nil, "Paths to multiple carrier images")
	encodeCmd.Flags().StringVar(&encodeFlags.ImageDir, "image-dir", "", "Directory of carrier images")
	encodeCmd.Flags().StringVarP(&encodeFlags.Message, "message", "m", "", "Message to hide")
	encodeCmd.Flags().StringVarP(&encodeFlags.File, "file", "f", "", "Path to payload file (overrides message)")
	encodeCmd.Flags().StringVarP(&encodeFlags.Output, "output", "o", "", "Output path (single image)")
	encodeCmd.Flags().StringVar(&encodeFlags.OutputDir, "output-dir", "", "Output directory (multiple images)")
	encodeCmd.Flags().StringVarP(&encodeFlags.Pass, "passphrase", "p", "", "Passphrase to encrypt the payload")
	encodeCmd.Flags().BoolVar(&encodeFlags.AutoResize, "auto-resize", false, "Shrink the carrier to fit the payload (single image only)")
	encodeCmd.Flags().IntVar(&encodeFlags.MinDim, "min-dimension", steg.DefaultMinDimension, "Smallest dimension allowed when auto-resizing")
}
