package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lowkeysteg/lowkey/pkg/steg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity [image-path]...",
	Short: "Show how many payload bytes a set of carriers can hold",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wtr := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(wtr, "Image\tWidth\tHeight\tCapacity (Bits)\tCapacity (Bytes)")
		fmt.Fprintln(wtr, "-----\t-----\t------\t---------------\t----------------")

		total := 0
		for _, path := range args {
			c, err := steg.LoadCarrier(path)
			if err != nil {
				log.Fatal().Err(err).Str("path", path).Msg("Failed to load image")
			}
			bits := c.Capacity()
			total += bits
			fmt.Fprintf(wtr, "%s\t%d\t%d\t%d\t%d\n", path, c.Width(), c.Height(), bits, bits/8)
		}
		wtr.Flush()

		payload := total/8 - steg.FrameOverhead
		if payload < 0 {
			payload = 0
		}
		fmt.Printf("\nTotal: %d bits; maximum payload after framing: %d bytes\n", total, payload)
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
