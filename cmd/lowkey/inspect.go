package main

import (
	"fmt"

	"github.com/lowkeysteg/lowkey/pkg/steg"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [image-path]",
	Short: "Read the embedded frame header of a stego image",
	Long:  `Reads the frame header off the front of a carrier's pixel channels to show the protocol version and payload size, along with the sequence chunk of multi-carrier sets. Nothing is decrypted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := steg.Inspect(args[0])
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", args[0], err)
		}

		fmt.Println("Embedded Frame:")
		fmt.Println("---------------")
		fmt.Printf("Version:      %d\n", info.Version)
		fmt.Printf("Body Length:  %d bytes\n", info.BodyLength)
		if info.PayloadLength >= 0 {
			fmt.Printf("Payload Size: %d bytes\n", info.PayloadLength)
		} else {
			fmt.Println("Payload Size: invalid (body shorter than nonce plus tag)")
		}
		if info.HasSequence {
			fmt.Printf("Sequence:     carrier %d of %d\n", info.SeqIndex+1, info.SeqTotal)
		} else {
			fmt.Println("Sequence:     none")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
