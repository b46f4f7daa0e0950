// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"

	"github.com/Thermoquad/pckctl/pkg/lcn"
	"github.com/spf13/cobra"
)

var (
	flickerDepth int
	flickerRamp  int
	flickerCount int
)

var flickerCmd = &cobra.Command{
	Use:   "flicker OUTPUT",
	Short: "Flicker an output of the target",
	Long: `Make output 1-4 of the target flicker.

--depth selects the brightness swing (0=25%, 1=50%, 2=100%), --ramp the
transition speed (0=2s, 1=1s, 2=0.5s) and --count the number of cycles (1-15).`,
	Args: cobra.ExactArgs(1),
	RunE: runFlicker,
}

func init() {
	flickerCmd.Flags().IntVar(&flickerDepth, "depth", 0, "Flicker depth (0-2)")
	flickerCmd.Flags().IntVar(&flickerRamp, "ramp", 0, "Flicker ramp (0-2)")
	flickerCmd.Flags().IntVar(&flickerCount, "count", 1, "Number of flicker cycles (1-15)")
	rootCmd.AddCommand(flickerCmd)
}

func runFlicker(cmd *cobra.Command, args []string) error {
	output, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid output number %q: %w", args[0], err)
	}

	s, err := openSession(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	return lcn.FlickerOutput(s.actions, output, flickerDepth, flickerRamp, flickerCount)
}
