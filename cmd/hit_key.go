// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"

	"github.com/Thermoquad/pckctl/pkg/lcn"
	"github.com/spf13/cobra"
)

var hitKeyCmd = &cobra.Command{
	Use:   "hit_key TABLE KEY ACTION",
	Short: "Send a key command to the target",
	Long: `Trigger one key of one key table on the target module or group.

TABLE is A, B, C or D. KEY is 1-8. ACTION is HIT, MAKE or BREAK.

Example:
  pckctl --host pchk.local --module 22 hit_key A 1 HIT`,
	Args: cobra.ExactArgs(3),
	RunE: runHitKey,
}

func init() {
	rootCmd.AddCommand(hitKeyCmd)
}

func runHitKey(cmd *cobra.Command, args []string) error {
	key, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid key number %q: %w", args[1], err)
	}

	s, err := openSession(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	return lcn.HitKey(s.actions, args[0], key, args[2])
}
