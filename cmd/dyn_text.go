// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Thermoquad/pckctl/pkg/lcn"
	"github.com/spf13/cobra"
)

var dynTextCmd = &cobra.Command{
	Use:   "dyn_text ROW [TEXT...]",
	Short: "Show text on a display row of the target",
	Long: `Write dynamic text to row 1-4 of an LCN display.

Remaining arguments are joined with spaces. Text is encoded as ISO-8859-1 and
cut to 60 bytes; it is sent as up to five 12-byte chunks. Without TEXT nothing
is sent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDynText,
}

func init() {
	rootCmd.AddCommand(dynTextCmd)
}

func runDynText(cmd *cobra.Command, args []string) error {
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid row %q: %w", args[0], err)
	}
	text := strings.Join(args[1:], " ")

	s, err := openSession(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	return lcn.SendDynamicText(s.actions, row, text)
}
