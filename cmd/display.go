// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"

	"github.com/Thermoquad/pckctl/internal/logging"
	"github.com/Thermoquad/pckctl/pkg/lcn"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Interactive console for LCN display text",
	Long: `Edit the dynamic text rows of an LCN display in a terminal UI.

Up/Down selects the row, typing edits the text and Enter sends it. The event
log lists every frame that went out. Ctrl+C or Esc quits.

Supports PCHK, serial and WebSocket connections, and dry run.`,
	Args: cobra.NoArgs,
	RunE: runDisplay,
}

func init() {
	rootCmd.AddCommand(displayCmd)
}

// consoleActions sends through next while the UI owns the terminal.
// Action diagnostics are dropped; failures reach the event log instead.
func consoleActions(next lcn.Handler) (*lcn.Actions, *frameTap) {
	tap := &frameTap{next: next}
	quiet := logging.NewWithWriter(cfg.Logging, version, io.Discard)
	return lcn.NewActions(tap, quiet.Logger), tap
}

func runDisplay(cmd *cobra.Command, args []string) error {
	// Frames are shown in the event log, not printed over the UI
	s, err := openSession(cmd.Context(), io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	actions, tap := consoleActions(s.handler)
	m := initialDisplayModel(actions, tap, s.connInfo, currentTarget())

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
