// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thermoquad/pckctl/pkg/capture"
	"github.com/Thermoquad/pckctl/pkg/pck"
	"github.com/spf13/cobra"
)

var replayTiming bool

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Re-send frames from a capture file",
	Long: `Send the frames recorded with --record again, in order.

Each record keeps the address header it was sent with, so frames go back to
their original module or group regardless of --segment/--module. With
--timing the original gaps between frames are kept.

In dry run the capture is only listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayTiming, "timing", false, "Keep the recorded delay between frames")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	reader := capture.NewReader(f)

	var conn Connection
	if !dryRun && hasConnection(cfg.Connection) {
		c, info, err := OpenConnection(cmd.Context(), cfg.Connection)
		if err != nil {
			return err
		}
		defer c.Close()
		conn = c
		logger.Info("connected", "link", info)
	}

	return replayRecords(cmd.Context(), reader, conn, out)
}

// replayRecords writes each record to conn, or lists it when conn is nil
func replayRecords(ctx context.Context, reader *capture.Reader, conn io.Writer, out io.Writer) error {
	var last time.Time
	count := 0

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if replayTiming && !last.IsZero() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rec.Time().Sub(last)):
			}
		}
		last = rec.Time()

		if conn == nil {
			fmt.Fprintf(out, "%s %s %s\n",
				rec.Time().Format("15:04:05.000"), rec.Target, pck.FormatFrame(rec.Frame))
		} else if _, err := conn.Write(rec.Wire()); err != nil {
			return fmt.Errorf("replay of record %d failed: %w", count+1, err)
		}
		count++
	}

	logger.Info("replay finished", "records", count)
	return nil
}
