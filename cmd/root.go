// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Thermoquad/pckctl/internal/config"
	"github.com/Thermoquad/pckctl/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.3.0"

var (
	configPath string

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// PCHK connection flags
	pchkHost string

	// Module addressing flags
	segmentID  int
	moduleID   int
	groupAddr  bool
	requestAck bool

	dryRun     bool
	recordPath string

	logLevel  string
	logFormat string

	// Populated by PersistentPreRunE
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pckctl",
	Short: "LCN PCK command tool",
	Long: `pckctl - send LCN PCK commands to a module or group.

Encodes key presses, output flicker and dynamic display text into PCK frames
and delivers them to the bus, or prints them when no connection is configured.

Connection modes:
  PCHK:      --host pchk.local[:4114] [--username lcn]
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]
  Dry run:   --dry-run, or no connection flag at all

The target is --segment/--module (or --group). Settings can also come from a
YAML file (--config) and PCKCTL_* environment variables; flags win.

The password for PCHK and WebSocket authentication is read from the
LCN_PASSWORD environment variable, or prompted interactively if not set. The
--password flag is intentionally not provided to avoid leaking credentials in
shell history.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")

	// Serial connection flags
	pf.StringVarP(&portName, "port", "p", "", "Serial port device")
	pf.IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	pf.StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	pf.StringVar(&wsUsername, "username", "", "Username for PCHK login or HTTP Basic auth")
	pf.BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	pf.StringVarP(&pchkHost, "host", "H", "", "LCN-PCHK host[:port]")

	pf.IntVar(&segmentID, "segment", 0, "Target segment (0-127)")
	pf.IntVar(&moduleID, "module", 5, "Target module or group id (0-255)")
	pf.BoolVar(&groupAddr, "group", false, "Address a group instead of a module")
	pf.BoolVar(&requestAck, "ack", false, "Request an acknowledgement from the module")

	pf.BoolVar(&dryRun, "dry-run", false, "Print frames instead of sending them")
	pf.StringVar(&recordPath, "record", "", "Append sent frames to a CBOR capture file")

	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (text, json)")
}

// loadSettings merges file, environment and flags, then builds the logger
func loadSettings(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if err := applyLinkFlags(flags, &loaded.Connection); err != nil {
		return err
	}
	if flags.Changed("baud") {
		loaded.Connection.Baud = baudRate
	}
	if flags.Changed("username") {
		loaded.Connection.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		loaded.Connection.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("segment") {
		loaded.Module.Segment = segmentID
	}
	if flags.Changed("module") {
		loaded.Module.ID = moduleID
	}
	if flags.Changed("group") {
		loaded.Module.Group = groupAddr
	}
	if flags.Changed("ack") {
		loaded.Module.RequestAck = requestAck
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cfg.Logging, version)
	return nil
}

// applyLinkFlags lets an explicit --host, --port or --url replace the link
// from the file or environment. Giving more than one is an error.
func applyLinkFlags(flags *pflag.FlagSet, c *config.ConnectionConfig) error {
	links := []struct {
		flag  string
		kind  string
		value string
	}{
		{"host", config.LinkHost, pchkHost},
		{"port", config.LinkPort, portName},
		{"url", config.LinkURL, wsURL},
	}

	var changed []string
	for _, l := range links {
		if flags.Changed(l.flag) {
			c.SetLink(l.kind, l.value)
			changed = append(changed, "--"+l.flag)
		}
	}
	if len(changed) > 1 {
		return fmt.Errorf("only one of --host, --port and --url may be given (got %s)", strings.Join(changed, ", "))
	}
	return nil
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
