// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package pchk opens sessions to LCN-PCHK, the TCP gateway between an IP
// network and the LCN bus.
//
// After the TCP connection is up PCHK asks for a username and a password.
// Once it answers "OK" the connection carries plain PCK commands.
package pchk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is the PCHK listening port
const DefaultPort = 4114

// Session prompts and replies
const (
	promptUsername = "Username:"
	promptPassword = "Password:"
	replyOK        = "OK"
	replyFailed    = "failed"

	maxPromptWindow = 256
)

var (
	// ErrAuthFailed is returned when PCHK rejects the credentials.
	ErrAuthFailed = errors.New("pchk: authentication failed")

	// ErrLogin is returned when the session ends before login completes.
	ErrLogin = errors.New("pchk: login failed")
)

type deadliner interface {
	SetDeadline(t time.Time) error
}

// Address returns host:port, adding DefaultPort when host has no port
func Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(DefaultPort))
}

// Dial connects to PCHK at host and logs in.
func Dial(ctx context.Context, host, username, password string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", Address(host))
	if err != nil {
		return nil, fmt.Errorf("PCHK connection failed: %w", err)
	}

	if err := Login(ctx, conn, username, password); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Login answers the PCHK credential prompts on conn and waits for the verdict.
// If conn supports deadlines, cancelling ctx aborts a blocked read.
func Login(ctx context.Context, conn io.ReadWriter, username, password string) error {
	if d, ok := conn.(deadliner); ok {
		stop := context.AfterFunc(ctx, func() {
			d.SetDeadline(time.Unix(1, 0))
		})
		defer func() {
			if stop() {
				return
			}
			d.SetDeadline(time.Time{})
		}()
	}

	r := bufio.NewReader(conn)

	if err := waitFor(ctx, r, promptUsername); err != nil {
		return err
	}
	if _, err := io.WriteString(conn, username+"\n"); err != nil {
		return fmt.Errorf("%w: sending username: %v", ErrLogin, err)
	}

	if err := waitFor(ctx, r, promptPassword); err != nil {
		return err
	}
	if _, err := io.WriteString(conn, password+"\n"); err != nil {
		return fmt.Errorf("%w: sending password: %v", ErrLogin, err)
	}

	for {
		line, err := r.ReadString('\n')
		reply := strings.TrimSpace(line)
		switch {
		case reply == replyOK:
			return nil
		case strings.Contains(strings.ToLower(reply), replyFailed):
			return fmt.Errorf("%w: %s", ErrAuthFailed, reply)
		}
		if err != nil {
			return readError(ctx, err)
		}
	}
}

// waitFor consumes input until it ends with prompt
func waitFor(ctx context.Context, r *bufio.Reader, prompt string) error {
	window := make([]byte, 0, maxPromptWindow)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return readError(ctx, err)
		}
		if len(window) == maxPromptWindow {
			window = append(window[:0], window[maxPromptWindow/2:]...)
		}
		window = append(window, b)
		if strings.HasSuffix(string(window), prompt) {
			return nil
		}
	}
}

func readError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrLogin, ctxErr)
	}
	return fmt.Errorf("%w: %v", ErrLogin, err)
}
