// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package diag starts an optional gops diagnostics agent for
// long-running processes that embed sendwire, letting an operator
// attach with the gops CLI to inspect goroutine stacks, heap profiles,
// and GC stats. It is not a CLI itself: a host process decides whether
// to call Listen, typically behind its own debug flag.
package diag

import (
	"fmt"

	"github.com/google/gops/agent"

	"github.com/sendwire/sendwire/pkg/sendwirelog"
)

// Options controls where the gops agent listens.
type Options struct {
	// Addr overrides the default gops agent listen address
	// ("127.0.0.1:0", an OS-assigned port). Leave empty to use it.
	Addr string
	// ShutdownCleanup, when true, makes the agent deregister itself on
	// SIGINT/SIGTERM instead of leaving a stale entry for gops list.
	ShutdownCleanup bool
}

// Listen starts the gops agent. Call Close when the host process is
// done, or rely on ShutdownCleanup for signal-driven shutdown.
func Listen(opts Options) error {
	agentOpts := agent.Options{
		Addr:            opts.Addr,
		ShutdownCleanup: opts.ShutdownCleanup,
	}
	if err := agent.Listen(agentOpts); err != nil {
		return fmt.Errorf("[diag]> gops agent listen: %w", err)
	}
	sendwirelog.Info("diag: gops agent listening")
	return nil
}

// Close stops the gops agent, if running.
func Close() {
	agent.Close()
}
