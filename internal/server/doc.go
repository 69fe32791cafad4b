// SPDX-License-Identifier: Apache-2.0

// Package server runs the mock DTS HTTP server.
//
// It provides lifecycle orchestration: startup, stop-signal handling, and
// graceful shutdown.
package server
