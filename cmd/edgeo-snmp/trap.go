// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgeo-scada/snmp/snmp"
	"github.com/spf13/cobra"
)

var trapListenCmd = &cobra.Command{
	Use:   "trap-listen",
	Short: "Listen for SNMP traps",
	Long: `Start a listener to receive SNMP traps and notifications.

By default, listens on port 162 (the standard SNMP trap port).
Note: Port 162 typically requires root/administrator privileges.

Examples:
  # Listen on default port (162)
  sudo edgeo-snmp trap-listen

  # Listen on alternate port
  edgeo-snmp trap-listen --listen ":1162"

  # Listen with community filter
  edgeo-snmp trap-listen --trap-community private`,
	RunE: runTrapListen,
}

var (
	listenAddress string
	trapCommunity string
)

func init() {
	rootCmd.AddCommand(trapListenCmd)

	defaultListen := fmt.Sprintf(":%d", snmp.DefaultTrapPort)
	trapListenCmd.Flags().StringVar(&listenAddress, "listen", defaultListen, "listen address (host:port)")
	trapListenCmd.Flags().StringVar(&trapCommunity, "trap-community", "", "filter by community string (empty = accept all)")
}

func runTrapListen(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting SNMP trap listener on %s\n", listenAddress)
	if trapCommunity != "" {
		fmt.Printf("Filtering by community: %s\n", trapCommunity)
	}
	fmt.Println("Press Ctrl+C to stop...")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	formatter := NewFormatter(outputFormat)

	listener := snmp.NewTrapListener(
		func(trap *snmp.TrapPDU) {
			formatter.FormatTrap(trap)
		},
		snmp.WithListenAddress(listenAddress),
		snmp.WithTrapCommunity(trapCommunity),
	)

	if err := listener.Start(ctx); err != nil {
		return explainError("start trap listener", err)
	}

	printVerbose("listener id: %s", listener.ID)

	// Wait for interrupt
	<-sigCh
	fmt.Println("\nShutting down...")

	if err := listener.Stop(); err != nil {
		return explainError("stop trap listener", err)
	}

	printVerbose("%d traps received, %d decode errors",
		listener.Metrics().TrapsReceived.Value(), listener.Metrics().Errors.Value())
	return nil
}
