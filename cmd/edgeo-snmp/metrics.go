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
	"fmt"
	"net/http"
	"os"

	"github.com/edgeo-scada/snmp/snmp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var metricsAddr string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Serve Prometheus metrics over HTTP",
	Long: `Serve the client, pool, and trap listener metrics collected by this
process on a /metrics endpoint for Prometheus to scrape.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMetrics()
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsAddr, "listen", ":9116", "address to serve /metrics on")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(snmp.Registry, promhttp.HandlerOpts{}))

	printVerbose("serving metrics on %s/metrics", metricsAddr)
	fmt.Fprintf(os.Stdout, "Serving Prometheus metrics on %s/metrics\n", metricsAddr)

	return http.ListenAndServe(metricsAddr, mux)
}
