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
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	cfgFile   string
	target    string
	port      int
	community string
	version   string
	timeout   time.Duration
	retries   int

	// SNMPv3 flags
	securityLevel  string
	securityName   string
	authProtocol   string
	authPassphrase string
	privProtocol   string
	privPassphrase string
	contextName    string

	// Output flags
	outputFormat string
	verbose      bool
	noColor      bool
	numeric      bool

	// Engine flags
	streamingMode     string
	containerBackend  string
	containerCapacity int
)

var rootCmd = &cobra.Command{
	Use:   "edgeo-snmp",
	Short: "SNMP command-line client",
	Long: `edgeo-snmp is an SNMP v1/v2c command-line client for testing,
debugging, monitoring, and managing network devices.

Supports:
  - SNMPv1 and SNMPv2c (SNMPv3 flags are accepted, but messages use
    community framing with no USM authentication or privacy)
  - GET, GET-NEXT, GET-BULK, SET operations
  - WALK and BULK-WALK
  - Trap receiving

Examples:
  # Get system description
  edgeo-snmp get -t 192.168.1.1 1.3.6.1.2.1.1.1.0

  # Walk interface table
  edgeo-snmp walk -t 192.168.1.1 1.3.6.1.2.1.2.2

  # Set a value
  edgeo-snmp set -t 192.168.1.1 1.3.6.1.2.1.1.4.0 s "admin@example.com"

  # Listen for traps
  edgeo-snmp trap-listen`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Connection flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is $HOME/.edgeo-snmp.yaml)")
	rootCmd.PersistentFlags().StringVarP(&target, "target", "t", "", "SNMP agent address (required)")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 161, "SNMP agent port")
	rootCmd.PersistentFlags().StringVarP(&community, "community", "c", "public", "community string (v1/v2c)")
	rootCmd.PersistentFlags().StringVarP(&version, "version", "V", "2c", "SNMP version (1, 2c, 3)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	rootCmd.PersistentFlags().IntVarP(&retries, "retries", "r", 3, "number of retries")

	// SNMPv3 flags
	rootCmd.PersistentFlags().StringVar(&securityLevel, "security-level", "noAuthNoPriv", "security level (noAuthNoPriv, authNoPriv, authPriv)")
	rootCmd.PersistentFlags().StringVarP(&securityName, "security-name", "u", "", "security name (username)")
	rootCmd.PersistentFlags().StringVarP(&authProtocol, "auth-protocol", "a", "", "auth protocol (MD5, SHA, SHA-224, SHA-256, SHA-384, SHA-512)")
	rootCmd.PersistentFlags().StringVarP(&authPassphrase, "auth-passphrase", "A", "", "auth passphrase")
	rootCmd.PersistentFlags().StringVarP(&privProtocol, "priv-protocol", "x", "", "privacy protocol (DES, AES, AES-192, AES-256)")
	rootCmd.PersistentFlags().StringVarP(&privPassphrase, "priv-passphrase", "X", "", "privacy passphrase")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "n", "", "context name")

	// Output flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, csv, raw")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&numeric, "numeric", false, "print OIDs numerically")

	// Engine flags
	rootCmd.PersistentFlags().StringVar(&streamingMode, "streaming-mode", "buffer", "message encode/decode mode: buffer, stream")
	rootCmd.PersistentFlags().StringVar(&containerBackend, "container-backend", "growable", "varbind list backend: growable, fixed-capacity")
	rootCmd.PersistentFlags().IntVar(&containerCapacity, "container-capacity", 6, "varbind limit when container-backend is fixed-capacity")

	// Bind flags to viper
	viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("community", rootCmd.PersistentFlags().Lookup("community"))
	viper.BindPFlag("version", rootCmd.PersistentFlags().Lookup("version"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("retries", rootCmd.PersistentFlags().Lookup("retries"))
	viper.BindPFlag("security-level", rootCmd.PersistentFlags().Lookup("security-level"))
	viper.BindPFlag("security-name", rootCmd.PersistentFlags().Lookup("security-name"))
	viper.BindPFlag("auth-protocol", rootCmd.PersistentFlags().Lookup("auth-protocol"))
	viper.BindPFlag("auth-passphrase", rootCmd.PersistentFlags().Lookup("auth-passphrase"))
	viper.BindPFlag("priv-protocol", rootCmd.PersistentFlags().Lookup("priv-protocol"))
	viper.BindPFlag("priv-passphrase", rootCmd.PersistentFlags().Lookup("priv-passphrase"))
	viper.BindPFlag("context", rootCmd.PersistentFlags().Lookup("context"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("numeric", rootCmd.PersistentFlags().Lookup("numeric"))
	viper.BindPFlag("streaming-mode", rootCmd.PersistentFlags().Lookup("streaming-mode"))
	viper.BindPFlag("container-backend", rootCmd.PersistentFlags().Lookup("container-backend"))
	viper.BindPFlag("container-capacity", rootCmd.PersistentFlags().Lookup("container-capacity"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config"))
		viper.SetConfigName(".edgeo-snmp")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("EDGEO_SNMP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	// Apply viper values to flags
	target = viper.GetString("target")
	port = viper.GetInt("port")
	community = viper.GetString("community")
	version = viper.GetString("version")
	timeout = viper.GetDuration("timeout")
	retries = viper.GetInt("retries")
	securityLevel = viper.GetString("security-level")
	securityName = viper.GetString("security-name")
	authProtocol = viper.GetString("auth-protocol")
	authPassphrase = viper.GetString("auth-passphrase")
	privProtocol = viper.GetString("priv-protocol")
	privPassphrase = viper.GetString("priv-passphrase")
	contextName = viper.GetString("context")
	outputFormat = viper.GetString("output")
	verbose = viper.GetBool("verbose")
	noColor = viper.GetBool("no-color")
	numeric = viper.GetBool("numeric")
	streamingMode = viper.GetString("streaming-mode")
	containerBackend = viper.GetString("container-backend")
	containerCapacity = viper.GetInt("container-capacity")
}
