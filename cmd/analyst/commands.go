// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// --- Global Command Variables ---
var (
	serverURL      string
	rawJSON        bool
	verbose        bool
	requestTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:   "analyst",
		Short: "A cli for the Aleutian stock analysis service",
		Long: `Analyst runs multi-branch stock analysis (fundamentals, technicals,
risk, sentiment, sector, forecast) through the orchestrator service and
renders the recommendation report.`,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Run a full analysis for one stock symbol",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the orchestrator service health",
		Run:   runHealth,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Orchestrator URL (overrides config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "Request timeout (overrides config.yaml)")
	analyzeCmd.Flags().BoolVar(&rawJSON, "json", false, "Print the raw report JSON instead of the rendered summary")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(healthCmd)
}

func resolveServerURL() string {
	if serverURL != "" {
		return strings.TrimRight(serverURL, "/")
	}
	return strings.TrimRight(config.Server.URL, "/")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	symbol := args[0]
	logger.Debug("Submitting analysis", "symbol", symbol,
		"server", resolveServerURL(), "timeout", config.Server.Timeout)

	body, err := json.Marshal(map[string]string{"symbol": symbol})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: config.Server.Timeout}
	resp, err := client.Post(resolveServerURL()+"/v1/analysis", "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calling orchestrator: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Analysis failed (%s): %s\n", resp.Status, string(payload))
		os.Exit(1)
	}

	if rawJSON {
		fmt.Println(string(payload))
		return
	}

	var report datatypes.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(renderReport(&report))
}

func runHealth(cmd *cobra.Command, args []string) {
	client := &http.Client{Timeout: config.Server.Timeout}
	resp, err := client.Get(resolveServerURL() + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator unreachable: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Orchestrator unhealthy: %s\n", resp.Status)
		os.Exit(1)
	}
	fmt.Println("Orchestrator is healthy.")
}
