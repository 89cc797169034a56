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
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianAnalyst/pkg/logging"
)

// Config is the CLI configuration loaded from config.yaml.
type Config struct {
	Server struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
	LogDir string `yaml:"log_dir"`
}

var (
	config Config
	logger *logging.Logger
)

func main() {
	defer func() {
		if logger != nil {
			logger.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env is optional; it carries provider API keys in dev setups.
		_ = godotenv.Load()

		config.Server.URL = "http://localhost:8000"
		config.Server.Timeout = 5 * time.Minute

		configPath := "config.yaml"
		yamlFile, err := os.ReadFile(configPath)
		if err == nil {
			// config.yaml is optional for the CLI; defaults cover the
			// local single-node setup.
			if err := yaml.Unmarshal(yamlFile, &config); err != nil {
				log.Fatalf("Error parsing config.yaml: %v", err)
			}
		}
		if requestTimeout > 0 {
			config.Server.Timeout = requestTimeout
		}

		level := logging.LevelWarn
		if verbose {
			level = logging.LevelDebug
		}
		logger = logging.New(logging.Config{
			Level:   level,
			LogDir:  config.LogDir,
			Service: "cli",
		})
	}
}
