// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stackscout/stackscout-agent/app/logging"
	"github.com/stackscout/stackscout-agent/app/metadata"
	"github.com/stackscout/stackscout-agent/app/resolver"
	"github.com/stackscout/stackscout-agent/app/types"
)

var (
	// CLI flags
	outputFormat string
	timeout      time.Duration
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whereami",
	Short: "StackScout whereami - Monitored Resource Detection Tool",
	Long: `whereami detects which managed cloud environment the current process
is running in and prints the monitored resource descriptor that telemetry
exported from this host should be tagged with.

Detected environments:
- Compute Engine virtual machines
- Kubernetes Engine cluster nodes
- Cloud Run services and jobs
- Cloud Functions
- App Engine

When nothing is detected, the "global" resource with no labels is
printed; the command never fails on an unmanaged host.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResource()
	},
}

// resourceCmd represents the resource command
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Print the full monitored resource descriptor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResource()
	},
}

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Print only the detected environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format (json, yaml, table)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "Overall timeout for metadata probing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging of individual probes")

	// Add subcommands
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(detectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newResolver() (*resolver.Resolver, error) {
	opts := []resolver.Option{
		resolver.WithMetadataClient(metadata.NewHTTPClient()),
	}

	if verbose {
		logger, err := logging.NewLogger(
			logging.WithLevel("debug"),
			logging.WithPretty(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create the logger: %w", err)
		}
		opts = append(opts, resolver.WithLogger(*logger))
	}

	return resolver.New(opts...), nil
}

// runResource resolves and prints the full monitored resource.
func runResource() error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r, err := newResolver()
	if err != nil {
		return err
	}

	res := r.Resolve(ctx)
	return outputResource(os.Stdout, res)
}

// runDetect resolves and prints only the environment variant.
func runDetect() error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r, err := newResolver()
	if err != nil {
		return err
	}

	env := r.Environment(ctx)
	return outputEnvironment(os.Stdout, env)
}

// outputEnvironment prints the environment in the selected format.
func outputEnvironment(w io.Writer, env types.Environment) error {
	result := map[string]string{"environment": string(env)}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(result)

	case "table":
		fmt.Fprintf(w, "Environment: %s\n", env)

	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	return nil
}

// outputResource prints the monitored resource in the selected format.
func outputResource(w io.Writer, res types.MonitoredResource) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(res)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(res)

	case "table":
		fmt.Fprintf(w, "%-15s: %s\n", "Resource Type", res.Type)
		for name, value := range res.Labels {
			fmt.Fprintf(w, "%-15s: %s\n", name, value)
		}

	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	return nil
}
