// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package cmd implements the unimath command line.
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	unimath "github.com/nicholasgasior/unimath-go"
	"github.com/nicholasgasior/unimath-go/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "unimath",
	Short: "Convert LaTeX math markup to UnicodeMath",
	Long: `unimath converts LaTeX-style math markup into UnicodeMath, the linear
format Word's equation editor accepts.

Commands:
  convert    - convert markup given as arguments or on stdin
  batch      - convert every formula in a text, CSV, Excel or Word file
  normalize  - input and paste-back hygiene helpers
  import     - turn Word OMML or clipboard HTML back into markup
  rules      - list the post-processing rules
  serve      - run the HTTP API`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml or .yaml; default: $UNIMATH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads --config, or $UNIMATH_CONFIG when the flag is unset.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads the configuration and builds a converter logging to stderr.
func setup() (*config.Config, *slog.Logger, *unimath.Converter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if !verbose && cfg.Log.Level == "info" {
		// Rule failures still show up; per-call noise does not.
		cfg.Log.Level = "warn"
	}
	log := cfg.Logger(os.Stderr)
	conv, err := cfg.Converter(log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, conv, nil
}

// inputs returns args, or the non-empty lines of stdin when there are none.
func inputs(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var lines []string
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// readSource reads a file argument, or stdin for "-" or no argument.
func readSource(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
