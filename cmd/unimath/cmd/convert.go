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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convertStrict bool

var convertCmd = &cobra.Command{
	Use:   "convert [markup...]",
	Short: "Convert markup to UnicodeMath",
	Long: `Convert each argument, or each line of stdin, and print one result per line.

Examples:
  unimath convert '\frac{1}{2}'
  echo '\sqrt{x}' | unimath convert`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "exit with an error when a conversion falls back to its input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, _, conv, err := setup()
	if err != nil {
		return err
	}
	lines, err := inputs(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, line := range lines {
		res := conv.Convert(line)
		fmt.Fprintln(out, res.Output)
		if res.Fallback {
			failed++
			printError("conversion failed", res.Err)
		}
	}
	if convertStrict && failed > 0 {
		return fmt.Errorf("%d of %d conversions fell back", failed, len(lines))
	}
	return nil
}
