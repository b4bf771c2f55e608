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

	unimath "github.com/nicholasgasior/unimath-go"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Markup and UnicodeMath hygiene helpers",
}

var normalizeLatexCmd = &cobra.Command{
	Use:   "latex [markup...]",
	Short: "Strip empty constructs such as \\frac{}{}",
	RunE:  textFilter(unimath.NormalizeLatexStr),
}

var normalizeWordCmd = &cobra.Command{
	Use:   "word [text...]",
	Short: "Turn UnicodeMath pasted back from Word into plain text",
	RunE:  textFilter(unimath.NormalizeWordInput),
}

var normalizeSpacesCmd = &cobra.Command{
	Use:   "spaces [markup...]",
	Short: "Drop template spacing after \\int, \\sum and \\prod",
	RunE:  textFilter(unimath.RemoveWordSpaces),
}

func init() {
	normalizeCmd.AddCommand(normalizeLatexCmd, normalizeWordCmd, normalizeSpacesCmd)
	rootCmd.AddCommand(normalizeCmd)
}

// textFilter applies fn to each argument or stdin line.
func textFilter(fn func(string) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		lines, err := inputs(args, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), fn(line))
		}
		return nil
	}
}
