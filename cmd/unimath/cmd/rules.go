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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesVerbose bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the post-processing rules in application order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, conv, err := setup()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for i, rule := range conv.Registry().Rules() {
			fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, rule.Name, rule.Description)
			if rulesVerbose {
				fmt.Fprintf(tw, "\t\t%s\n", rule.Pattern)
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVarP(&rulesVerbose, "patterns", "p", false, "show each rule's pattern")
}
