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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/unimath-go/internal/batch"
)

var batchOut string

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Convert every formula in a file",
	Long: `Read formulas from a .txt/.tex file (one per line), a CSV or Excel sheet
(a column named latex, markup, formula or input, else the first column), or
the equations of a Word document, and convert them.

Results are printed as a table, or written to a workbook with --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "write results to this .xlsx file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	_, log, conv, err := setup()
	if err != nil {
		return err
	}

	items, err := batch.NewLoader().LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	rows := batch.Run(conv, items)
	log.Info("batch converted", "file", args[0], "formulas", len(rows))

	if batchOut != "" {
		f, err := os.Create(batchOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := batch.WriteXLSX(f, rows); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(rows), batchOut)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tINPUT\tOUTPUT")
	for _, row := range rows {
		output := row.Output
		if row.Fallback {
			output = "(fallback) " + output
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Source, row.Input, output)
	}
	return tw.Flush()
}
