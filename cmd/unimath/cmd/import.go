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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	unimath "github.com/nicholasgasior/unimath-go"
	"github.com/nicholasgasior/unimath-go/internal/batch"
)

var importConvert bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Turn Word equations back into markup",
}

var importOMMLCmd = &cobra.Command{
	Use:   "omml [file]",
	Short: "Convert Office Math XML (stdin when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		eqs, err := unimath.FromOMML(src)
		if err != nil {
			return err
		}
		return printEquations(cmd, eqs)
	},
}

var importClipboardCmd = &cobra.Command{
	Use:   "clipboard [file]",
	Short: "Extract equations from Word's HTML clipboard format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		eqs, err := unimath.FromClipboardHTML(src)
		if err != nil {
			return err
		}
		return printEquations(cmd, eqs)
	},
}

var importDocxCmd = &cobra.Command{
	Use:   "docx <file>",
	Short: "List the equations of a Word document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ext := strings.ToLower(filepath.Ext(args[0])); ext != ".docx" {
			return fmt.Errorf("expected a .docx file, got %q", ext)
		}
		items, err := batch.NewLoader().LoadFile(args[0])
		if err != nil {
			return err
		}
		eqs := make([]string, 0, len(items))
		for _, it := range items {
			eqs = append(eqs, it.Markup)
		}
		return printEquations(cmd, eqs)
	},
}

func init() {
	importCmd.PersistentFlags().BoolVar(&importConvert, "convert", false, "print UnicodeMath instead of markup")
	importCmd.AddCommand(importOMMLCmd, importClipboardCmd, importDocxCmd)
	rootCmd.AddCommand(importCmd)
}

func printEquations(cmd *cobra.Command, eqs []string) error {
	var conv *unimath.Converter
	if importConvert {
		_, _, c, err := setup()
		if err != nil {
			return err
		}
		conv = c
	}
	for _, eq := range eqs {
		if conv != nil {
			eq = conv.ToWordEquation(eq)
		}
		fmt.Fprintln(cmd.OutOrStdout(), eq)
	}
	return nil
}
