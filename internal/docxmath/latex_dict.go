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

package docxmath

// Characters the parser treats as structure inside a text run.
var markupSpecialChars = map[rune]bool{
	'{': true, '}': true, '_': true, '^': true, '#': true, '%': true, '$': true,
}

const (
	rowBreak = `\\`
	colAlign = "&"
)

// accentCommands maps an m:acc chr to the accent command that prints it.
var accentCommands = map[string]string{
	"\u20d7": "vec",
	"\u0307": "dot",
	"\u0308": "ddot",
	"\u0305": "overline",
	"\u0304": "overline",
	"\u00af": "overline",
}

// naryCommands maps an m:nary chr to its operator. OMML omits chr for ∫.
var naryCommands = map[string]string{
	"":       "int",
	"\u222b": "int",
	"\u2211": "sum",
	"\u220f": "prod",
}

// fenceOpen and fenceClose give the \left / \right argument for a fence
// character. An empty character is an invisible fence.
var fenceOpen = map[string]string{
	"":  ".",
	"(": "(",
	"[": "[",
	"{": `\{`,
	"|": "|",
}

var fenceClose = map[string]string{
	"":  ".",
	")": ")",
	"]": "]",
	"}": `\}`,
	"|": "|",
}

// groupUnder maps an m:groupChr chr placed under its base to the underset
// annotation it stands for.
var groupUnder = map[string]string{
	"~":      `\sim`,
	"\u223c": `\sim`,
}

// Mathematical alphanumeric ranges folded back to plain letters.
const (
	italicCapitalA = 0x1D434
	italicSmallA   = 0x1D44E
	italicSmallH   = 0x210E
	italicAlpha    = 0x1D6FC
	italicOmega    = 0x1D714
)
