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

// Package symbols holds the static lookup tables shared by the parser, the
// printer and the OMML importer.
package symbols

import "sort"

// UnicodeMath structural glyphs.
const (
	NaryPlaceholder = "▒"
	FuncApply       = "\u2061"
	LenticularOpen  = "〖"
	LenticularClose = "〗"
	LeftFence       = "├"
	RightFence      = "┤"
	TildeMarker     = "┬∼"
	MatrixMarker    = "■"
	EqArrayMark     = "█"
	BoxMarker       = "▭"
	RowSeparator    = "@"
	Sqrt            = "√"
	Sum             = "∑"
	Prod            = "∏"
	Integral        = "∫"
	Sim             = "∼"
)

// Combining marks appended to an accented base.
const (
	CombiningVector   = "\u20d7"
	CombiningDot      = "\u0307"
	CombiningDDot     = "\u0308"
	CombiningOverline = "\u0305"
)

var greek = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "Delta": "Δ",
	"epsilon": "ε", "varepsilon": "ε", "vartheta": "ϑ", "theta": "θ", "Theta": "Θ",
	"kappa": "κ", "lambda": "λ", "Lambda": "Λ", "mu": "μ", "nu": "ν",
	"xi": "ξ", "Xi": "Ξ", "pi": "π", "Pi": "Π", "rho": "ρ",
	"sigma": "σ", "Sigma": "Σ", "tau": "τ", "upsilon": "υ", "Upsilon": "Υ",
	"phi": "φ", "Phi": "Φ", "varphi": "ϕ", "chi": "χ", "psi": "ψ",
	"Psi": "Ψ", "Gamma": "Γ", "Beta": "Β", "Alpha": "Α", "Mu": "Μ",
	"Rho": "Ρ", "Tau": "Τ", "omega": "ω", "Omega": "Ω", "zeta": "ζ", "eta": "η",
	"iota": "ι", "varpi": "ϖ", "varrho": "ϱ", "varsigma": "ς", "omicron": "ο",
}

var symbol = map[string]string{
	"infty": "∞", "pm": "±", "mp": "∓", "times": "×", "div": "÷",
	"ast": "∗", "star": "⋆", "bullet": "•", "circ": "∘", "cdot": "·",
	"to": "→", "rightarrow": "→", "longrightarrow": "→",
	"leftarrow": "←", "longleftarrow": "←", "leftrightarrow": "↔",
	"Rightarrow": "⇒", "Leftarrow": "⇐", "Leftrightarrow": "⇔",
	"uparrow": "↑", "downarrow": "↓", "mapsto": "↦",
	"geq": "≥", "geqslant": "≥", "ge": "≥", "leq": "≤", "leqslant": "≤", "le": "≤",
	"neq": "≠", "ne": "≠", "approx": "≈", "equiv": "≡", "sim": "∼", "simeq": "≃", "cong": "≅",
	"propto": "∝", "in": "∈", "notin": "∉", "ni": "∋",
	"subset": "⊂", "supset": "⊃", "subseteq": "⊆", "supseteq": "⊇",
	"cup": "∪", "cap": "∩", "setminus": "∖",
	"forall": "∀", "exists": "∃", "land": "∧", "lor": "∨", "neg": "¬",
	"cdots": "⋯", "ldots": "…", "vdots": "⋮", "ddots": "⋱",
	"angle": "∠", "perp": "⊥", "parallel": "∥", "triangle": "△",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋",
	"lceil": "⌈", "rceil": "⌉", "emptyset": "∅", "prime": "′",
	"partial": "∂", "nabla": "∇", "hbar": "ℏ", "ell": "ℓ", "mid": "∣",
}

// standardFunctions render as upright names followed by a space.
var standardFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "csc": true, "sec": true, "cot": true,
	"sinh": true, "cosh": true, "tanh": true, "csch": true, "sech": true, "coth": true,
	"arcsin": true, "arccos": true, "arctan": true, "arccsc": true, "arcsec": true, "arccot": true,
	"log": true, "ln": true, "exp": true, "max": true, "min": true, "mod": true,
	"det": true, "dim": true, "ker": true, "arg": true, "gcd": true, "deg": true,
	"sup": true, "inf": true,
}

var trigFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "csc": true, "sec": true, "cot": true,
	"sinh": true, "cosh": true, "tanh": true, "csch": true, "sech": true, "coth": true,
	"arcsin": true, "arccos": true, "arctan": true, "arccsc": true, "arcsec": true, "arccot": true,
}

// Word sizes fences itself, so these print as nothing.
var sizingCommands = map[string]bool{
	"big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "Bigl": true, "biggl": true, "Biggl": true,
	"bigr": true, "Bigr": true, "biggr": true, "Biggr": true,
	"bigm": true, "Bigm": true, "biggm": true, "Biggm": true,
}

var styleCommands = map[string]bool{
	"displaystyle": true, "textstyle": true, "scriptstyle": true, "scriptscriptstyle": true,
}

var fontCommands = map[string]bool{
	"mathbf": true, "mathit": true, "mathrm": true, "mathsf": true, "mathtt": true,
	"mathcal": true, "mathfrak": true, "mathscr": true, "boldsymbol": true, "bm": true,
	"textbf": true, "textit": true, "textrm": true,
}

// numberSets are the only \mathbb letters that get double-struck glyphs.
var numberSets = map[string]string{
	"C": "ℂ",
	"N": "ℕ",
	"Q": "ℚ",
	"R": "ℝ",
	"Z": "ℤ",
}

// Greek returns the glyph for a Greek letter command.
func Greek(name string) (string, bool) {
	g, ok := greek[name]
	return g, ok
}

// Symbol returns the glyph for an operator or relation command.
func Symbol(name string) (string, bool) {
	s, ok := symbol[name]
	return s, ok
}

// IsStandardFunction reports whether name prints as an upright function name.
func IsStandardFunction(name string) bool { return standardFunctions[name] }

// IsTrigFunction reports whether name may take a braced argument as a trig function.
func IsTrigFunction(name string) bool { return trigFunctions[name] }

// IsSizing reports whether name is a \big-style delimiter sizing command.
func IsSizing(name string) bool { return sizingCommands[name] }

// IsStyle reports whether name is a display-style switch.
func IsStyle(name string) bool { return styleCommands[name] }

// IsFont reports whether name is a font-styling command whose styling is dropped.
func IsFont(name string) bool { return fontCommands[name] }

// NumberSet returns the double-struck glyph for one of C, N, Q, R, Z.
func NumberSet(letter string) (string, bool) {
	s, ok := numberSets[letter]
	return s, ok
}

// reverse maps a glyph back to its preferred command name.
var reverse = buildReverse()

func buildReverse() map[string]string {
	out := make(map[string]string)
	for _, table := range []map[string]string{symbol, greek} {
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		// Shortest name wins; ties break alphabetically so the result is stable.
		sort.Slice(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) < len(names[j])
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			g := table[name]
			if _, ok := out[g]; !ok {
				out[g] = name
			}
		}
	}
	for letter, g := range numberSets {
		out[g] = "mathbb{" + letter + "}"
	}
	return out
}

// CommandFor returns the command (without backslash) that prints as glyph.
func CommandFor(glyph string) (string, bool) {
	c, ok := reverse[glyph]
	return c, ok
}
