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

// Package docxmath reads Office Math (OMML), the XML Word stores equations
// in, and writes it back out as markup the latex package can parse.
package docxmath

import (
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nicholasgasior/unimath-go/internal/symbols"
)

// Namespace is the OMML namespace URI, bound to the m: prefix.
const Namespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// Element is a parsed OMML XML element.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Element  `xml:",any"`
	Content  string     `xml:",chardata"`
}

func (e *Element) localName() string {
	return e.XMLName.Local
}

// findChild finds the first child with the given local name.
func (e *Element) findChild(name string) *Element {
	for i := range e.Children {
		if e.Children[i].localName() == name {
			return &e.Children[i]
		}
	}
	return nil
}

// findAllChildren finds all children with the given local name.
func (e *Element) findAllChildren(name string) []*Element {
	var result []*Element
	for i := range e.Children {
		if e.Children[i].localName() == name {
			result = append(result, &e.Children[i])
		}
	}
	return result
}

// attrVal returns the m:val attribute and whether it was present.
func (e *Element) attrVal() (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == "val" {
			return attr.Value, true
		}
	}
	return "", false
}

// props holds the settings read from a *Pr element. Fields that were absent
// are nil so that OMML defaults can be told apart from explicit empties.
type props struct {
	chr     *string
	pos     string
	begChr  *string
	endChr  *string
	sepChr  *string
	typ     string
	degHide bool
	normal  bool
}

func parseProps(elm *Element) props {
	var pr props
	if elm == nil {
		return pr
	}
	for i := range elm.Children {
		child := &elm.Children[i]
		val, ok := child.attrVal()
		switch child.localName() {
		case "chr":
			pr.chr = &val
		case "pos":
			pr.pos = val
		case "begChr":
			pr.begChr = &val
		case "endChr":
			pr.endChr = &val
		case "sepChr":
			pr.sepChr = &val
		case "type":
			pr.typ = val
		case "degHide":
			pr.degHide = !ok || val == "1" || val == "on" || val == "true"
		case "nor":
			pr.normal = !ok || val == "1" || val == "on" || val == "true"
		}
	}
	return pr
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// Parse reads an OMML fragment and returns every m:oMath element in it,
// including those nested in m:oMathPara or surrounding document markup.
func Parse(xmlStr string) ([]*Element, error) {
	wrapped := `<root xmlns:m="` + Namespace + `">` + xmlStr + "</root>"
	var root Element
	if err := xml.Unmarshal([]byte(wrapped), &root); err != nil {
		return nil, fmt.Errorf("parse OMML: %w", err)
	}
	var found []*Element
	collectMath(&root, &found)
	return found, nil
}

// ParseDocument returns the m:oMath elements of a complete XML part such as
// word/document.xml.
func ParseDocument(data []byte) ([]*Element, error) {
	var root Element
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if root.localName() == "oMath" {
		return []*Element{&root}, nil
	}
	var found []*Element
	collectMath(&root, &found)
	return found, nil
}

func collectMath(e *Element, found *[]*Element) {
	for i := range e.Children {
		child := &e.Children[i]
		if child.localName() == "oMath" {
			*found = append(*found, child)
			continue
		}
		collectMath(child, found)
	}
}

// ToMarkup converts one m:oMath element.
func ToMarkup(elm *Element) string {
	return strings.TrimSpace(processChildren(elm))
}

// ConvertString parses an OMML fragment and converts each equation in it.
func ConvertString(xmlStr string) ([]string, error) {
	elems, err := Parse(xmlStr)
	if err != nil {
		return nil, err
	}
	results := make([]string, 0, len(elems))
	for _, e := range elems {
		results = append(results, ToMarkup(e))
	}
	return results, nil
}

type handler func(*Element) string

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"r":         doR,
		"f":         doF,
		"rad":       doRad,
		"sSub":      doSSub,
		"sSup":      doSSup,
		"sSubSup":   doSSubSup,
		"sPre":      doSPre,
		"nary":      doNary,
		"d":         doD,
		"acc":       doAcc,
		"bar":       doBar,
		"func":      doFunc,
		"fName":     processChildren,
		"limLow":    doLimLow,
		"limUpp":    doLimUpp,
		"groupChr":  doGroupChr,
		"borderBox": doBorderBox,
		"m":         doMatrix,
		"eqArr":     doEqArr,
		"box":       processChildren,
		"e":         processChildren,
		"num":       processChildren,
		"den":       processChildren,
		"deg":       processChildren,
		"sub":       processChildren,
		"sup":       processChildren,
		"lim":       processChildren,
		"oMath":     processChildren,
	}
}

// processElement dispatches on the element tag. Property elements and
// unknown tags produce nothing.
func processElement(elm *Element) string {
	if h, ok := handlers[elm.localName()]; ok {
		return h(elm)
	}
	return ""
}

func processChildren(elm *Element) string {
	var b strings.Builder
	for i := range elm.Children {
		b.WriteString(processElement(&elm.Children[i]))
	}
	return b.String()
}

// part converts the named child, or returns "" when it is missing.
func part(elm *Element, name string) string {
	child := elm.findChild(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(processElement(child))
}

// ownProps parses the element's own *Pr child.
func ownProps(elm *Element) props {
	for i := range elm.Children {
		if strings.HasSuffix(elm.Children[i].localName(), "Pr") {
			return parseProps(&elm.Children[i])
		}
	}
	return props{}
}

// base wraps s in braces unless it is a single character, so that a
// following script attaches to all of it.
func base(s string) string {
	if utf8.RuneCountInString(s) == 1 {
		return s
	}
	return "{" + s + "}"
}

func doR(elm *Element) string {
	var text strings.Builder
	for _, t := range elm.findAllChildren("t") {
		text.WriteString(t.Content)
	}
	// HTML clipboard runs carry their text without an m:t wrapper.
	if text.Len() == 0 {
		text.WriteString(strings.TrimSpace(elm.Content))
	}
	rPr := elm.findChild("rPr")
	if rPr != nil && parseProps(rPr).normal {
		return `\text{` + text.String() + "}"
	}
	return escapeRun(text.String())
}

// escapeRun rewrites a math run into markup: symbols become commands and
// structural characters are escaped.
func escapeRun(s string) string {
	var b strings.Builder
	for _, r := range s {
		r = foldAlphanumeric(r)
		if markupSpecialChars[r] {
			b.WriteByte('\\')
			b.WriteRune(r)
			continue
		}
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if cmd, ok := symbols.CommandFor(string(r)); ok {
			b.WriteString(`\` + cmd + " ")
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// foldAlphanumeric maps the mathematical italic letters Word sometimes stores
// to the plain letters the parser understands.
func foldAlphanumeric(r rune) rune {
	switch {
	case r == italicSmallH:
		return 'h'
	case r >= italicCapitalA && r < italicCapitalA+26:
		return 'A' + (r - italicCapitalA)
	case r >= italicSmallA && r < italicSmallA+26:
		return 'a' + (r - italicSmallA)
	case r >= italicAlpha && r <= italicOmega:
		return 'α' + (r - italicAlpha)
	}
	return r
}

func doF(elm *Element) string {
	num, den := part(elm, "num"), part(elm, "den")
	if ownProps(elm).typ == "lin" {
		return base(num) + "/" + base(den)
	}
	return `\frac{` + num + "}{" + den + "}"
}

func doRad(elm *Element) string {
	text := part(elm, "e")
	deg := part(elm, "deg")
	if deg == "" || ownProps(elm).degHide {
		return `\sqrt{` + text + "}"
	}
	return `\sqrt[` + deg + "]{" + text + "}"
}

func doSSub(elm *Element) string {
	return base(part(elm, "e")) + "_{" + part(elm, "sub") + "}"
}

func doSSup(elm *Element) string {
	return base(part(elm, "e")) + "^{" + part(elm, "sup") + "}"
}

func doSSubSup(elm *Element) string {
	return base(part(elm, "e")) + "_{" + part(elm, "sub") + "}^{" + part(elm, "sup") + "}"
}

// doSPre handles pre-scripts, which the parser only knows as standalone
// scripts ahead of the base.
func doSPre(elm *Element) string {
	return "{}_{" + part(elm, "sub") + "}^{" + part(elm, "sup") + "}" + part(elm, "e")
}

func doNary(elm *Element) string {
	pr := ownProps(elm)
	chr := valueOr(pr.chr, "")
	op, ok := naryCommands[chr]
	if !ok {
		if cmd, found := symbols.CommandFor(chr); found {
			op = cmd
		} else {
			op = "int"
		}
	}
	out := `\` + op
	if sub := part(elm, "sub"); sub != "" {
		out += "_{" + sub + "}"
	}
	if sup := part(elm, "sup"); sup != "" {
		out += "^{" + sup + "}"
	}
	return out + " " + part(elm, "e")
}

func doD(elm *Element) string {
	pr := ownProps(elm)
	beg := valueOr(pr.begChr, "(")
	end := valueOr(pr.endChr, ")")
	sep := valueOr(pr.sepChr, "|")

	items := elm.findAllChildren("e")
	if len(items) == 1 {
		if inner := onlyChild(items[0]); inner != nil {
			switch {
			case inner.localName() == "m" && beg == "(" && end == ")":
				return environment("pmatrix", matrixRows(inner))
			case inner.localName() == "m" && beg == "[" && end == "]":
				return environment("bmatrix", matrixRows(inner))
			case inner.localName() == "eqArr" && beg == "{" && end == "":
				return doEqArr(inner)
			}
		}
	}

	parts := make([]string, 0, len(items))
	for _, e := range items {
		parts = append(parts, strings.TrimSpace(processElement(e)))
	}
	open, ok := fenceOpen[beg]
	if !ok {
		open = "."
	}
	closing, ok := fenceClose[end]
	if !ok {
		closing = "."
	}
	return `\left` + open + " " + strings.Join(parts, escapeRun(sep)) + ` \right` + closing
}

// onlyChild returns the single non-property child of e, if there is one.
func onlyChild(e *Element) *Element {
	var found *Element
	for i := range e.Children {
		c := &e.Children[i]
		if strings.HasSuffix(c.localName(), "Pr") {
			continue
		}
		if found != nil {
			return nil
		}
		found = c
	}
	return found
}

func doAcc(elm *Element) string {
	content := part(elm, "e")
	chr := valueOr(ownProps(elm).chr, "\u0302")
	cmd, ok := accentCommands[chr]
	if !ok {
		return content
	}
	if cmd == "vec" && utf8.RuneCountInString(content) > 1 {
		cmd = "overrightarrow"
	}
	return `\` + cmd + "{" + content + "}"
}

func doBar(elm *Element) string {
	content := part(elm, "e")
	if ownProps(elm).pos == "top" {
		return `\overline{` + content + "}"
	}
	return content
}

func doFunc(elm *Element) string {
	name := part(elm, "fName")
	arg := part(elm, "e")
	if symbols.IsTrigFunction(name) {
		return `\` + name + "{" + arg + "}"
	}
	if symbols.IsStandardFunction(name) {
		return `\` + name + " " + arg
	}
	return name + " " + arg
}

func doLimLow(elm *Element) string {
	e := part(elm, "e")
	lim := strings.ReplaceAll(part(elm, "lim"), `\rightarrow `, `\to `)
	if e == "lim" {
		return `\lim_{` + strings.TrimSpace(lim) + "}"
	}
	return `\underset{` + lim + "}{" + e + "}"
}

func doLimUpp(elm *Element) string {
	return base(part(elm, "e")) + "^{" + part(elm, "lim") + "}"
}

func doGroupChr(elm *Element) string {
	pr := ownProps(elm)
	content := part(elm, "e")
	if under, ok := groupUnder[valueOr(pr.chr, "")]; ok && pr.pos != "top" {
		return `\underset{` + under + "}{" + content + "}"
	}
	return content
}

func doBorderBox(elm *Element) string {
	return `\boxed{` + part(elm, "e") + "}"
}

// doMatrix handles a matrix without surrounding fences.
func doMatrix(elm *Element) string {
	return environment("pmatrix", matrixRows(elm))
}

func matrixRows(elm *Element) []string {
	var rows []string
	for _, mr := range elm.findAllChildren("mr") {
		var cells []string
		for _, e := range mr.findAllChildren("e") {
			cells = append(cells, strings.TrimSpace(processElement(e)))
		}
		rows = append(rows, strings.Join(cells, colAlign))
	}
	return rows
}

func doEqArr(elm *Element) string {
	var rows []string
	for _, e := range elm.findAllChildren("e") {
		rows = append(rows, strings.TrimSpace(processElement(e)))
	}
	return environment("cases", rows)
}

func environment(name string, rows []string) string {
	return `\begin{` + name + "}" + strings.Join(rows, rowBreak+" ") + `\end{` + name + "}"
}
