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

package unimath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/nicholasgasior/unimath-go/internal/docxmath"
)

// FromOMML converts Office Math markup (m:oMath or m:oMathPara, with or
// without surrounding document XML) into markup the parser understands.
// One string is returned per equation.
func FromOMML(xmlStr string) ([]string, error) {
	out, err := docxmath.ConvertString(xmlStr)
	if err != nil {
		return nil, &ConversionError{Stage: StageImport, Input: xmlStr, Err: err}
	}
	return out, nil
}

var (
	reScript   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reTag      = regexp.MustCompile(`</?([a-zA-Z][\w:.-]*)[^>]*>`)
	reEquation = regexp.MustCompile(`(?s)^\[if [^\]]*msEquation[^\]]*\]>(.*)<!\[endif\]$`)
)

// FromClipboardHTML extracts the equations of an HTML clipboard payload as
// Word writes it. Word stores each equation's OMML inside a conditional
// comment; those are converted with FromOMML. When the payload carries no
// equations, its text is returned as a single entry so pasted markup still
// comes through.
func FromClipboardHTML(htmlStr string) ([]string, error) {
	htmlStr = stripClipboardHeader(htmlStr)
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, &ConversionError{Stage: StageImport, Input: htmlStr, Err: fmt.Errorf("parse html: %w", err)}
	}

	var islands []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			if m := reEquation.FindStringSubmatch(n.Data); m != nil {
				islands = append(islands, m[1])
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(islands) == 0 {
		text, err := clipboardText(htmlStr)
		if err != nil {
			return nil, &ConversionError{Stage: StageImport, Input: htmlStr, Err: err}
		}
		if text == "" {
			return nil, nil
		}
		return []string{text}, nil
	}

	var out []string
	for _, island := range islands {
		eqs, err := FromOMML(ommlIsland(island))
		if err != nil {
			return nil, err
		}
		out = append(out, eqs...)
	}
	return out, nil
}

// stripClipboardHeader drops the "Version:...StartHTML:..." preamble of
// the Windows HTML clipboard format.
func stripClipboardHeader(s string) string {
	if !strings.HasPrefix(s, "Version:") {
		return s
	}
	if i := strings.Index(s, "<"); i >= 0 {
		return s[i:]
	}
	return s
}

// ommlIsland keeps only the m: elements of a conditional comment body.
// Word interleaves HTML formatting tags and entities that are not XML.
func ommlIsland(s string) string {
	s = reTag.ReplaceAllStringFunc(s, func(tag string) string {
		name := reTag.FindStringSubmatch(tag)[1]
		if strings.HasPrefix(name, "m:") {
			return tag
		}
		return ""
	})
	return strings.ReplaceAll(s, "&nbsp;", " ")
}

// clipboardText renders non-equation clipboard HTML as text. Escaping is
// off so backslash commands survive.
func clipboardText(htmlStr string) (string, error) {
	htmlStr = reScript.ReplaceAllString(htmlStr, "")
	htmlStr = reStyle.ReplaceAllString(htmlStr, "")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	md, err := conv.ConvertString(htmlStr)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(md), nil
}
