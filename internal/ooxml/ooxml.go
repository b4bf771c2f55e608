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

// Package ooxml reads the parts of an Office Open XML package that can
// carry equations.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

const (
	mainDocument = "word/document.xml"
	presentation = "ppt/presentation.xml"
)

// MaxPartBytes caps the decompressed size of one part read from a package.
var MaxPartBytes int64 = 64 << 20

// Relationship types whose targets may hold OMML next to the main document.
var mathPartTypes = []string{"/header", "/footer", "/footnotes", "/endnotes"}

// Relationship represents an OOXML relationship.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Relationships is the root element for .rels files.
type Relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Part is one XML file from the package.
type Part struct {
	Name string
	Data []byte
}

// DocxParts returns the main document followed by its headers, footers,
// footnotes and endnotes, in relationship order.
func DocxParts(r io.ReaderAt, size int64) ([]Part, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	doc, err := ReadFileFromZip(zr, mainDocument)
	if err != nil {
		return nil, err
	}
	parts := []Part{{Name: mainDocument, Data: doc}}

	rels, err := ParseRelationships(zr, RelsPathFor(mainDocument))
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.TargetMode == "External" || !isMathPart(rel.Type) {
			continue
		}
		name := ResolveTarget(mainDocument, rel.Target)
		data, err := ReadFileFromZip(zr, name)
		if err != nil {
			continue
		}
		parts = append(parts, Part{Name: name, Data: data})
	}
	return parts, nil
}

// PptxSlides returns the slides of a presentation in display order, each
// followed by its notes page when it has one.
func PptxSlides(r io.ReaderAt, size int64) ([]Part, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}
	order, err := slideOrder(zr)
	if err != nil {
		return nil, err
	}

	var parts []Part
	for _, slide := range order {
		data, err := ReadFileFromZip(zr, slide)
		if err != nil {
			continue
		}
		parts = append(parts, Part{Name: slide, Data: data})
		if notes := notesPath(zr, slide); notes != "" {
			if data, err := ReadFileFromZip(zr, notes); err == nil {
				parts = append(parts, Part{Name: notes, Data: data})
			}
		}
	}
	return parts, nil
}

// slideOrder reads the sldId list of presentation.xml. Packages without
// one fall back to the slide files in name order.
func slideOrder(zr *zip.Reader) ([]string, error) {
	presData, err := ReadFileFromZip(zr, presentation)
	if err != nil {
		return nil, err
	}
	rels, err := ParseRelationships(zr, RelsPathFor(presentation))
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		targets[rel.ID] = rel.Target
	}

	var slides []string
	decoder := xml.NewDecoder(bytes.NewReader(presData))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && strings.Contains(attr.Name.Space, "relationships") {
				if target, ok := targets[attr.Value]; ok {
					slides = append(slides, ResolveTarget(presentation, target))
				}
			}
		}
	}

	if len(slides) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				slides = append(slides, f.Name)
			}
		}
		sort.Strings(slides)
	}
	return slides, nil
}

func notesPath(zr *zip.Reader, slide string) string {
	rels, err := ParseRelationships(zr, RelsPathFor(slide))
	if err != nil {
		return ""
	}
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, "/notesSlide") {
			return ResolveTarget(slide, rel.Target)
		}
	}
	return ""
}

func isMathPart(relType string) bool {
	for _, suffix := range mathPartTypes {
		if strings.HasSuffix(relType, suffix) {
			return true
		}
	}
	return false
}

// ParseRelationships parses a .rels file from the ZIP. A missing file yields
// no relationships.
func ParseRelationships(zr *zip.Reader, relsPath string) ([]Relationship, error) {
	for _, f := range zr.File {
		if f.Name == relsPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return decodeRels(io.LimitReader(rc, MaxPartBytes))
		}
	}
	return nil, nil
}

func decodeRels(r io.Reader) ([]Relationship, error) {
	var rels Relationships
	if err := xml.NewDecoder(r).Decode(&rels); err != nil {
		return nil, fmt.Errorf("decode relationships: %w", err)
	}
	return rels.Relationships, nil
}

// ReadFileFromZip reads a file from a zip archive.
func ReadFileFromZip(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			data, err := io.ReadAll(io.LimitReader(rc, MaxPartBytes+1))
			if err != nil {
				return nil, err
			}
			if int64(len(data)) > MaxPartBytes {
				return nil, fmt.Errorf("file %q exceeds %d bytes", name, MaxPartBytes)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("file %q not found in ZIP", name)
}

// RelsPathFor returns the .rels path for a given file in the ZIP.
func RelsPathFor(filePath string) string {
	dir := path.Dir(filePath)
	base := path.Base(filePath)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// ResolveTarget resolves a relative target path against a base path.
func ResolveTarget(basePath, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(basePath), target)
}
