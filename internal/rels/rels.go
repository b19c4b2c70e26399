// Package rels parses OOXML relationship XML files (.rels).
//
// It exists to eliminate duplicated relationship-parsing code between
// workbook/ and worksheet/, which cannot share it directly without
// introducing an import cycle.
package rels

import (
	"encoding/xml"
	"fmt"
)

// HyperlinkType is the relationship Type value OOXML uses for hyperlinks.
const HyperlinkType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

// Relationships is the root element of a .rels XML document.
type Relationships struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship is one entry in a .rels XML document.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Parse parses the raw bytes of a .rels XML file.
func Parse(data []byte) (Relationships, error) {
	var r Relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return Relationships{}, fmt.Errorf("rels: parse relationships XML: %w", err)
	}
	return r, nil
}

// ParseRelsXML parses the raw bytes of a .rels XML file and returns a map of
// relationship ID → target string, regardless of relationship type.
func ParseRelsXML(data []byte) (map[string]string, error) {
	r, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(r.Relationships))
	for _, rel := range r.Relationships {
		m[rel.ID] = rel.Target
	}
	return m, nil
}

// Hyperlinks returns only the hyperlink-typed relationships, keyed by id.
func Hyperlinks(data []byte) (map[string]string, error) {
	r, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for _, rel := range r.Relationships {
		if rel.Type == HyperlinkType {
			m[rel.ID] = rel.Target
		}
	}
	return m, nil
}
