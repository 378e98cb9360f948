// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records exchanged between pipeline stages and
// the per-stage configuration structs.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Field is a string value that may be absent. The zero value is absent.
// Absent fields serialize as null in both JSON and YAML; upstream records
// are not guaranteed to contain every field, so every extraction resolves
// to either a value or an absent Field, never an error.
type Field string

// IsAbsent reports whether the field holds no value.
func (f Field) IsAbsent() bool { return f == "" }

// String returns the field value, or "" when absent.
func (f Field) String() string { return string(f) }

// MarshalJSON encodes an absent field as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if f.IsAbsent() {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON accepts null or a string.
func (f *Field) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Field(s)
	return nil
}

// MarshalYAML encodes an absent field as null.
func (f Field) MarshalYAML() (interface{}, error) {
	if f.IsAbsent() {
		return nil, nil
	}
	return string(f), nil
}

// ProjectRecord holds the fields extracted from one BioProject document.
// A record is built once by the resolver and not modified afterwards.
type ProjectRecord struct {
	Accession      Field `json:"accession" yaml:"accession"`
	GEOAccession   Field `json:"geo_accession" yaml:"geo_accession"`
	Title          Field `json:"title" yaml:"title"`
	Description    Field `json:"description" yaml:"description"`
	PMID           Field `json:"pmid" yaml:"pmid"`
	OrganismName   Field `json:"organism_name" yaml:"organism_name"`
	SubmissionDate Field `json:"submission_date" yaml:"submission_date"`
}

// LiteratureRecord holds the fields parsed from one MEDLINE record.
// Title and abstract may be assembled from continuation lines.
type LiteratureRecord struct {
	PMID     Field `json:"pmid" yaml:"pmid"`
	Title    Field `json:"title" yaml:"title"`
	Abstract Field `json:"abstract" yaml:"abstract"`
	Journal  Field `json:"journal" yaml:"journal"`
	PubDate  Field `json:"pub_date" yaml:"pub_date"`
	DOI      Field `json:"doi" yaml:"doi"`
}

// LiteratureCollection maps PMIDs to literature records, preserving the
// order in which identifiers were discovered.
type LiteratureCollection struct {
	order   []string
	records map[string]*LiteratureRecord
}

// NewLiteratureCollection returns an empty collection.
func NewLiteratureCollection() *LiteratureCollection {
	return &LiteratureCollection{records: make(map[string]*LiteratureRecord)}
}

// Add inserts or replaces the record for pmid. First insertion fixes the
// key's position in the iteration order.
func (c *LiteratureCollection) Add(pmid string, rec *LiteratureRecord) {
	if _, ok := c.records[pmid]; !ok {
		c.order = append(c.order, pmid)
	}
	c.records[pmid] = rec
}

// Get returns the record for pmid, if present.
func (c *LiteratureCollection) Get(pmid string) (*LiteratureRecord, bool) {
	rec, ok := c.records[pmid]
	return rec, ok
}

// PMIDs returns the keys in insertion order.
func (c *LiteratureCollection) PMIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of records.
func (c *LiteratureCollection) Len() int { return len(c.order) }

// MarshalJSON emits an object whose keys appear in insertion order.
func (c *LiteratureCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pmid := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pmid)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.records[pmid])
		if err != nil {
			return nil, fmt.Errorf("marshaling record %s: %w", pmid, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping whose keys appear in insertion order.
func (c *LiteratureCollection) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, pmid := range c.order {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: pmid}
		valNode := &yaml.Node{}
		if err := valNode.Encode(c.records[pmid]); err != nil {
			return nil, fmt.Errorf("encoding record %s: %w", pmid, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
