// Package fixture reads fixture documents and bulk loads them into a freshly
// reset schema.
//
// A document is a JSON array of records:
//
//	[
//	  {"model": "publisher", "pk": 1, "fields": {"name": "Эксмо"}},
//	  {"model": "book", "pk": 1, "fields": {"title": "...", "id_publisher": 1}}
//	]
//
// Field names are column names. The pk becomes the id column.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Record is one row of a fixture document.
type Record struct {
	Model  string                     `json:"model"`
	PK     int64                      `json:"pk"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// Document is an ordered list of records.
type Document []Record

// Parse decodes a fixture document. Unknown top-level record keys are
// rejected so typos such as "field" do not silently load empty rows.
func Parse(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse fixture: trailing data after array")
	}
	for i, rec := range doc {
		if rec.Model == "" {
			return nil, fmt.Errorf("record %d: missing model", i)
		}
	}
	return doc, nil
}

// ReadFile parses the fixture document at path.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(bytes.NewReader(data))
}
