package ir

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes the document as indented JSON. Output is deterministic:
// ordered containers marshal in insertion order, plain maps marshal with
// sorted keys, so the same Document always produces byte-identical output.
func Serialize(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("ir: cannot serialize a nil document")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ir: serializing document: %w", err)
	}
	return data, nil
}

// Deserialize decodes a document produced by Serialize and rebuilds the
// derived views that are not serialized (each operation's
// ParametersByLocation). Deserialize(Serialize(doc)) is deeply equal to doc.
func Deserialize(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ir: deserializing document: %w", err)
	}
	if doc.Version != "" && doc.Version != FormatVersion {
		return nil, fmt.Errorf("ir: unsupported IR format version %q (this build reads %q)", doc.Version, FormatVersion)
	}
	for _, op := range doc.Operations {
		op.GroupParameters()
	}
	return &doc, nil
}
