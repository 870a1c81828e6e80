package analysis

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed corpus/default.yaml
var defaultCorpusYAML []byte

type corpusFile struct {
	Protocols []BenchmarkRecord `yaml:"protocols"`
}

// CorpusStore loads the benchmark corpus from a YAML or JSON file.
type CorpusStore struct {
	path string
}

// NewCorpusStore creates a store reading from path. An empty path selects
// the built-in corpus.
func NewCorpusStore(path string) *CorpusStore {
	return &CorpusStore{path: path}
}

// LoadCorpus reads, validates and freezes the corpus.
func (s *CorpusStore) LoadCorpus() (*Corpus, error) {
	if s.path == "" {
		return DefaultCorpus()
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer file.Close()

	records, err := DecodeRecords(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode corpus file %s: %w", s.path, err)
	}
	return FreezeRecords(records)
}

// DefaultCorpus returns the built-in reference corpus.
func DefaultCorpus() (*Corpus, error) {
	records, err := DecodeRecords(bytes.NewReader(defaultCorpusYAML))
	if err != nil {
		return nil, fmt.Errorf("failed to decode built-in corpus: %w", err)
	}
	return FreezeRecords(records)
}

// DecodeRecords parses a `protocols:` document. JSON input is accepted
// since it is valid YAML.
func DecodeRecords(r io.Reader) ([]BenchmarkRecord, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc corpusFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("corpus document is empty")
		}
		return nil, err
	}
	return doc.Protocols, nil
}

// EncodeRecords writes records as a `protocols:` document that
// DecodeRecords reads back. format is "yaml" or "json".
func EncodeRecords(w io.Writer, records []BenchmarkRecord, format string) error {
	doc := corpusFile{Protocols: records}
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Protocols []BenchmarkRecord `json:"protocols"`
		}{records})
	default:
		return fmt.Errorf("unsupported corpus format %q", format)
	}
}

// FreezeRecords validates records and wraps them in a read-only Corpus.
func FreezeRecords(records []BenchmarkRecord) (*Corpus, error) {
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	return NewCorpus(records), nil
}
