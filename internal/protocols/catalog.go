// Package protocols serves the read-only catalog of demo protocols.
package protocols

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Protocol is a demo protocol with its extracted feature vector
type Protocol struct {
	ID        string             `json:"protocol_id" yaml:"protocol_id"`
	Title     string             `json:"title" yaml:"title"`
	Sponsor   string             `json:"sponsor" yaml:"sponsor"`
	StudyType analysis.StudyType `json:"study_type" yaml:"study_type"`
	Phase     analysis.Phase     `json:"phase" yaml:"phase"`

	analysis.FeatureVector `yaml:",inline"`
}

// Catalog is an ordered, immutable set of protocols
type Catalog struct {
	protocols []Protocol
	byID      map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in demo catalog, parsed on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc struct {
		Protocols []Protocol `yaml:"protocols"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode protocol catalog: %w", err)
	}

	c := &Catalog{
		protocols: doc.Protocols,
		byID:      make(map[string]int, len(doc.Protocols)),
	}
	for i, p := range doc.Protocols {
		if p.ID == "" {
			return nil, fmt.Errorf("protocol %d: protocol_id is required", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate protocol_id %q", p.ID)
		}
		if !p.StudyType.Valid() {
			return nil, fmt.Errorf("protocol %q: unknown study_type %q", p.ID, p.StudyType)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// All returns a copy of every protocol in catalog order
func (c *Catalog) All() []Protocol {
	out := make([]Protocol, len(c.protocols))
	copy(out, c.protocols)
	return out
}

// Get looks up a protocol by id
func (c *Catalog) Get(id string) (Protocol, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Protocol{}, false
	}
	return c.protocols[i], true
}

// Len returns the number of protocols
func (c *Catalog) Len() int { return len(c.protocols) }
