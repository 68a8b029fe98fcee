// Package catalog holds the canned analyses and follow-up answers served in
// demo mode and whenever a live model call fails.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/foodiq/internal/domain"
)

// ProductKey selects a canned analysis.
type ProductKey string

const (
	ProductProteinBar     ProductKey = "proteinBar"
	ProductDietCola       ProductKey = "dietCola"
	ProductInstantNoodles ProductKey = "instantNoodles"
	ProductKidsCereal     ProductKey = "kidsCereal"
	ProductDefault        ProductKey = "default"
)

// FollowUpKey selects a canned follow-up answer.
type FollowUpKey string

const (
	FollowUpDaily        FollowUpKey = "daily"
	FollowUpKids         FollowUpKey = "kids"
	FollowUpAlternatives FollowUpKey = "alternatives"
	FollowUpSafety       FollowUpKey = "safety"
	FollowUpDefault      FollowUpKey = "default"
)

// ProductKeys lists every key the product classifier can return.
var ProductKeys = []ProductKey{
	ProductProteinBar,
	ProductDietCola,
	ProductInstantNoodles,
	ProductKidsCereal,
	ProductDefault,
}

// FollowUpKeys lists every key the follow-up classifier can return.
var FollowUpKeys = []FollowUpKey{
	FollowUpDaily,
	FollowUpKids,
	FollowUpAlternatives,
	FollowUpSafety,
	FollowUpDefault,
}

//go:embed catalog.yaml
var embedded []byte

// Catalog is the read-only table of canned responses. It is safe for
// concurrent use once built.
type Catalog struct {
	analyses  map[ProductKey]domain.AnalysisResult
	followUps map[FollowUpKey]string
	fallback  domain.AnalysisResult
}

type document struct {
	Analyses  map[ProductKey]domain.AnalysisResult `yaml:"analyses"`
	FollowUps map[FollowUpKey]string               `yaml:"followUps"`
	Fallback  domain.AnalysisResult                `yaml:"fallback"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path yields the embedded
// catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for _, key := range ProductKeys {
		entry, ok := doc.Analyses[key]
		if !ok {
			return nil, fmt.Errorf("catalog missing analysis %q", key)
		}
		if err := validate(entry); err != nil {
			return nil, fmt.Errorf("analysis %q: %w", key, err)
		}
		entry.Normalize()
		doc.Analyses[key] = entry
	}
	for _, key := range FollowUpKeys {
		if doc.FollowUps[key] == "" {
			return nil, fmt.Errorf("catalog missing follow-up %q", key)
		}
	}
	if err := validate(doc.Fallback); err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	doc.Fallback.Normalize()

	return &Catalog{
		analyses:  doc.Analyses,
		followUps: doc.FollowUps,
		fallback:  doc.Fallback,
	}, nil
}

func validate(r domain.AnalysisResult) error {
	if !r.Verdict.Valid() {
		return fmt.Errorf("invalid verdict %q", r.Verdict)
	}
	if r.BottomLine == "" {
		return fmt.Errorf("bottomLine is required")
	}
	return nil
}

// Analysis returns a copy of the canned analysis for key. Unknown keys get
// the default entry.
func (c *Catalog) Analysis(key ProductKey) domain.AnalysisResult {
	entry, ok := c.analyses[key]
	if !ok {
		entry = c.analyses[ProductDefault]
	}
	return entry.Clone()
}

// FollowUp returns the canned answer for key. Unknown keys get the default
// answer.
func (c *Catalog) FollowUp(key FollowUpKey) domain.FollowUpResult {
	answer, ok := c.followUps[key]
	if !ok {
		answer = c.followUps[FollowUpDefault]
	}
	return domain.FollowUpResult{FollowUpAnswer: answer}
}

// Fallback returns the generic analysis used when no ingredient text is
// available.
func (c *Catalog) Fallback() domain.AnalysisResult {
	return c.fallback.Clone()
}
