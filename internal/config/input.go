package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile and table files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads, validates and maps a YAML profile file
func (ip *InputParser) LoadFromFile(filename string) (domain.FinancialProfile, error) {
	pf, err := ip.LoadDocument(filename)
	if err != nil {
		return domain.FinancialProfile{}, err
	}
	return pf.ToProfile()
}

// LoadDocument loads and validates a YAML profile file without mapping it
func (ip *InputParser) LoadDocument(filename string) (*ProfileFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	pf, err := ip.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return pf, nil
}

// ParseDocument decodes and validates profile YAML. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func (ip *InputParser) ParseDocument(data []byte) (*ProfileFile, error) {
	var pf ProfileFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Validate(&pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

// ParseProfile decodes, validates and maps profile YAML
func (ip *InputParser) ParseProfile(data []byte) (domain.FinancialProfile, error) {
	pf, err := ip.ParseDocument(data)
	if err != nil {
		return domain.FinancialProfile{}, err
	}
	return pf.ToProfile()
}

// TablesFile is the layout of a reference-table override file
type TablesFile struct {
	Tables []*domain.TaxYearTables `yaml:"tables"`
}

// LoadTablesFromFile reads reference tables and merges them over the
// built-in set; a file year replaces the built-in year wholesale. The merged
// set is validated before it is returned.
func (ip *InputParser) LoadTablesFromFile(filename string) (domain.TableSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseTables(data)
}

// ParseTables is LoadTablesFromFile on an in-memory document
func (ip *InputParser) ParseTables(data []byte) (domain.TableSet, error) {
	var tf TablesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to parse tables YAML: %w", err)
	}
	if len(tf.Tables) == 0 {
		return nil, fmt.Errorf("tables file contains no tax years")
	}

	set := calculation.DefaultTableSet()
	seen := make(map[int]bool, len(tf.Tables))
	for i, t := range tf.Tables {
		if t == nil {
			return nil, fmt.Errorf("tables[%d] is empty", i)
		}
		if seen[t.Year] {
			return nil, fmt.Errorf("tables[%d]: tax year %d appears more than once", i, t.Year)
		}
		seen[t.Year] = true
		set[t.Year] = t
	}

	if err := calculation.ValidateTableSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

// MarshalTables renders a table set in the override-file layout
func MarshalTables(set domain.TableSet) ([]byte, error) {
	tf := TablesFile{Tables: make([]*domain.TaxYearTables, 0, len(set))}
	for _, year := range set.Years() {
		tf.Tables = append(tf.Tables, set[year])
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tf); err != nil {
		return nil, fmt.Errorf("failed to encode tables: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
