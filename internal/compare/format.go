package compare

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Formatter renders a ComparisonSet
type Formatter interface {
	Format(compSet *ComparisonSet) (string, error)
}

// NewFormatter returns the formatter for name: table, json or csv
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return tableAdapter{&TableFormatter{}}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "csv":
		return &CSVFormatter{}, nil
	}
	return nil, fmt.Errorf("unsupported comparison format: %s (use table, json or csv)", name)
}

// tableAdapter gives TableFormatter the error-returning signature
type tableAdapter struct{ tf *TableFormatter }

func (a tableAdapter) Format(compSet *ComparisonSet) (string, error) {
	return a.tf.Format(compSet), nil
}

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	marshal := json.Marshal
	if jf.Pretty {
		marshal = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	data, err := marshal(compSet)
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
