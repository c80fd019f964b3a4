package output

import (
	"encoding/json"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// JSONFormatter formats results as JSON; decimals are quoted strings
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf *JSONFormatter) Name() string { return "json" }

func (jf *JSONFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	return marshal(result, jf.Pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
