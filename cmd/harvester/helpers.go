package main

import (
	"fmt"
	"strings"

	"harvester/internal/bing"
)

// parseExtraParams turns repeated key=value flag values into ordered query
// parameters. Order is preserved so later values win when keys repeat.
func parseExtraParams(values []string) ([]bing.Param, error) {
	if len(values) == 0 {
		return nil, nil
	}
	params := make([]bing.Param, 0, len(values))
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", value)
		}
		params = append(params, bing.Param{Key: key, Value: val})
	}
	return params, nil
}
