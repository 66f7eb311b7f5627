package mkvmerge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"mkvlang/internal/services"
)

// ExtractJSON locates the JSON object embedded in raw tool output (the text
// from the first '{' through the last '}') and decodes it. Numbers decode as
// json.Number so integer ids survive untouched.
func ExtractJSON(output string) (map[string]any, error) {
	blob, err := locateObject(output)
	if err != nil {
		return nil, err
	}
	return decodeObject(blob)
}

func locateObject(output string) (string, error) {
	start := strings.Index(output, "{")
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object in tool output", services.ErrExtraction)
	}
	end := strings.LastIndex(output, "}")
	if end < start {
		return "", fmt.Errorf("%w: unterminated JSON object in tool output", services.ErrExtraction)
	}
	return output[start : end+1], nil
}

func decodeObject(blob string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(blob)))
	decoder.UseNumber()
	var doc map[string]any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", services.ErrExtraction, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", services.ErrExtraction)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty JSON object", services.ErrExtraction)
	}
	return doc, nil
}
