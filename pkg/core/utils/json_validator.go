package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON errors in hand-written payloads.
// Uses github.com/RealAlexandreAI/json-repair for repair.
// Supported repairs:
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - Trailing commas
// - Leading/trailing whitespace and markdown code blocks
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Hjson supports comments, unquoted keys and optional commas, which makes it
// convenient for defaults files and CLI payloads.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	err := hjson.Unmarshal([]byte(hjsonData), &result)
	if err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}

	return string(jsonBytes), nil
}

// NormalizeJSON returns a standard JSON object for input.
// Order of attempts:
// 1. Standard JSON
// 2. Hjson
// 3. JSON repair
func NormalizeJSON(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("SMART_PARSE_FAILED: empty input")
	}

	if isObject(trimmed) {
		return trimmed, nil
	}

	if converted, err := ParseHJSON(trimmed); err == nil && isObject(converted) {
		return converted, nil
	}

	if repaired, err := RepairJSON(trimmed); err == nil && isObject(repaired) {
		return repaired, nil
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}

// SmartParse normalizes input and decodes it into schema.
// Fields absent from the input keep the values already in schema.
func SmartParse(input string, schema interface{}) (string, error) {
	normalized, err := NormalizeJSON(input)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal([]byte(normalized), schema); err != nil {
		return "", fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return normalized, nil
}

func isObject(s string) bool {
	var probe map[string]interface{}
	return json.Unmarshal([]byte(s), &probe) == nil && probe != nil
}
