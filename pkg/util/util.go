package util

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExactlyOneOf looks for exactly one true input.
func ExactlyOneOf(inputs ...bool) bool {
	foundAtLeastOne := false
	for _, input := range inputs {
		if input {
			if foundAtLeastOne {
				return false
			}
			foundAtLeastOne = true
		}
	}
	return foundAtLeastOne
}

// RemoveSecret sanitizes output so it can be logged without leaking the API key
func RemoveSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "<API_KEY>")
}

// MaskSecret returns a string of the same length as the secret made only of asterisks.
func MaskSecret(secret string) string {
	return strings.Repeat("*", len(secret))
}

// PrettyPrint marshals i as indented JSON. Map keys come out sorted, HTML
// characters are left alone.
func PrettyPrint(i interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(i); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
