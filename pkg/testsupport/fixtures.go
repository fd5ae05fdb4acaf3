// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
)

// LoadFixture reads a testdata file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes the JSON golden file at path into v. Unknown fields
// fail so goldens cannot drift from the types they describe.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
