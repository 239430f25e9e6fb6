package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReadPayloadFile reads a JSON or YAML object from path.
func ReadPayloadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ReadPayload(data)
}

// ReadPayload decodes a JSON or YAML object. YAML is converted to JSON first
// so both end up with the same value types.
func ReadPayload(data []byte) (map[string]any, error) {

	// Skip leading whitespace to find the first meaningful character
	data = bytes.TrimLeftFunc(data, unicode.IsSpace)

	if len(data) == 0 {
		return nil, fmt.Errorf("no data provided")

	} else if data[0] == '{' {
		logrus.Debugln("Payload format detected: JSON")
	} else {
		var yamlData any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			logrus.WithError(err).Debugln("Failed to unmarshal YAML")
			return nil, fmt.Errorf("payload is neither JSON nor YAML: %w", err)
		}

		jsonData, err := json.Marshal(yamlData)
		if err != nil {
			logrus.WithError(err).Debugln("Failed to convert YAML to JSON")
			return nil, err
		}
		data = jsonData
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("payload must be an object: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("payload must be an object")
	}

	return payload, nil
}
