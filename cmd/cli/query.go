package cli

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/walloffame/wof/internal/models"
)

// queryWins runs a jq expression over the list of wins and returns every
// value it produces.
func queryWins(expression string, wins []models.WinRecord) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq expression: %s, error: %w", expression, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %s, error: %w", expression, err)
	}

	if wins == nil {
		wins = []models.WinRecord{}
	}

	// gojq only understands the plain types encoding/json produces
	encoded, err := json.Marshal(wins)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(encoded, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if errVal, isErr := result.(error); isErr {
			return nil, fmt.Errorf("jq evaluation error: %w", errVal)
		}
		results = append(results, result)
	}

	return results, nil
}
