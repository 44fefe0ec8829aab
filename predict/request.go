package predict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema accepts any JSON number for day, integer or not. Other fields are ignored.
const requestSchema = `{
	"type": "object",
	"required": ["day"],
	"properties": {
		"day": {"type": "number"}
	}
}`

// Request is the body of POST /predict.
type Request struct {
	Day *float64 `json:"day"`
}

func compileRequestSchema() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
}

// parseDay validates body against schema and returns the day feature.
func parseDay(schema *gojsonschema.Schema, body []byte) (float64, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return 0, invalidInput("request body is empty", nil)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return 0, invalidInput(fmt.Sprintf("malformed JSON body: %v", err), err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return 0, invalidInput(strings.Join(errs, "; "), nil)
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, invalidInput(fmt.Sprintf("invalid day: %v", err), err)
	}
	if req.Day == nil {
		return 0, invalidInput("day is required", nil)
	}
	return *req.Day, nil
}
