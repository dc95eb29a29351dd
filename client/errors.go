package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brunoga/update"
)

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Missing    []update.ResourceKey
	Duplicated []update.ResourceKey
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d: %s", e.StatusCode, e.Message)
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var surrogate struct {
		Error struct {
			Code       int               `json:"code"`
			Message    string            `json:"message"`
			Missing    []json.RawMessage `json:"missing"`
			Duplicated []json.RawMessage `json:"duplicated"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &surrogate); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}
	apiErr.Message = surrogate.Error.Message
	apiErr.Missing = decodeKeys(surrogate.Error.Missing)
	apiErr.Duplicated = decodeKeys(surrogate.Error.Duplicated)
	return apiErr
}

// decodeKeys keeps the entries that are valid resource keys.
func decodeKeys(raw []json.RawMessage) []update.ResourceKey {
	var keys []update.ResourceKey
	for _, r := range raw {
		var k update.ResourceKey
		if err := json.Unmarshal(r, &k); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}
