package http_client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Response is a successful (2xx) backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// HookErr holds the CallbackFault raised by the completion hook, if any.
	HookErr error
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}
	return nil
}

// Field looks up a gjson path in the body, e.g. "content.#.activity".
func (r *Response) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) IsJSON() bool {
	return len(r.Body) > 0 && gjson.ValidBytes(r.Body)
}
