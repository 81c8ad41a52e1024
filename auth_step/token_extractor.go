package auth_step

import (
	"fmt"
	"strings"

	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/http_client"
)

// TokenExtractor pulls the bearer token out of an authentication response.
type TokenExtractor interface {
	Extract(resp *http_client.Response) (string, error)
}

// HeaderTokenExtractor reads the token from a response header, dropping a
// leading "Bearer " scheme.
type HeaderTokenExtractor struct {
	Header string
}

func (e HeaderTokenExtractor) Extract(resp *http_client.Response) (string, error) {
	name := e.Header
	if name == "" {
		name = "Authorization"
	}
	value := resp.Header.Get(name)
	if value == "" {
		return "", fmt.Errorf("%s header not found in response", name)
	}
	token := strings.TrimSpace(strings.TrimPrefix(value, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%s header holds no token", name)
	}
	return token, nil
}

// BodyTokenExtractor reads the token from the JSON body at a gjson path.
type BodyTokenExtractor struct {
	Path string
}

func (e BodyTokenExtractor) Extract(resp *http_client.Response) (string, error) {
	path := e.Path
	if path == "" {
		path = "token"
	}
	field := resp.Field(path)
	if !field.Exists() || field.String() == "" {
		return "", fmt.Errorf("token not found in response body at %q", path)
	}
	return strings.TrimPrefix(field.String(), "Bearer "), nil
}

// NewTokenExtractor picks the extractor for AUTH_TOKEN_SOURCE.
func NewTokenExtractor(source, field string) (TokenExtractor, error) {
	switch source {
	case "", config.TokenSourceHeader:
		return HeaderTokenExtractor{Header: field}, nil
	case config.TokenSourceBody:
		return BodyTokenExtractor{Path: field}, nil
	default:
		return nil, fmt.Errorf("unknown token source: %s", source)
	}
}
