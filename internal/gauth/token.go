// Package gauth loads the bearer token shared by the spreadsheet and
// storage clients. Token acquisition happens outside this tool; a separate
// authorization flow writes the token file this package reads.
package gauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type tokenFile struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

// LoadToken reads a bearer token from path. JSON token files expose the
// token under "access_token" or "token"; anything else is treated as the
// raw token string.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", errors.New("token file is empty")
	}

	if strings.HasPrefix(trimmed, "{") {
		var parsed tokenFile
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return "", fmt.Errorf("parse token file: %w", err)
		}
		if parsed.AccessToken != "" {
			return parsed.AccessToken, nil
		}
		if parsed.Token != "" {
			return parsed.Token, nil
		}
		return "", errors.New("token file has no access_token or token field")
	}

	return trimmed, nil
}
