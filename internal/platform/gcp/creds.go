package gcp

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"google.golang.org/api/option"
)

// clientOptions accepts inline service-account JSON, the same JSON base64
// encoded (as it usually arrives through env vars), or a file path. Empty
// means application default credentials.
func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	switch {
	case creds == "":
		return nil
	case json.Valid([]byte(creds)):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	if raw, err := base64.StdEncoding.DecodeString(creds); err == nil && json.Valid(raw) {
		return []option.ClientOption{option.WithCredentialsJSON(raw)}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
