package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type OutputStoreConfig struct {
	Bucket        string
	Mode          string
	EmulatorHost  string
	PublicBaseURL string
	// CredentialsJSON may hold inline JSON or a path to a credentials file.
	CredentialsJSON string
	Prefix          string
}

// ResolveMode picks the storage mode. An empty mode with an emulator host set
// falls back to the emulator.
func (cfg OutputStoreConfig) ResolveMode() (ObjectStorageMode, error) {
	host := strings.TrimSpace(cfg.EmulatorHost)
	raw := strings.ToLower(strings.TrimSpace(cfg.Mode))
	var mode ObjectStorageMode
	switch ObjectStorageMode(raw) {
	case "":
		mode = ObjectStorageModeGCS
		if host != "" {
			mode = ObjectStorageModeGCSEmulator
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		mode = ObjectStorageMode(raw)
	default:
		return "", fmt.Errorf("invalid storage mode %q (allowed: %q, %q)", cfg.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
	if mode != ObjectStorageModeGCSEmulator {
		return mode, nil
	}
	if host == "" {
		return "", fmt.Errorf("storage mode %q requires an emulator host", mode)
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid emulator host %q; expected absolute URL like http://fake-gcs:4443", host)
	}
	return mode, nil
}
