package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atmohq/atmo-backend/internal/platform/gcp"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

var newOutputStore = gcp.NewOutputStore

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidConfig StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "output storage bootstrap failed"
	}
	return fmt.Sprintf("output storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code, e.Mode, e.EmulatorHost, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveOutputStore returns (nil, nil) when no bucket is configured; PDFs
// then live only in the database.
func resolveOutputStore(ctx context.Context, log *logger.Logger, cfg StorageConfig) (gcp.OutputStore, error) {
	storeCfg := gcp.OutputStoreConfig{
		Bucket:          strings.TrimSpace(cfg.Bucket),
		Mode:            cfg.Mode,
		EmulatorHost:    strings.TrimSpace(cfg.EmulatorHost),
		PublicBaseURL:   cfg.PublicBaseURL,
		CredentialsJSON: cfg.CredentialsJSON,
		Prefix:          cfg.Prefix,
	}
	if storeCfg.Bucket == "" {
		log.Info("Output storage disabled (no bucket configured)")
		return nil, nil
	}
	if _, err := storeCfg.ResolveMode(); err != nil {
		berr := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorInvalidConfig,
			Mode:         storeCfg.Mode,
			EmulatorHost: storeCfg.EmulatorHost,
			Cause:        err,
		}
		log.Error("Output storage provider selection failed", "mode", storeCfg.Mode, "error_code", berr.Code, "error", err)
		return nil, berr
	}
	store, err := newOutputStore(ctx, log, storeCfg)
	if err != nil {
		berr := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorConnectFailed,
			Mode:         storeCfg.Mode,
			EmulatorHost: storeCfg.EmulatorHost,
			Cause:        err,
		}
		log.Error("Output storage provider bootstrap failed", "mode", storeCfg.Mode, "error_code", berr.Code, "error", err)
		return nil, berr
	}
	return store, nil
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var berr *StorageProviderBootstrapError
	if errors.As(err, &berr) && berr.Code != "" {
		return berr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
