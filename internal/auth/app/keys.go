package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/studyden/studyden/pkg/jwtx"
)

// InitSigningKeys loads the two Ed25519 signing keys from the configured
// PEM files, generating ephemeral ones when no file is set. Ephemeral keys
// invalidate every outstanding credential on restart, which is exactly what
// dev and tests want and exactly what prod does not.
func InitSigningKeys(cfg Config, logger *slog.Logger) (access, refresh jwtx.KeyPair, err error) {
	access, err = loadOrGenerate(cfg.AccessKeyFile, "access-1", logger)
	if err != nil {
		return jwtx.KeyPair{}, jwtx.KeyPair{}, fmt.Errorf("access signing key: %w", err)
	}

	refresh, err = loadOrGenerate(cfg.RefreshKeyFile, "refresh-1", logger)
	if err != nil {
		return jwtx.KeyPair{}, jwtx.KeyPair{}, fmt.Errorf("refresh signing key: %w", err)
	}

	return access, refresh, nil
}

func loadOrGenerate(path, kid string, logger *slog.Logger) (jwtx.KeyPair, error) {
	if path == "" {
		logger.Warn("no signing key file configured, generating ephemeral key", "kid", kid)
		return jwtx.GenerateKeyPair(kid)
	}

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return jwtx.KeyPair{}, fmt.Errorf("read %s: %w", path, err)
	}

	pair, err := jwtx.LoadKeyPairPEM(kid, pemBytes)
	if err != nil {
		return jwtx.KeyPair{}, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Info("signing key loaded", "kid", kid, "path", path)
	return pair, nil
}
