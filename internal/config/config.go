// Package config loads cmd/solstarterd's configuration from a YAML file
// (whose path cmd/solstarterd takes from CONFIG_FILE) with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"
)

// LogConfig controls internal/logging's setup.
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// ServerConfig is cmd/solstarterd's full configuration.
type ServerConfig struct {
	ListenAddr   string             `yaml:"listen_addr"`
	RPCURL       string             `yaml:"rpc_url"`
	Commitment   rpc.CommitmentType `yaml:"commitment"`
	ProgramID    solana.PublicKey   `yaml:"program_id"`
	LedgerDSN    string             `yaml:"ledger_dsn"`
	PollInterval time.Duration      `yaml:"poll_interval"`
	Log          LogConfig          `yaml:"log"`
}

type yamlServerConfig struct {
	ListenAddr   string    `yaml:"listen_addr"`
	RPCURL       string    `yaml:"rpc_url"`
	Commitment   string    `yaml:"commitment"`
	ProgramID    string    `yaml:"program_id"`
	LedgerDSN    string    `yaml:"ledger_dsn"`
	PollInterval string    `yaml:"poll_interval"`
	Log          LogConfig `yaml:"log"`
}

// Load reads the YAML file at path (if it exists; a missing file is not an
// error) and layers environment-variable overrides on top, following the
// SOLSTARTER_* naming convention.
func Load(path string) (ServerConfig, error) {
	var y yamlServerConfig
	if path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return ServerConfig{}, fmt.Errorf("read config file %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(body, &y); err != nil {
			return ServerConfig{}, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	listenAddr := envOrDefault("SOLSTARTER_LISTEN_ADDR", envOrDefault("", y.ListenAddr))
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	rpcURL := envOrDefault("SOLSTARTER_RPC_URL", y.RPCURL)
	if rpcURL == "" {
		rpcURL = "http://127.0.0.1:8899"
	}

	commitment, err := envCommitment("SOLSTARTER_COMMITMENT", y.Commitment, rpc.CommitmentConfirmed)
	if err != nil {
		return ServerConfig{}, err
	}

	programIDRaw := envOrDefault("SOLSTARTER_PROGRAM_ID", y.ProgramID)
	var programID solana.PublicKey
	if programIDRaw != "" {
		programID, err = solana.PublicKeyFromBase58(programIDRaw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("invalid SOLSTARTER_PROGRAM_ID: %w", err)
		}
	}

	ledgerDSN := envOrDefault("SOLSTARTER_LEDGER_DSN", y.LedgerDSN)
	if ledgerDSN == "" {
		ledgerDSN = "solstarter.db"
	}

	pollInterval, err := envDuration("SOLSTARTER_POLL_INTERVAL", y.PollInterval, 2*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	logCfg := LogConfig{
		Level:    envOrDefault("SOLSTARTER_LOG_LEVEL", y.Log.Level),
		Format:   envOrDefault("SOLSTARTER_LOG_FORMAT", y.Log.Format),
		Output:   envOrDefault("SOLSTARTER_LOG_OUTPUT", y.Log.Output),
		FilePath: envOrDefault("SOLSTARTER_LOG_FILE", y.Log.FilePath),
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if logCfg.Format == "" {
		logCfg.Format = "text"
	}
	if logCfg.Output == "" {
		logCfg.Output = "console"
	}

	return ServerConfig{
		ListenAddr:   listenAddr,
		RPCURL:       rpcURL,
		Commitment:   commitment,
		ProgramID:    programID,
		LedgerDSN:    ledgerDSN,
		PollInterval: pollInterval,
		Log:          logCfg,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if key == "" {
		return fallback
	}
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envCommitment(key, yamlValue string, fallback rpc.CommitmentType) (rpc.CommitmentType, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = strings.TrimSpace(yamlValue)
	}
	if raw == "" {
		return fallback, nil
	}
	switch strings.ToLower(raw) {
	case string(rpc.CommitmentProcessed):
		return rpc.CommitmentProcessed, nil
	case string(rpc.CommitmentConfirmed):
		return rpc.CommitmentConfirmed, nil
	case string(rpc.CommitmentFinalized):
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("invalid %s: %q (expected processed|confirmed|finalized)", key, raw)
	}
}

func envDuration(key, yamlValue string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = strings.TrimSpace(yamlValue)
	}
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
