package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvRPCURL          = "ETH_RPC_URL"
	EnvContractAddress = "VAULT_CONTRACT_ADDRESS"
	EnvKeystoreDir     = "VAULT_KEYSTORE_DIR"
)

// Config represents the application configuration
type Config struct {
	RPCURLs               []RPCUrl `json:"rpc_urls"`
	Contract              Contract `json:"contract"`
	KeystoreDir           string   `json:"keystore_dir"`
	ConfirmTimeoutSeconds int      `json:"confirm_timeout_seconds"`
	ExplorerURL           string   `json:"explorer_url,omitempty"`
	Logger                bool     `json:"logger"`
	MetricsAddr           string   `json:"metrics_addr,omitempty"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Contract describes the deployed vault contract
type Contract struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	// Payable sends the deposit amount as msg.value as well as the argument.
	Payable bool `json:"payable,omitempty"`
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is the config file location in the user's home directory.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".vault-wallet-config.json")
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Local Node",
				URL:    "http://127.0.0.1:8545",
				Active: true,
			},
		},
		KeystoreDir:           filepath.Join(homeDir, ".ethereum", "keystore"),
		ConfirmTimeoutSeconds: 120,
		Logger:                true,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	// Try to read existing config
	data, err := os.ReadFile(path)
	if err != nil {
		// File doesn't exist, create default
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	// Parse existing config
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg
}

// LoadEnv reads an optional .env file and applies environment overrides.
func LoadEnv(cfg Config, envFiles ...string) Config {
	// a missing .env is fine
	_ = godotenv.Load(envFiles...)

	if url := strings.TrimSpace(os.Getenv(EnvRPCURL)); url != "" {
		found := false
		for i := range cfg.RPCURLs {
			cfg.RPCURLs[i].Active = cfg.RPCURLs[i].URL == url
			found = found || cfg.RPCURLs[i].Active
		}
		if !found {
			cfg.RPCURLs = append(cfg.RPCURLs, RPCUrl{Name: "Environment", URL: url, Active: true})
		}
	}
	if addr := strings.TrimSpace(os.Getenv(EnvContractAddress)); addr != "" {
		cfg.Contract.Address = addr
	}
	if dir := strings.TrimSpace(os.Getenv(EnvKeystoreDir)); dir != "" {
		cfg.KeystoreDir = dir
	}
	return cfg
}

// ActiveRPC returns the active RPC endpoint, or the first one.
func (c Config) ActiveRPC() (RPCUrl, bool) {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r, true
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0], true
	}
	return RPCUrl{}, false
}

// ContractAddress parses the configured contract address.
func (c Config) ContractAddress() (common.Address, error) {
	addr := strings.TrimSpace(c.Contract.Address)
	if addr == "" {
		return common.Address{}, fmt.Errorf("contract address is not set (config %q or $%s)", "contract.address", EnvContractAddress)
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("invalid contract address %q", addr)
	}
	return common.HexToAddress(addr), nil
}

// ConfirmTimeout returns the receipt wait bound, zero meaning the default.
func (c Config) ConfirmTimeout() time.Duration {
	if c.ConfirmTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}

// Validate checks the settings needed to start.
func (c Config) Validate() error {
	if _, err := c.ContractAddress(); err != nil {
		return err
	}
	if _, ok := c.ActiveRPC(); !ok {
		return fmt.Errorf("no RPC endpoint configured (config %q or $%s)", "rpc_urls", EnvRPCURL)
	}
	return nil
}
