package config

import (
	"encoding/json"
	"os"

	"github.com/jayden-sudo/ZK-Battleship/core"
)

// GenesisConfig describes the engine's initial state.
type GenesisConfig struct {
	ChainID string            `json:"chain_id"`
	Alloc   map[string]uint64 `json:"alloc"` // account pubkey hex → initial balance
}

// Config holds all node configuration.
type Config struct {
	NodeID                 string        `json:"node_id"`
	DataDir                string        `json:"data_dir"`
	RPCPort                int           `json:"rpc_port"`
	AuthToken              string        `json:"auth_token"` // empty → open RPC
	RevealTimeoutSecs      int64         `json:"reveal_timeout_secs"`
	RoundTimeoutSecs       int64         `json:"round_timeout_secs"`
	AcceptUnverifiedProofs bool          `json:"accept_unverified_proofs"` // dev only: stub-accept all proofs
	Genesis                GenesisConfig `json:"genesis"`
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	timeouts := core.DefaultTimeouts()
	return &Config{
		NodeID:            "node0",
		DataDir:           "./data",
		RPCPort:           8545,
		RevealTimeoutSecs: timeouts.RevealTimeout,
		RoundTimeoutSecs:  timeouts.RoundTimeout,
		Genesis: GenesisConfig{
			ChainID: "zkbattleship-dev",
			Alloc:   map[string]uint64{},
		},
	}
}

// Timeouts converts the configured windows into a TimeoutPolicy, falling
// back to defaults for unset fields.
func (c *Config) Timeouts() core.TimeoutPolicy {
	p := core.DefaultTimeouts()
	if c.RevealTimeoutSecs > 0 {
		p.RevealTimeout = c.RevealTimeoutSecs
	}
	if c.RoundTimeoutSecs > 0 {
		p.RoundTimeout = c.RoundTimeoutSecs
	}
	return p
}

// Load reads a JSON config file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
