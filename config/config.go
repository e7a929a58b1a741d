package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// NetworkConfig holds the internode messaging configuration.
type NetworkConfig struct {
	// ListenAddress is the TCP address accepted connections arrive on.
	// Empty disables the listener (client-only process).
	ListenAddress string `mapstructure:"listen_address"`

	// SendQueueLimitNone, SendQueueLimitNormal and SendQueueLimitBulk cap
	// the per-connection outbound queue for each traffic class, in
	// messages. The same value bounds the unacknowledged in-flight window.
	SendQueueLimitNone   uint64 `mapstructure:"send_queue_limit_none"`
	SendQueueLimitNormal uint64 `mapstructure:"send_queue_limit_normal"`
	SendQueueLimitBulk   uint64 `mapstructure:"send_queue_limit_bulk"`

	// ReceiveQueueHintNone, ReceiveQueueHintNormal and ReceiveQueueHintBulk
	// are the intake buffer sizes advertised to peers, in messages.
	ReceiveQueueHintNone   uint64 `mapstructure:"receive_queue_hint_none"`
	ReceiveQueueHintNormal uint64 `mapstructure:"receive_queue_hint_normal"`
	ReceiveQueueHintBulk   uint64 `mapstructure:"receive_queue_hint_bulk"`

	// HeartbeatInterval is how often keepalives are sent on every connected
	// peer connection.
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`

	// ReconnectInitialDelay and ReconnectMaxDelay bound the exponential
	// backoff between reconnect attempts to a dead peer.
	ReconnectInitialDelay time.Duration `mapstructure:"reconnect_initial_delay"`
	ReconnectMaxDelay     time.Duration `mapstructure:"reconnect_max_delay"`
}

// DefaultNetworkConfig returns the default configuration.
func DefaultNetworkConfig() *NetworkConfig {
	return &NetworkConfig{
		ListenAddress:          "tcp://0.0.0.0:1239",
		SendQueueLimitNone:     64,
		SendQueueLimitNormal:   16,
		SendQueueLimitBulk:     4,
		ReceiveQueueHintNone:   64,
		ReceiveQueueHintNormal: 16,
		ReceiveQueueHintBulk:   4,
		HeartbeatInterval:      15 * time.Second,
		ReconnectInitialDelay:  500 * time.Millisecond,
		ReconnectMaxDelay:      30 * time.Second,
	}
}

// TestNetworkConfig returns a configuration for testing: default queues, fast
// timers, ephemeral port.
func TestNetworkConfig() *NetworkConfig {
	cfg := DefaultNetworkConfig()
	cfg.ListenAddress = "tcp://127.0.0.1:0"
	cfg.HeartbeatInterval = 50 * time.Millisecond
	cfg.ReconnectInitialDelay = 10 * time.Millisecond
	cfg.ReconnectMaxDelay = 100 * time.Millisecond
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *NetworkConfig) ValidateBasic() error {
	for name, v := range map[string]uint64{
		"send_queue_limit_none":     cfg.SendQueueLimitNone,
		"send_queue_limit_normal":   cfg.SendQueueLimitNormal,
		"send_queue_limit_bulk":     cfg.SendQueueLimitBulk,
		"receive_queue_hint_none":   cfg.ReceiveQueueHintNone,
		"receive_queue_hint_normal": cfg.ReceiveQueueHintNormal,
		"receive_queue_hint_bulk":   cfg.ReceiveQueueHintBulk,
	} {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1", name)
		}
	}
	if cfg.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat_interval must be positive")
	}
	if cfg.ReconnectInitialDelay <= 0 || cfg.ReconnectMaxDelay < cfg.ReconnectInitialDelay {
		return fmt.Errorf("reconnect delays must be positive and max >= initial")
	}
	return nil
}

// LoadNetworkConfig reads a TOML file into a NetworkConfig on top of the
// defaults. An empty path returns the defaults unchanged.
func LoadNetworkConfig(path string) (*NetworkConfig, error) {
	cfg := DefaultNetworkConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	return cfg, nil
}
