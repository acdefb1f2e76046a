// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON-friendly field
// types (durations as "8h"-style strings).
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		EncryptionKey     string   `json:"encryption_key"`
		DevMode           bool     `json:"dev_mode"`
		AutoBootstrap     bool     `json:"auto_bootstrap"`
		BootstrapEmail    string   `json:"bootstrap_email"`
		BootstrapPassword string   `json:"bootstrap_password"`
	} `json:"app,omitempty"`

	Storage struct {
		RedisURL string `json:"redis_url"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Engine struct {
		BaseURL          string   `json:"base_url"`
		AttemptTimeout   Duration `json:"attempt_timeout"`
		MaxRetries       int      `json:"max_retries"`
		BackoffBase      Duration `json:"backoff_base"`
		BackoffMax       Duration `json:"backoff_max"`
		BreakerThreshold int      `json:"breaker_threshold"`
		BreakerCooldown  Duration `json:"breaker_cooldown"`
		MockMode         bool     `json:"mock_mode"`
	} `json:"engine,omitempty"`

	Pool struct {
		MaxConnections int      `json:"max_connections"`
		IdleTimeout    Duration `json:"idle_timeout"`
		ReapInterval   Duration `json:"reap_interval"`
	} `json:"pool,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:      jsonCfg.App.TokenSignKey,
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.App.TokenDuration),
			EncryptionKey:     jsonCfg.App.EncryptionKey,
			DevMode:           jsonCfg.App.DevMode,
			AutoBootstrap:     jsonCfg.App.AutoBootstrap,
			BootstrapEmail:    jsonCfg.App.BootstrapEmail,
			BootstrapPassword: jsonCfg.App.BootstrapPassword,
		},
		Storage: Storage{
			RedisURL: jsonCfg.Storage.RedisURL,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Engine: Engine{
			BaseURL:          jsonCfg.Engine.BaseURL,
			AttemptTimeout:   time.Duration(jsonCfg.Engine.AttemptTimeout),
			MaxRetries:       jsonCfg.Engine.MaxRetries,
			BackoffBase:      time.Duration(jsonCfg.Engine.BackoffBase),
			BackoffMax:       time.Duration(jsonCfg.Engine.BackoffMax),
			BreakerThreshold: jsonCfg.Engine.BreakerThreshold,
			BreakerCooldown:  time.Duration(jsonCfg.Engine.BreakerCooldown),
			MockMode:         jsonCfg.Engine.MockMode,
		},
		Pool: Pool{
			MaxConnections: jsonCfg.Pool.MaxConnections,
			IdleTimeout:    time.Duration(jsonCfg.Pool.IdleTimeout),
			ReapInterval:   time.Duration(jsonCfg.Pool.ReapInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
