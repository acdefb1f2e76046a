// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-engine-url downstream query engine base URL
//	-redis-url durable store connection URL
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-encryption-key base64 credential encryption key
//	-token-duration session token TTL (e.g., "8h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-dev development mode (insecure fallbacks allowed)
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var engineBaseURL string
	var redisURL string
	var jsonConfigPath string
	var tokenSignKey string
	var encryptionKey string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var devMode bool

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&engineBaseURL, "engine-url", "", "Downstream query engine base URL")
	flag.StringVar(&redisURL, "redis-url", "", "Durable store connection URL")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&encryptionKey, "encryption-key", "", "Base64 credential encryption key")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Session token TTL (e.g., 8h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.BoolVar(&devMode, "dev", false, "Development mode")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			EncryptionKey: encryptionKey,
			TokenDuration: tokenDuration,
			DevMode:       devMode,
		},
		Storage: Storage{
			RedisURL: redisURL,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Engine: Engine{
			BaseURL: engineBaseURL,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so that the
// merge step falls through to lower-priority sources.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
