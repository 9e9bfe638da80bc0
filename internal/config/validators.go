package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Validator normalizes a configuration value. An error makes the loader
// warn and fall back to the default.
type Validator func(value string) (string, error)

var validators = map[string]Validator{}

// RegisterValidator registers a validator for a configuration key.
// Registering a key twice panics.
func RegisterValidator(key string, v Validator) {
	if _, exists := validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	validators[key] = v
}

func getValidator(key string) Validator {
	return validators[key]
}

// PositiveInt accepts integers greater than zero.
func PositiveInt(value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("%q is not a positive integer", value)
	}
	return strconv.Itoa(n), nil
}

// OneOf accepts the given values, case-insensitively.
func OneOf(allowed ...string) Validator {
	return func(value string) (string, error) {
		v := strings.ToLower(strings.TrimSpace(value))
		if !slices.Contains(allowed, v) {
			return "", fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", "))
		}
		return v, nil
	}
}

// Bool accepts 1/0, true/false, yes/no and on/off.
func Bool(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return "true", nil
	case "0", "false", "no", "off":
		return "false", nil
	}
	return "", fmt.Errorf("%q is not a boolean", value)
}

// Duration accepts positive Go durations such as 30s or 2m.
func Duration(value string) (string, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return "", fmt.Errorf("%q is not a positive duration (e.g. 30s)", value)
	}
	return d.String(), nil
}

// HTTPURL accepts absolute http(s) URLs and drops the trailing slash.
func HTTPURL(value string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q is not an http(s) URL", value)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ListenAddr accepts host:port pairs; the host may be empty.
func ListenAddr(value string) (string, error) {
	_, port, err := net.SplitHostPort(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%q is not a listen address: %w", value, err)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("%q has an invalid port", value)
	}
	return strings.TrimSpace(value), nil
}

func initValidators() {
	for _, key := range []string{"page_size", "fanout_limit", "logging_max_files", "admin_id"} {
		RegisterValidator(key, PositiveInt)
	}
	for _, key := range []string{"stale_guard", "logging_enabled", "debug"} {
		RegisterValidator(key, Bool)
	}
	RegisterValidator("request_timeout", Duration)
	RegisterValidator("api_base_url", HTTPURL)
	RegisterValidator("stub_addr", ListenAddr)
	RegisterValidator("admin_role", OneOf("admin", "manager", "commercial", "pharmacist", "cashier", "security"))
	RegisterValidator("logging_level", OneOf("debug", "info", "warn", "error"))
}
