// config_keys.go provides key-value access to configuration settings for
// the config command and MCP, where keys are dotted strings such as
// "browser.cdp_url".
//
// Pointer fields distinguish "not set" from an explicit zero or false, so
// defaults apply only when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"browser.backend", "browser.cdp_url", "browser.headless", "browser.timeout_seconds",
		"ui.addr",
		"prompt.message",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "browser.backend":
		return c.Backend(), nil
	case "browser.cdp_url":
		return c.CDPURL(), nil
	case "browser.headless":
		return strconv.FormatBool(c.Headless()), nil
	case "browser.timeout_seconds":
		return strconv.Itoa(int(c.Timeout().Seconds())), nil
	case "ui.addr":
		return c.UIAddr(), nil
	case "prompt.message":
		return c.PromptMessage(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "browser.backend":
		v := strings.ToLower(value)
		if v != "chromedp" && v != "rod" {
			return fmt.Errorf("%w: browser.backend must be chromedp or rod", ErrInvalidValue)
		}
		c.Browser.Backend = v
	case "browser.cdp_url":
		c.Browser.CDPURL = value
	case "browser.headless":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: browser.headless must be true or false", ErrInvalidValue)
		}
		b := v == "true"
		c.Browser.Headless = &b
	case "browser.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinTimeoutSeconds || n > MaxTimeoutSeconds {
			return fmt.Errorf("%w: browser.timeout_seconds must be between %d and %d",
				ErrInvalidValue, MinTimeoutSeconds, MaxTimeoutSeconds)
		}
		c.Browser.TimeoutSeconds = &n
	case "ui.addr":
		c.UI.Addr = value
	case "prompt.message":
		c.Prompt.Message = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		out[k], _ = c.Get(k)
	}
	return out
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "browser.backend":
		return c.Browser.Backend != ""
	case "browser.cdp_url":
		return c.Browser.CDPURL != ""
	case "browser.headless":
		return c.Browser.Headless != nil
	case "browser.timeout_seconds":
		return c.Browser.TimeoutSeconds != nil
	case "ui.addr":
		return c.UI.Addr != ""
	case "prompt.message":
		return c.Prompt.Message != ""
	default:
		return false
	}
}
