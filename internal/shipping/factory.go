package shipping

import (
	"fmt"
	"strings"
)

// ForProvider returns the Provider implementation for a stored provider
// name. apiKey must already be decrypted; the stub ignores it.
func ForProvider(name, apiKey string) (Provider, error) {
	switch name {
	case "shippo":
		if apiKey == "" {
			return nil, fmt.Errorf("shippo requires an api key")
		}
		return NewShippo(apiKey), nil
	case "easypost":
		if apiKey == "" {
			return nil, fmt.Errorf("easypost requires an api key")
		}
		return NewEasyPost(apiKey), nil
	case "stub", "":
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown shipping provider %q", name)
	}
}

// ValidateKeyFormat runs a lightweight sanity check on an API key before it
// is sealed and stored. It is not authoritative, it only catches obvious
// paste mistakes.
func ValidateKeyFormat(provider, key string) error {
	switch provider {
	case "shippo":
		if !strings.HasPrefix(key, "shippo_test_") && !strings.HasPrefix(key, "shippo_live_") {
			return fmt.Errorf("shippo keys start with shippo_test_ or shippo_live_")
		}
		if len(key) <= 20 {
			return fmt.Errorf("shippo key looks truncated")
		}
	case "easypost":
		hasPrefix := strings.HasPrefix(key, "EZTK") || strings.HasPrefix(key, "EZAK")
		if !hasPrefix && len(key) < 20 {
			return fmt.Errorf("easypost key looks truncated")
		}
	case "stub":
		// Nothing to validate.
	default:
		return fmt.Errorf("unknown shipping provider %q", provider)
	}
	return nil
}
