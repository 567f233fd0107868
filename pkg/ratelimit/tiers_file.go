package ratelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a tier with a human-readable window ("15m", "24h").
func (t *Tier) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name        string `yaml:"name"`
		MaxRequests int    `yaml:"max_requests"`
		Window      string `yaml:"window"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Name != "" {
		t.Name = raw.Name
	}
	if raw.MaxRequests != 0 {
		t.MaxRequests = raw.MaxRequests
	}
	if raw.Window != "" {
		window, err := time.ParseDuration(raw.Window)
		if err != nil {
			return fmt.Errorf("tier %q: %w", t.Name, err)
		}
		t.Window = window
	}

	return nil
}

// LoadTiersFile reads a YAML tier table layered over the defaults. Absent
// fields keep their default values; invalid quotas are rejected.
func LoadTiersFile(path string) (Tiers, error) {
	tiers := DefaultTiers()

	data, err := os.ReadFile(path)
	if err != nil {
		return tiers, err
	}

	if err := yaml.Unmarshal(data, &tiers); err != nil {
		return tiers, err
	}

	for _, tier := range []Tier{tiers.API, tiers.Auth, tiers.Export, tiers.Webhook, tiers.ScanFree} {
		if tier.MaxRequests <= 0 {
			return tiers, fmt.Errorf("%w: tier %q", ErrInvalidLimit, tier.Name)
		}
		if tier.Window <= 0 {
			return tiers, fmt.Errorf("%w: tier %q", ErrInvalidWindow, tier.Name)
		}
	}

	return tiers, nil
}
