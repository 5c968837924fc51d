// Package config loads machine definitions from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a machine definition.
// Every field is optional; missing fields fall back to the default machine.
type File struct {
	States []int `mapstructure:"states"`
	Coins  []int `mapstructure:"coins"`
	Price  int   `mapstructure:"price"`
	// Step generates the ladder 0, step, 2*step, ... price when States is empty.
	Step int `mapstructure:"step"`
}

// Load reads a machine definition. An empty path yields the default machine.
// The result is always validated.
func Load(path string) (domain.MachineConfig, error) {
	if path == "" {
		return domain.DefaultMachineConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MachineConfig{}, fmt.Errorf("failed to read machine config: %w", err)
	}

	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a machine definition in the given format ("yaml" or "json").
func Parse(data []byte, format string) (domain.MachineConfig, error) {
	raw := map[string]any{}
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.MachineConfig{}, fmt.Errorf("failed to parse machine config as json: %w", err)
		}
	default:
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.MachineConfig{}, fmt.Errorf("failed to parse machine config as yaml: %w", err)
		}
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.MachineConfig{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.MachineConfig{}, fmt.Errorf("failed to decode machine config: %w", err)
	}

	cfg := f.Resolve()
	if err := schema.ValidateMachine(cfg); err != nil {
		return domain.MachineConfig{}, err
	}
	return cfg, nil
}

// Resolve fills the missing fields of f.
//
// Price and coins default to the standard machine. Without explicit states the
// ladder steps by Step, or by the greatest common divisor of the coins and
// the price.
func (f File) Resolve() domain.MachineConfig {
	def := domain.DefaultMachineConfig()

	cfg := domain.MachineConfig{
		States: f.States,
		Coins:  f.Coins,
		Price:  f.Price,
	}
	if cfg.Price == 0 {
		cfg.Price = def.Price
	}
	if len(cfg.Coins) == 0 {
		cfg.Coins = def.Coins
	}
	if len(cfg.States) == 0 {
		step := f.Step
		if step <= 0 {
			step = cfg.Price
			for _, c := range cfg.Coins {
				step = gcd(step, c)
			}
		}
		cfg.States = Ladder(cfg.Price, step)
	}
	return cfg
}

// Ladder returns 0, step, 2*step, ... capped by price, always ending at price.
func Ladder(price, step int) []int {
	if price <= 0 || step <= 0 {
		return []int{0}
	}
	levels := make([]int, 0, price/step+2)
	for v := 0; v < price; v += step {
		levels = append(levels, v)
	}
	return append(levels, price)
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
