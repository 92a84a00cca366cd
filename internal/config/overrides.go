package config

import (
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// LoadWithOverrides loads configuration with CLI overrides applied last.
// When configPath is empty the closest config file to targetPath is used.
//
// Overrides are expected to use the same (nested) shape as the TOML config file,
// for example:
//
//	overrides := map[string]any{
//	  "solution-file": "src/App.sln",
//	  "build": map[string]any{"configuration": "Release"},
//	}
//
// Precedence: defaults → config file → env → overrides.
func LoadWithOverrides(targetPath, configPath string, overrides map[string]any) (*Config, error) {
	if configPath == "" {
		configPath = Discover(targetPath)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	if err := loadConfigFile(k, configPath); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	if err := loadOverrides(k, overrides); err != nil {
		return nil, err
	}

	cfg, err := decodeConfig(k)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	return k.Load(file.Provider(configPath), toml.Parser())
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, "."), nil)
}
