package config

import (
	"loanbook/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(cfgFile string, cfg *core.Config) error {
	configUtil.AutomaticLoadEnv("LOANBOOK")
	if err := configUtil.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	return nil
}
