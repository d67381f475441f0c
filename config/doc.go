// Package config loads juiceplant configuration.
//
// Values are layered: struct defaults, then a YAML file, then a .env file,
// then process environment. Environment keys carry the JUICEPLANT_ prefix
// and use underscores for nesting, so farm.plants is JUICEPLANT_FARM_PLANTS.
//
//	var cfg MyConfig
//	err := config.Load("juiceplant", &cfg, config.WithConfigFile("config.yml"))
package config
