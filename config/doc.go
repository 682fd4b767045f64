// Package config provides configuration loading for reqkit programs.
//
// It uses Viper to read a YAML file and godotenv to load a .env file, then
// overlays environment variables carrying the REQKIT_ prefix. Nested keys
// are addressed with underscores: REQKIT_LOGGER_LEVEL sets logger.level and
// REQKIT_CLIENT_TRANSPORT sets client.transport.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("reqkit", &cfg, config.WithConfigFile("reqkit.yml"))
package config
