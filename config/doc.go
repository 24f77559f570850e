// Package config loads service configuration files.
//
// LoadConfig finds a di or config file (yml, yaml, json or toml) and a .env
// file in the usual locations for a service, overlays environment variables
// and unmarshals the result with viper:
//
//	var cfg File
//	err := config.LoadConfig("billing-api", &cfg, config.WithEnvPrefix("BILLING"))
//
// Only keys present in the file can be overridden: with the prefix above,
// BILLING_DI_ASYNC_POLICY=detach replaces di.async_policy.
package config
