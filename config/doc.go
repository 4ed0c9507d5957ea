// Package config provides configuration loading and validation for kvdrop.
//
// The package handles YAML configuration files, .env files, environment
// variables, and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (KVDROP_ prefix), including those loaded by LoadDotEnv
//  4. CLI flags
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with KVDROP_ prefix:
//   - server.port → KVDROP_SERVER_PORT
//   - auth.token → KVDROP_AUTH_TOKEN
//   - backend.type → KVDROP_BACKEND_TYPE
//   - backend.s3.bucket → KVDROP_BACKEND_S3_BUCKET
//
// # Auth Token
//
// There is no default token. Load fails unless auth.token or
// auth.token_file yields a non-empty value. The file wins when both are set.
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Backend type must be memory, sqlite, postgres, redis, filesystem, or s3
//   - Log level must be debug, info, warn, or error
package config
