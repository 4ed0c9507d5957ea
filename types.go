package kvdrop

import (
	"errors"
	"fmt"
	"regexp"
)

// BackendType names a Store implementation.
type BackendType string

const (
	BackendMemory     BackendType = "memory"
	BackendSQLite     BackendType = "sqlite"
	BackendPostgres   BackendType = "postgres"
	BackendRedis      BackendType = "redis"
	BackendFilesystem BackendType = "filesystem"
	BackendS3         BackendType = "s3"
)

func (b BackendType) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis, BackendFilesystem, BackendS3:
		return true
	default:
		return false
	}
}

func ParseBackendType(s string) (BackendType, error) {
	t := BackendType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid backend type: %s (valid types: memory, sqlite, postgres, redis, filesystem, s3)", s)
	}
	return t, nil
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// ValidateTableName reports why a table name cannot be used, if it cannot.
func ValidateTableName(name string) error {
	if name == "" {
		return errors.New("validate table: table name cannot be empty")
	}

	if !IsValidTableName(name) {
		return fmt.Errorf("validate table: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
	}

	return nil
}
