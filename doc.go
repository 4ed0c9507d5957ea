// Package kvdrop provides a minimal token-protected file store backed by a
// pluggable key-value backend.
//
// Clients authenticate with a single shared secret, sent either as an
// Authorization bearer header or as the auth_token cookie set by the login
// form. Authenticated clients read and write items addressed by their
// lowercased path.
//
// # Key Components
//
//   - Service: validates keys and forwards reads and writes to a Store
//   - Store: interface for key-value persistence (memory, SQLite, PostgreSQL,
//     Redis, filesystem, S3)
//   - TokenMatches: constant-time comparison against the configured secret
//
// # Example Usage
//
//	service := kvdrop.NewService(store)
//
//	// Write an item
//	err := service.Put(ctx, "notes/todo.txt", []byte("buy milk"))
//
//	// Read it back
//	value, err := service.Get(ctx, "notes/todo.txt")
//
// See the http package for the request router and the backend package for
// store implementations.
package kvdrop
