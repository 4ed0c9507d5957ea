// Package backend provides a unified entry point for connecting to the
// key-value backends that store kvdrop items.
//
// # Supported Backends
//
//   - memory: in-process map, contents lost on restart
//   - sqlite: single-node file database using modernc.org/sqlite
//   - postgres: shared database using a pgx connection pool
//   - redis: string keys under a configurable prefix
//   - filesystem: one file per item under a sandboxed root directory
//   - s3: one object per item in an S3-compatible bucket
//
// # Usage
//
//	db, err := backend.Connect(ctx, backend.Config{
//	    Type:  "sqlite",
//	    DSN:   "kvdrop.db",
//	    Table: "kvdrop_items",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	service := kvdrop.NewService(db.GetStore())
//
// Connect only opens the connection. Callers decide whether to run Migrate
// and Validate.
package backend
