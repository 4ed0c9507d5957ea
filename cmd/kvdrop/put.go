package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/kvdrop"
)

var putCmd = &cobra.Command{
	Use:   "put [flags] <file1> [file2] ...",
	Short: "Import local files into the backend",
	Long: `Import local files directly into the configured backend, bypassing
the HTTP server.

The key of each file is the destination prefix plus its base name (or its
path relative to the directory with -r). Keys are lowercased, matching
what the server does for GET and POST /<key>, unless --raw is given.

Examples:
  # Put a single file
  kvdrop put ./notes.txt

  # Put under a prefix
  kvdrop put --dest config/ ./settings.yaml

  # Put a directory recursively
  kvdrop put -r ./dotfiles

  # Skip keys that already exist
  kvdrop put --no-clobber ./notes.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPut,
}

var (
	putDest      string
	putRecursive bool
	putNoClobber bool
	putRaw       bool
	putQuiet     bool
)

func init() {
	putCmd.Flags().StringVarP(&putDest, "dest", "d", "", "destination key prefix")
	putCmd.Flags().BoolVarP(&putRecursive, "recursive", "r", false, "recursively put directories")
	putCmd.Flags().BoolVarP(&putNoClobber, "no-clobber", "n", false, "skip existing keys instead of overwriting")
	putCmd.Flags().BoolVar(&putRaw, "raw", false, "keep key case as-is")
	putCmd.Flags().BoolVarP(&putQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(putCmd)
}

// fileEntry represents a file to be stored with its source path and key.
type fileEntry struct {
	sourcePath string
	key        string
}

func runPut(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	db, err := openBackend(ctx, cfg.Backend, cfg.Backend.AutoMigrate)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	service := kvdrop.NewService(db.GetStore())

	// Collect files from all arguments
	var files []fileEntry
	for _, arg := range args {
		entries, collectErr := collectFiles(arg, putRecursive, putDest, putRaw)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, entries...)
	}

	if len(files) == 0 {
		slog.Info("no files to put")
		return nil
	}

	added := 0
	skipped := 0

	for _, entry := range files {
		if putNoClobber {
			_, getErr := service.Get(ctx, entry.key)
			if getErr == nil {
				skipped++
				if !putQuiet {
					slog.Info("skipped (exists)", "key", entry.key)
				}
				continue
			}
			if !errors.Is(getErr, kvdrop.ErrNotFound) {
				return fmt.Errorf("check %s: %w", entry.key, getErr)
			}
		}

		content, readErr := os.ReadFile(entry.sourcePath)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", entry.sourcePath, readErr)
		}

		if putErr := service.Put(ctx, entry.key, content); putErr != nil {
			return fmt.Errorf("put %s: %w", entry.key, putErr)
		}

		added++
		if !putQuiet {
			slog.Info("stored", "key", entry.key, "size", len(content))
		}
	}

	slog.Info("put complete", "stored", added, "skipped", skipped)
	return nil
}

// collectFiles gathers files from a path, optionally recursively.
// Returns a list of file entries with source paths and keys.
func collectFiles(path string, recursive bool, destPrefix string, raw bool) ([]fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Normalize dest prefix - ensure it ends with / if non-empty
	destPrefix = strings.TrimPrefix(destPrefix, "/")
	if destPrefix != "" && !strings.HasSuffix(destPrefix, "/") {
		destPrefix += "/"
	}

	toKey := func(rel string) string {
		key := destPrefix + filepath.ToSlash(rel)
		if raw {
			return key
		}
		return kvdrop.NormalizeKey(key)
	}

	if !info.IsDir() {
		return []fileEntry{{sourcePath: path, key: toKey(filepath.Base(path))}}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to put recursively)", path)
	}

	var entries []fileEntry
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(path, walkPath)
		if relErr != nil {
			return relErr
		}

		entries = append(entries, fileEntry{
			sourcePath: walkPath,
			key:        toKey(relPath),
		})
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}
