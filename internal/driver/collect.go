package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceExts lists the extensions picked up when walking directories.
var sourceExts = []string{".json", ".jsonc"}

// skipDirs are never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
}

// IsSource reports whether path names a file the formatter handles.
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sourceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// collectSourceFiles returns the sorted, de-duplicated list of sources under
// paths. Files named explicitly are kept whatever their extension.
func collectSourceFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if _, skip := skipDirs[d.Name()]; skip && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// CollectFiles lists the sources FormatPaths would visit for paths.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	return collectSourceFiles(ctx, paths)
}
