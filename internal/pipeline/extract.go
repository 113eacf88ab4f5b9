package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirExtractor walks a directory tree collecting OSD text files. The NRCS
// OSD archive ships one .txt file per series, grouped into per-letter
// subdirectories.
type DirExtractor struct {
	root string
}

func NewDirExtractor(root string) *DirExtractor {
	return &DirExtractor{root: root}
}

// Extract returns every .txt file under the root, sorted by path so runs
// are deterministic.
func (e *DirExtractor) Extract(ctx context.Context) ([]RawFile, error) {
	var files []RawFile
	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, RawFile{Path: path, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", e.root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
