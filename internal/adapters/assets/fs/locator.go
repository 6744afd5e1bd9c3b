package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/toplap/internal/ports"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Locator finds product images under <root>/<entry id>/.
type Locator struct {
	root string
}

var _ ports.AssetLocator = (*Locator)(nil)

func NewLocator(root string) (*Locator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("assets directory is empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve assets directory: %w", err)
	}

	return &Locator{root: filepath.Clean(absRoot)}, nil
}

func (l *Locator) Images(ctx context.Context, entryID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, ok := l.entryDir(entryID)
	if !ok {
		return nil, fmt.Errorf("invalid entry id %q", entryID)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read assets for %s: %w", entryID, err)
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)

	return images, nil
}

func (l *Locator) entryDir(entryID string) (string, bool) {
	id := strings.TrimSpace(entryID)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", false
	}

	dir := filepath.Join(l.root, id)
	if filepath.Dir(dir) != l.root {
		return "", false
	}
	return dir, true
}
