package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
)

// Export writes every collection present in the store to <dir>/<key>.json,
// the same layout the disk backend uses, and returns the written paths.
func Export(ctx context.Context, store Store, dir string) ([]string, error) {
	if err := pkg.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure export dir: %w", err)
	}

	written := make([]string, 0, len(AllKeys))
	for _, key := range AllKeys {
		value, found, err := store.Read(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !found {
			log.Debugf("export: key [%s] not present, skipping", key)
			continue
		}

		path := filepath.Join(dir, key+".json")
		if err := os.WriteFile(path, value, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}
