package movies

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"movieshelf/proj/internal/lib/imageref"
	"movieshelf/proj/internal/storage/blob"
)

// Cleaner deletes the blob or local file behind an image reference. All
// failures are logged and swallowed: image cleanup must never fail the
// movie mutation that triggered it.
type Cleaner struct {
	log    *slog.Logger
	blobs  blob.Storage
	bucket string
	// localDirs are candidate base directories for legacy local
	// references, tried in order.
	localDirs []string
}

func NewCleaner(log *slog.Logger, blobs blob.Storage, bucket string, localDirs []string) *Cleaner {
	return &Cleaner{
		log:       log,
		blobs:     blobs,
		bucket:    bucket,
		localDirs: localDirs,
	}
}

// removalResult describes what a removal attempt did, for logging.
type removalResult struct {
	Ref       string
	Remote    bool
	Key       string
	Path      string
	Deleted   bool
	Attempted []string
	Err       error
}

func (c *Cleaner) Remove(ctx context.Context, ref string) {
	const op = "movies.Cleaner.Remove"
	log := c.log.With("op", op, "ref", ref)
	if ref == "" {
		log.Debug("no image reference to remove")
		return
	}
	res := c.remove(ctx, ref)
	switch {
	case res.Err != nil:
		log.Error("image removal failed", "remote", res.Remote, "key", res.Key, "err", res.Err.Error())
	case !res.Deleted && res.Remote:
		log.Warn("could not resolve a blob key from image reference")
	case !res.Deleted:
		log.Warn("local image not found at any candidate path", "attempted", res.Attempted)
	case res.Remote:
		log.Info("remote image deleted", "key", res.Key)
	default:
		log.Info("local image deleted", "path", res.Path)
	}
}

func (c *Cleaner) remove(ctx context.Context, ref string) removalResult {
	res := removalResult{Ref: ref}
	if imageref.IsRemote(ref) {
		res.Remote = true
		key, ok := imageref.ExtractKey(ref, c.bucket)
		if !ok {
			return res
		}
		res.Key = key
		if err := c.blobs.Delete(ctx, key); err != nil {
			res.Err = err
			return res
		}
		res.Deleted = true
		return res
	}

	filename, ok := imageref.LocalFilename(ref)
	if !ok {
		return res
	}
	for _, dir := range c.localDirs {
		path := filepath.Join(dir, filename)
		res.Attempted = append(res.Attempted, path)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			res.Err = err
			return res
		}
		res.Path = path
		res.Deleted = true
		return res
	}
	return res
}
