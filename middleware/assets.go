package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// StaticDir is where the CSS and JS served under /static live
const StaticDir = "static"

// versionedAssets are hashed at startup for cache busting
var versionedAssets = []string{"css/app.css", "js/app.js"}

var (
	assetVersions     map[string]string
	assetVersionsOnce sync.Once
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions() {
	assetVersionsOnce.Do(func() {
		assetVersions = computeAssetVersions(StaticDir, versionedAssets)
		log.Info().Interface("versions", assetVersions).Msg("asset versions initialized")
	})
}

func computeAssetVersions(dir string, files []string) map[string]string {
	versions := make(map[string]string, len(files))
	for _, file := range files {
		if hash := computeFileHash(filepath.Join(dir, file)); hash != "" {
			versions[file] = hash
		}
	}
	return versions
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to open file for hashing")
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to hash file")
		return ""
	}
	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// AssetURL returns the /static URL of file with its version query.
// ctx is accepted so templates can call it like the other helpers.
func AssetURL(ctx context.Context, file string) string {
	version, ok := assetVersions[file]
	if !ok {
		version = "1"
	}
	return "/static/" + file + "?v=" + version
}
