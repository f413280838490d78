package scan

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FindNewFiles returns the non-empty files in dir with the given extension
// (without the dot) that do not yet have an ".md5" sidecar. The sidecar is
// what marks a recording as processed, so its absence means new work.
func FindNewFiles(dir, ext string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, path := range matches {
		if _, err := os.Stat(path + ".md5"); err == nil {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			continue
		}
		fresh = append(fresh, path)
	}
	sort.Strings(fresh)
	return fresh, nil
}

// ChecksumMD5 streams the file through MD5 and returns the hex digest.
func ChecksumMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteChecksum writes the ".md5" sidecar that marks path as processed.
func WriteChecksum(path, sum string) error {
	return os.WriteFile(path+".md5", []byte(sum), 0o644)
}
