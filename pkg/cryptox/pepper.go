package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// The pepper is a server-side secret mixed into every password before
// hashing, so a leaked database alone is not enough material for offline
// guessing. It lives in a file owned by the deployment; when the file is
// missing a fresh random pepper is written on first use.

const pepperBytes = 32

var (
	pepperMu   sync.Mutex
	pepperPath = "pepper"

	pepperOnce sync.Once
	pepperVal  string
	pepperErr  error
)

// SetPepperPath points the loader at the pepper file. Call once at startup,
// before the first hash or verify.
func SetPepperPath(path string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperPath = path
}

// loadPepper resolves the pepper exactly once per process. Every hash and
// verify after a load failure keeps reporting that same failure rather than
// silently hashing without the pepper.
func loadPepper() (string, error) {
	pepperOnce.Do(func() {
		pepperMu.Lock()
		path := filepath.Clean(pepperPath)
		pepperMu.Unlock()
		pepperVal, pepperErr = readOrCreatePepper(path)
	})
	return pepperVal, pepperErr
}

func readOrCreatePepper(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		return string(raw), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read pepper file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create pepper directory: %w", err)
	}

	buf := make([]byte, pepperBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate pepper: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
		return "", fmt.Errorf("write pepper file: %w", err)
	}
	return secret, nil
}
