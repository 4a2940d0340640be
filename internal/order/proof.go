package order

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var ErrBadProofType = errors.New("proof must be a png, jpg, jpeg or gif image")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

var allowedProofExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// ProofStore writes proof-of-payment uploads under a payments directory
// with collision-resistant names.
type ProofStore struct {
	dir string
	now func() time.Time
}

func NewProofStore(dir string) *ProofStore {
	return &ProofStore{dir: dir, now: time.Now}
}

// Save stores the upload and returns the generated filename,
// pay_{userID}_{epochSeconds}_{sanitizedOriginal}.
func (p *ProofStore) Save(userID, original string, r io.Reader) (string, error) {
	name := sanitizeName(original)
	if !allowedProofExt[strings.ToLower(filepath.Ext(name))] {
		return "", ErrBadProofType
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pay_%s_%d_%s", userID, p.now().Unix(), name)
	f, err := os.Create(filepath.Join(p.dir, filename))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return filename, nil
}

// sanitizeName strips any path component and replaces characters that could
// escape the payments directory.
func sanitizeName(original string) string {
	base := filepath.Base(filepath.Clean(strings.ReplaceAll(original, "\\", "/")))
	base = strings.ReplaceAll(base, "..", "")
	return unsafeChars.ReplaceAllString(base, "_")
}
