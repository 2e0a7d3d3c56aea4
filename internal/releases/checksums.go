package releases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bep/workers"
	"github.com/gohugoio/publishrelease/internal/assets"
)

// ChecksumsFilename is the asset name of the checksums file.
const ChecksumsFilename = "checksums.txt"

// CreateChecksumLines returns one line per file with the SHA256 checksum as lowercase hex digits,
// two spaces and the asset name of the file, sorted.
func CreateChecksumLines(ctx context.Context, w *workers.Workforce, filenames ...string) ([]string, error) {
	var mu sync.Mutex
	var result []string

	r, _ := w.Start(ctx)

	for _, filename := range filenames {
		filename := filename
		r.Run(func() error {
			checksum, err := checksumFile(filename)
			if err != nil {
				return err
			}
			mu.Lock()
			result = append(result, checksum+"  "+assets.Name(filename))
			mu.Unlock()
			return nil
		})
	}

	if err := r.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result)

	return result, nil
}

// CreateChecksumsFile returns the content of a checksums file for filenames.
func CreateChecksumsFile(ctx context.Context, w *workers.Workforce, filenames ...string) ([]byte, error) {
	lines, err := CreateChecksumLines(ctx, w, filenames...)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func checksumFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
