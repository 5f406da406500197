package packaging

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"
)

var (
	ErrEmptyPath     = errors.New("packaging: entry path required")
	ErrDuplicatePath = errors.New("packaging: duplicate entry path")
)

// entryTime is stamped on every entry so identical inputs give identical bytes.
var entryTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Archive is a built site bundle.
type Archive struct {
	Data     []byte
	Files    []string
	Size     int64
	Checksum string
}

// Bundle collects site files before zipping them.
type Bundle struct {
	entries map[string][]byte
}

func NewBundle() *Bundle {
	return &Bundle{entries: map[string][]byte{}}
}

// Add stores data under name, a slash separated path relative to the site root.
func (b *Bundle) Add(name string, data []byte) error {
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(name)), "/")
	if cleaned == "" || cleaned == "." {
		return ErrEmptyPath
	}
	if _, exists := b.entries[cleaned]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, cleaned)
	}
	b.entries[cleaned] = slices.Clone(data)
	return nil
}

// AddString is Add for text files.
func (b *Bundle) AddString(name, content string) error {
	return b.Add(name, []byte(content))
}

// Len reports the number of files collected.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Build zips the collected files in lexical order.
func (b *Bundle) Build() (*Archive, error) {
	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range names {
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: entryTime,
		}
		header.SetMode(0o644)
		entry, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("packaging: create %s: %w", name, err)
		}
		if _, err := entry.Write(b.entries[name]); err != nil {
			return nil, fmt.Errorf("packaging: write %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("packaging: close archive: %w", err)
	}

	data := buf.Bytes()
	sum := sha256.Sum256(data)
	return &Archive{
		Data:     data,
		Files:    names,
		Size:     int64(len(data)),
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}
