package services

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"

	"modforge-service/internal/core/domain"
)

// ArchiveLimits bounds how much of a submitted archive is read
type ArchiveLimits struct {
	MaxBytes      int64 // decoded archive size, 0 = unlimited
	MaxEntryBytes int64 // uncompressed size of a single kept entry, 0 = unlimited
	MaxTotalBytes int64 // uncompressed size of all kept entries together, 0 = unlimited
}

// entryLimit is how much the next entry may read, or -1 for no bound
func (l ArchiveLimits) entryLimit(used int64) int64 {
	limit := int64(-1)
	if l.MaxEntryBytes > 0 {
		limit = l.MaxEntryBytes
	}
	if l.MaxTotalBytes > 0 {
		remaining := l.MaxTotalBytes - used
		if remaining < 0 {
			remaining = 0
		}
		if limit < 0 || remaining < limit {
			limit = remaining
		}
	}
	return limit
}

var configExtensions = map[string]bool{
	".json":   true,
	".toml":   true,
	".gradle": true,
}

// ExtractArchive decodes a base64 ZIP (JAR) blob and sorts its text entries into
// Java sources and auxiliary config files. Compiled classes and every other
// extension are dropped.
func ExtractArchive(encoded string, limits ArchiveLimits) (*domain.ArchiveContents, error) {
	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveDecode, err)
	}
	if limits.MaxBytes > 0 && int64(len(raw)) > limits.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrArchiveTooLarge, len(raw))
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveDecode, err)
	}

	contents := &domain.ArchiveContents{
		SourceFiles: []domain.SourceFile{},
		ConfigFiles: []domain.SourceFile{},
	}

	var total int64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, ".class") {
			continue
		}

		ext := strings.ToLower(path.Ext(f.Name))
		isSource := ext == ".java"
		if !isSource && !configExtensions[ext] {
			continue
		}

		text, n, err := readEntry(f, limits.entryLimit(total))
		if err != nil {
			return nil, err
		}
		total += n

		file := domain.SourceFile{Path: f.Name, Content: text}
		if isSource {
			contents.SourceFiles = append(contents.SourceFiles, file)
		} else {
			contents.ConfigFiles = append(contents.ConfigFiles, file)
		}
	}

	return contents, nil
}

// readEntry reads one entry as text; invalid UTF-8 is replaced, never rejected.
// A negative maxBytes reads without bound.
func readEntry(f *zip.File, maxBytes int64) (string, int64, error) {
	rc, err := f.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%w: open %s: %v", domain.ErrArchiveDecode, f.Name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if maxBytes >= 0 {
		r = io.LimitReader(rc, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("%w: read %s: %v", domain.ErrArchiveDecode, f.Name, err)
	}
	if maxBytes >= 0 && int64(len(data)) > maxBytes {
		return "", 0, fmt.Errorf("%w: entry %s", domain.ErrArchiveTooLarge, f.Name)
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), int64(len(data)), nil
}

// decodeBase64 accepts padded or unpadded standard base64, optionally behind a
// data URL prefix and wrapped across lines.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
