package faq

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

// Format identifies a FAQ source encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatOf picks the source format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidPath, "unsupported FAQ file type", nil).
			WithDetail("path", path).
			WithSuggestion("Use a .json, .yaml, .yml, .db, .sqlite or .sqlite3 file")
	}
}

// Load reads all entries from path, in source order.
//
// Errors carry ERR_201_FILE_NOT_FOUND when the file is missing,
// ERR_206_FILE_CORRUPT when it cannot be decoded (retryable, since a writer
// may be mid-save) and ERR_406_INVALID_PATH for unknown extensions.
func Load(path string) ([]Entry, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "FAQ file not found", err).
				WithDetail("path", path)
		}
		return nil, apperrors.New(apperrors.ErrCodeFilePermission, "cannot access FAQ file", err).
			WithDetail("path", path)
	}

	if format == FormatSQLite {
		return loadSQLite(path)
	}

	lock := newFileLock(path)
	if err := lock.RLock(); err != nil {
		// Read-only directories cannot hold the lock file; read without it.
		slog.Debug("faq_read_unlocked", slog.String("path", path), slog.String("error", err.Error()))
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeFilePermission, "cannot read FAQ file", err).
			WithDetail("path", path)
	}

	return decode(format, data, path)
}

func decode(format Format, data []byte, path string) ([]Entry, error) {
	var (
		items []any
		err   error
	)
	switch format {
	case FormatJSON:
		items, err = decodeJSON(data)
	case FormatYAML:
		items, err = decodeYAML(data)
	}
	if err != nil {
		return nil, corrupt(path, err)
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeFileCorrupt, "FAQ item is not an object", nil).
				WithDetail("path", path).
				WithDetail("index", strconv.Itoa(i))
		}
		entries = append(entries, entryFromMap(m))
	}
	return entries, nil
}

func decodeJSON(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after FAQ array")
	}
	return items, nil
}

func decodeYAML(data []byte) ([]any, error) {
	var items []any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func corrupt(path string, cause error) error {
	return apperrors.New(apperrors.ErrCodeFileCorrupt, "FAQ file could not be decoded", cause).
		WithDetail("path", path).
		WithSuggestion("Run 'faqmatch entries check' after fixing the file")
}
