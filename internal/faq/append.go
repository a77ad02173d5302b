package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

// Append adds e to the end of the FAQ source at path, creating the source
// when it does not exist.
//
// File sources are rewritten through a temp file and rename while holding the
// exclusive lock, so a concurrent Load sees either the old or the new corpus.
func Append(path string, e Entry) error {
	e.Question = strings.TrimSpace(e.Question)
	e.Answer = strings.TrimSpace(e.Answer)
	if e.Question == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "question must not be blank", nil)
	}

	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.New(apperrors.ErrCodeFilePermission, "cannot create FAQ directory", err).
			WithDetail("path", path)
	}

	if format == FormatSQLite {
		return appendSQLite(path, e)
	}

	lock := newFileLock(path)
	if err := lock.Lock(); err != nil {
		return apperrors.New(apperrors.ErrCodeFileLocked, "cannot lock FAQ file", err).
			WithDetail("path", path)
	}
	defer func() { _ = lock.Unlock() }()

	var entries []Entry
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if entries, err = decode(format, data, path); err != nil {
			return err
		}
	case os.IsNotExist(err):
	default:
		return apperrors.New(apperrors.ErrCodeFilePermission, "cannot read FAQ file", err).
			WithDetail("path", path)
	}

	entries = append(entries, e)
	out, err := encode(format, entries)
	if err != nil {
		return apperrors.InternalError("failed to encode FAQ entries", err)
	}
	return writeAtomic(path, out)
}

func encode(format Format, entries []Entry) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(entries)
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.New(apperrors.ErrCodeFilePermission, "cannot create temp file", err).
			WithDetail("path", path)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperrors.New(apperrors.ErrCodeFilePermission, "failed to write FAQ file", err).
			WithDetail("path", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return apperrors.New(apperrors.ErrCodeFilePermission, "failed to replace FAQ file", err).
			WithDetail("path", path)
	}
	return nil
}
