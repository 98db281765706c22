package download_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/adamwoolhether/dispatcher/download"
)

func TestWrite(t *testing.T) {
	content := []byte("hello, file")
	sum := sha256.Sum256(content)
	goodSum := hex.EncodeToString(sum[:])

	testCases := []struct {
		name    string
		opts    func() []download.Option
		exists  bool
		expErr  error
		expFile string
	}{
		{
			name:    "plain write",
			expFile: string(content),
		},
		{
			name:    "checksum match",
			opts:    func() []download.Option { return []download.Option{download.WithChecksum(sha256.New(), goodSum)} },
			expFile: string(content),
		},
		{
			name:   "checksum mismatch",
			opts:   func() []download.Option { return []download.Option{download.WithChecksum(sha256.New(), "deadbeef")} },
			expErr: download.ErrChecksumMismatch,
		},
		{
			name:    "skip existing",
			opts:    func() []download.Option { return []download.Option{download.WithSkipExisting()} },
			exists:  true,
			expFile: "original",
		},
		{
			name:    "overwrite existing",
			exists:  true,
			expFile: string(content),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			dest := filepath.Join(dir, "out.txt")

			if tc.exists {
				if err := os.WriteFile(dest, []byte("original"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var opts []download.Option
			if tc.opts != nil {
				opts = tc.opts()
			}

			err := download.Write(t.Context(), content, dest, slog.Default(), opts...)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
				if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
					t.Errorf("exp no destination file after failure, stat err: %v", statErr)
				}
			} else if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if e.Name() != "out.txt" {
					t.Errorf("exp temp files to be cleaned up, found %q", e.Name())
				}
			}

			if tc.expFile == "" {
				return
			}
			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("failed to read destination: %v", err)
			}
			if string(got) != tc.expFile {
				t.Errorf("exp file content %q, got %q", tc.expFile, got)
			}
		})
	}
}

func TestWrite_Errors(t *testing.T) {
	if err := download.Write(t.Context(), nil, "", nil); !errors.Is(err, download.ErrEmptyPath) {
		t.Errorf("exp ErrEmptyPath, got: %v", err)
	}

	missingDir := filepath.Join(t.TempDir(), "missing", "out.txt")
	if err := download.Write(t.Context(), []byte("x"), missingDir, nil); err == nil {
		t.Error("exp error for missing directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := download.Write(ctx, []byte("x"), filepath.Join(t.TempDir(), "out"), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}

	if err := download.Write(t.Context(), []byte("x"), filepath.Join(t.TempDir(), "out"), nil, download.WithChecksum(nil, "x")); err == nil {
		t.Error("exp error for nil hash")
	}
}

func TestFile_Save(t *testing.T) {
	f := &download.File{Content: []byte("payload"), Name: "payload.bin"}
	dest := filepath.Join(t.TempDir(), f.Name)

	if err := f.Save(t.Context(), dest, nil); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("exp %q, got %q", "payload", got)
	}
}
