package download

import (
	"context"
	"log/slog"
)

// File is a downloaded payload and the name resolved for it. It lives in
// memory until Save is called.
type File struct {
	Content []byte
	Name    string
}

// Save writes the content to destPath. See Write.
func (f *File) Save(ctx context.Context, destPath string, logger *slog.Logger, optFns ...Option) error {
	return Write(ctx, f.Content, destPath, logger, optFns...)
}
