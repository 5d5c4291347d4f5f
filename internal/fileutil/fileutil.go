// Package fileutil copies and moves single files for the organizer.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// rename is swapped in tests to simulate cross-device moves.
var rename = os.Rename

// CopyFile streams src to dst, keeping the source permission bits.
// Existing files at dst are truncated.
func CopyFile(src, dst string) error {
	_, err := copyContents(src, dst, false)
	return err
}

// CopyFileVerified copies like CopyFile and then compares size and SHA-256 of
// what was read against what was written. dst is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	_, err := copyContents(src, dst, true)
	return err
}

// MoveFile renames src to dst. When the two paths live on different
// filesystems it falls back to copy and remove.
func MoveFile(src, dst string, verify bool) error {
	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return renameErr
	}
	if _, err := copyContents(src, dst, verify); err != nil {
		return fmt.Errorf("copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func copyContents(src, dst string, verify bool) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	var reader io.Reader = in
	var writer io.Writer = out
	srcHasher := sha256.New()
	dstHasher := sha256.New()
	if verify {
		reader = io.TeeReader(in, srcHasher)
		writer = io.MultiWriter(out, dstHasher)
	}

	written, err := io.Copy(writer, reader)
	if err != nil {
		return written, err
	}
	if err := out.Close(); err != nil {
		return written, err
	}
	if !verify {
		return written, nil
	}

	if written != info.Size() {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return written, errors.New("copy hash mismatch: file corrupted during copy")
	}
	return written, nil
}
