package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SupportedImageExtensions lists the still image formats a file list accepts.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return hasExtension(path, SupportedImageExtensions)
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExpandPaths turns files and directories into a list of image files.
// Directories contribute their supported image files (not recursively),
// sorted by name. Files are kept in the order given.
//
// Arguments:
//   - paths: Files and directories.
//
// Returns:
//   - []string: Image file paths.
//   - error: When a path does not exist or a directory cannot be read.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", p)
		}
		var dirFiles []string
		for _, entry := range entries {
			if entry.IsDir() || !IsImageFile(entry.Name()) {
				continue
			}
			dirFiles = append(dirFiles, filepath.Join(p, entry.Name()))
		}
		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}

// Files reads still images from disk, one per Next call.
type Files struct {
	mu      sync.Mutex
	paths   []string
	pos     int
	index   int
	skipped []string
}

// NewFiles creates a source over image files.
func NewFiles(paths []string) *Files {
	return &Files{paths: append([]string(nil), paths...)}
}

// Len returns the number of paths in the list, readable or not.
func (f *Files) Len() int {
	return len(f.paths)
}

// Next decodes the next readable image. Files that cannot be decoded are
// skipped and recorded; see Skipped.
func (f *Files) Next(ctx context.Context) (Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.pos < len(f.paths) {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}

		path := f.paths[f.pos]
		f.pos++

		mat := gocv.IMRead(path, gocv.IMReadColor)
		if mat.Empty() {
			mat.Close()
			f.skipped = append(f.skipped, path)
			continue
		}

		frame := Frame{Mat: mat, Name: path, Index: f.index}
		f.index++
		return frame, nil
	}

	return Frame{}, ErrEndOfStream
}

// Skipped returns the paths that could not be decoded so far.
func (f *Files) Skipped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.skipped...)
}

// Close ends the stream.
func (f *Files) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = len(f.paths)
	return nil
}
