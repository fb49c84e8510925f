// Package labels - Class label sets mapping model class indices to names.
package labels

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

//go:embed coco.names
var cocoNames string

var (
	// ErrOutOfRange is returned when a class index has no name in the set. It
	// usually means the model and the label file do not belong together.
	ErrOutOfRange = errors.New("class index out of range")
	// ErrEmpty is returned when a label source holds no names.
	ErrEmpty = errors.New("label set is empty")
	// ErrUnknownName is returned by Index for names not in the set.
	ErrUnknownName = errors.New("unknown class name")
)

// Set is an ordered, immutable list of class names. The class index
// reported by a model is the position of its name in the list.
type Set struct {
	names     []string
	nameToIdx map[string]int
}

// New builds a set from the given names.
//
// Arguments:
//   - names: Class names in model index order.
//
// Returns:
//   - *Set: The label set.
//   - error: ErrEmpty when no names are given.
func New(names []string) (*Set, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	s := &Set{
		names:     append([]string(nil), names...),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, n := range s.names {
		// First occurrence wins for reverse lookups.
		if _, ok := s.nameToIdx[n]; !ok {
			s.nameToIdx[n] = i
		}
	}
	return s, nil
}

// Load reads one class name per line. Surrounding whitespace is trimmed and
// trailing blank lines are ignored; blank lines in between keep their index.
//
// Arguments:
//   - r: The label source (e.g. the contents of coco.names).
//
// Returns:
//   - *Set: The label set.
//   - error: A read error, or ErrEmpty when the source holds no names.
func Load(r io.Reader) (*Set, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading labels")
	}

	for len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}

	return New(names)
}

// LoadFile loads a label set from a file with one name per line.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening label file %s", path)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading label file %s", path)
	}
	return s, nil
}

// COCO returns the 80 COCO classes in darknet order (no background class).
func COCO() *Set {
	s, err := Load(strings.NewReader(cocoNames))
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of classes.
func (s *Set) Len() int {
	return len(s.names)
}

// Name returns the class name for an index.
//
// Arguments:
//   - idx: The class index reported by the model.
//
// Returns:
//   - string: The class name.
//   - error: ErrOutOfRange when idx is not in [0, Len()).
func (s *Set) Name(idx int) (string, error) {
	if idx < 0 || idx >= len(s.names) {
		return "", errors.Wrapf(ErrOutOfRange, "index %d, %d classes", idx, len(s.names))
	}
	return s.names[idx], nil
}

// Index returns the class index for a name.
func (s *Set) Index(name string) (int, error) {
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, errors.Wrapf(ErrUnknownName, "%q", name)
	}
	return idx, nil
}

// Names returns a copy of the class names.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}
