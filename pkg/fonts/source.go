package fonts

import (
	"fmt"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
)

// Source loads the raw TrueType bytes of a font.
type Source interface {
	Load() ([]byte, error)
	Describe() string
}

// Embedded returns a source backed by bytes compiled into the binary.
func Embedded(name string, data []byte) Source {
	return embeddedSource{name: name, data: data}
}

type embeddedSource struct {
	name string
	data []byte
}

func (s embeddedSource) Load() ([]byte, error) {
	if len(s.data) == 0 {
		return nil, fmt.Errorf("embedded font %s is empty", s.name)
	}
	return s.data, nil
}

func (s embeddedSource) Describe() string { return "embedded: " + s.name }

// File returns a source that reads a font file from disk.
func File(path string) Source {
	return fileSource{path: path}
}

type fileSource struct {
	path string
}

func (s fileSource) Load() ([]byte, error) {
	return os.ReadFile(s.path)
}

func (s fileSource) Describe() string { return "file: " + s.path }

// System returns a source that searches the host's font directories for the
// first of names that exists.
func System(names ...string) Source {
	return systemSource{names: names}
}

type systemSource struct {
	names []string
}

func (s systemSource) Load() ([]byte, error) {
	path, err := s.find()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (s systemSource) find() (string, error) {
	for _, name := range s.names {
		if path, err := findfont.Find(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %s installed", strings.Join(s.names, ", "))
}

func (s systemSource) Describe() string { return "system: " + strings.Join(s.names, " | ") }
