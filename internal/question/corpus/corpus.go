// Package corpus loads question sets from YAML: the built-in set compiled into
// the binary and optional operator-supplied files.
package corpus

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/realm-quiz/internal/question"
)

//go:embed builtin.yaml
var builtinYAML []byte

// File is the on-disk corpus layout.
type File struct {
	// Fallback is served when neither the requested realm nor "general" has questions.
	Fallback []question.Question            `yaml:"fallback"`
	Realms   map[string][]question.Question `yaml:"realms"`
}

// Builtin parses the corpus shipped with the binary.
func Builtin() (File, error) {
	return Parse(builtinYAML, question.SourceBuiltin)
}

// Load reads a corpus file from disk and tags its questions with source "file".
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	f, err := Parse(data, question.SourceFile)
	if err != nil {
		return File{}, fmt.Errorf("corpus %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML strictly; unknown keys are an error.
func Parse(data []byte, source string) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode corpus: %w", err)
	}
	tag(f.Fallback, source)
	for _, qs := range f.Realms {
		tag(qs, source)
	}
	return f, nil
}

func tag(qs []question.Question, source string) {
	for i := range qs {
		qs[i].Source = source
	}
}

// Merge appends other's questions to f's, realm by realm.
func (f File) Merge(other File) File {
	out := File{
		Fallback: append(append([]question.Question(nil), f.Fallback...), other.Fallback...),
		Realms:   make(map[string][]question.Question, len(f.Realms)+len(other.Realms)),
	}
	for name, qs := range f.Realms {
		out.Realms[name] = append(out.Realms[name], qs...)
	}
	for name, qs := range other.Realms {
		out.Realms[name] = append(out.Realms[name], qs...)
	}
	return out
}

// AddRealm appends questions to one realm, e.g. generated ones.
func (f *File) AddRealm(realm string, qs []question.Question) {
	if f.Realms == nil {
		f.Realms = make(map[string][]question.Question)
	}
	f.Realms[realm] = append(f.Realms[realm], qs...)
}

// Size counts every question in the file.
func (f File) Size() int {
	n := len(f.Fallback)
	for _, qs := range f.Realms {
		n += len(qs)
	}
	return n
}

// Repository validates the file and freezes it into a question.Repository.
func (f File) Repository() (*question.Repository, error) {
	return question.NewRepository(f.Realms, f.Fallback)
}
