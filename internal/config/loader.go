package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where a config value was set.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config       *Config
	Sources      map[string]Source // YAML path -> last file that set it
	ProfileBases map[string]string // profile name -> builtin base name
	Files        []string          // loaded files, includes before includers
	Warnings     []string
}

func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "termboard", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "termboard", "config.yaml"), nil
}

// LoadWithSources loads the config from DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config at path and the files it includes. A
// missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &fileLoader{sources: map[string]Source{}, seen: map[string]bool{}}

	raw := RawConfig{}
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, profileBases, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.withSource(err)
	}

	return &LoadResult{
		Config:       cfg,
		Sources:      l.sources,
		ProfileBases: profileBases,
		Files:        l.files,
		Warnings:     cfg.Warnings(),
	}, nil
}

// fileLoader merges a config file with its includes. Included files are
// merged first so the including file wins.
type fileLoader struct {
	sources map[string]Source
	files   []string
	seen    map[string]bool
	chain   []string
}

func (l *fileLoader) load(path string) (RawConfig, error) {
	canon := canonicalPath(path)
	if slices.Contains(l.chain, canon) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), canon)
	}
	if l.seen[canon] {
		return RawConfig{}, nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", canon, err)
	}
	own := map[string]Source{}
	walkSources(root(&doc), canon, "", own)

	merged := RawConfig{}
	l.chain = append(l.chain, canon)
	for i, inc := range raw.Include {
		src, ok := own["include."+strconv.Itoa(i)]
		if !ok {
			src = own["include"]
		}
		if inc == "" {
			return RawConfig{}, fmt.Errorf("%s: include: path is empty", src.position())
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(canon), inc)
		}
		if _, err := os.Stat(inc); err != nil {
			return RawConfig{}, fmt.Errorf("%s: include %q: %w", src.position(), raw.Include[i], err)
		}
		incRaw, err := l.load(inc)
		if err != nil {
			return RawConfig{}, err
		}
		merged = merged.merge(incRaw)
	}
	l.chain = l.chain[:len(l.chain)-1]

	for p, src := range own {
		l.sources[p] = src
	}
	l.files = append(l.files, canon)
	return merged.merge(raw), nil
}

// withSource fills in the file position of a validation error.
func (l *fileLoader) withSource(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := l.sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks where it can so a cycle through a link is
// still caught.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func root(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// walkSources records the position of every mapping value and sequence item
// under prefix, so errors like apps.3.id point at the right line.
func walkSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := node.Content[i].Value
			if prefix != "" {
				path = prefix + "." + path
			}
			val := node.Content[i+1]
			out[path] = at(val)
			walkSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix == "" {
			return
		}
		for i, item := range node.Content {
			path := prefix + "." + strconv.Itoa(i)
			out[path] = at(item)
			walkSources(item, file, path, out)
		}
	}
}
