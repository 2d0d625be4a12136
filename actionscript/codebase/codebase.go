// Package codebase keeps parsed ActionScript files in memory and serves
// them to the language server and the file watcher.
package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
	"github.com/dhamidi/asfmt/config"
	"github.com/dhamidi/asfmt/format"
	"github.com/dhamidi/asfmt/project"
)

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
	classes []*outline.Symbol
}

// FileInfo is the analysis of one file. It is immutable once stored;
// updates replace it.
type FileInfo struct {
	Path        string
	Content     []byte
	Tokens      []parser.Token
	Tree        *parser.Node
	Lines       *parser.LineIndex
	Symbols     []*outline.Symbol
	Diagnostics []parser.Diagnostic
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// Analyze lexes, parses and outlines content.
func Analyze(path string, content []byte) *FileInfo {
	tokens := parser.Tokenize(content)
	tree := parser.ParseTokens(tokens)
	return &FileInfo{
		Path:        path,
		Content:     content,
		Tokens:      tokens,
		Tree:        tree,
		Lines:       parser.NewLineIndex(content),
		Symbols:     outline.Of(tree, content),
		Diagnostics: parser.Diagnose(content, tokens),
	}
}

func (c *Codebase) ScanAll() error {
	files, err := project.SourceFiles(c.rootDir)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := c.ScanFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := Analyze(path, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	c.rebuildClassesLocked()
	return info
}

func (c *Codebase) rebuildClassesLocked() {
	var all []*outline.Symbol
	for _, f := range c.files {
		for _, sym := range f.Symbols {
			sym.Walk(func(s *outline.Symbol) {
				if s.Kind == outline.KindClass || s.Kind == outline.KindInterface {
					all = append(all, s)
				}
			})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	c.classes = all
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildClassesLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// AllClasses returns the classes and interfaces of every known file, sorted
// by name.
func (c *Codebase) AllClasses() []*outline.Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

func (c *Codebase) FindClass(name string) *outline.Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cls := range c.classes {
		if cls.Name == name {
			return cls
		}
	}
	return nil
}

// Symbols returns the outline of path.
func (c *Codebase) Symbols(path string) []*outline.Symbol {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return f.Symbols
}

// SymbolAt returns the innermost declaration whose name covers offset.
func (c *Codebase) SymbolAt(path string, offset int) *outline.Symbol {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	var found *outline.Symbol
	for _, sym := range f.Symbols {
		sym.Walk(func(s *outline.Symbol) {
			if s.NameSpan.Start <= offset && offset <= s.NameSpan.End && s.Name != "" {
				found = s
			}
		})
	}
	return found
}

// Options returns the formatter options for path from the nearest
// configuration file.
func (c *Codebase) Options(path string) (format.Options, error) {
	cfg, err := config.ForDir(filepath.Dir(path))
	if err != nil {
		return format.Options{}, err
	}
	return cfg.Options(), nil
}

// Format returns the formatted content of path and whether it differs from
// the stored content.
func (c *Codebase) Format(path string) ([]byte, bool, error) {
	f := c.GetFile(path)
	if f == nil {
		return nil, false, fmt.Errorf("format %s: %w", path, os.ErrNotExist)
	}
	opts, err := c.Options(path)
	if err != nil {
		return nil, false, fmt.Errorf("format %s: %w", path, err)
	}
	out, err := format.Format(f.Tree, f.Content, opts)
	if err != nil {
		return nil, false, fmt.Errorf("format %s: %w", path, err)
	}
	return out, string(out) != string(f.Content), nil
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindClass
	CompletionKindInterface
	CompletionKindFunction
	CompletionKindVariable
)

type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// CompletionsAtPoint offers keywords, known classes and the declarations of
// the current file that start with the identifier ending at offset, ignoring
// case.
func (c *Codebase) CompletionsAtPoint(path string, offset int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	prefix := identifierBefore(f.Content, offset)
	if prefix == "" {
		return nil
	}

	lower := strings.ToLower(prefix)
	seen := map[string]bool{}
	var items []CompletionItem
	add := func(item CompletionItem) {
		if seen[item.Label] || item.Label == prefix || !strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	for _, sym := range f.Symbols {
		sym.Walk(func(s *outline.Symbol) {
			if s.Name == "" {
				return
			}
			add(CompletionItem{Label: s.Name, Kind: completionKind(s.Kind), Detail: detail(s)})
		})
	}
	for _, cls := range c.AllClasses() {
		add(CompletionItem{Label: cls.Name, Kind: completionKind(cls.Kind), Detail: detail(cls)})
	}
	for _, kw := range parser.Keywords() {
		add(CompletionItem{Label: kw, Kind: CompletionKindKeyword})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func identifierBefore(content []byte, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	start := offset
	for start > 0 && isIdentByte(content[start-1]) {
		start--
	}
	return string(content[start:offset])
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}

func completionKind(k outline.Kind) CompletionKind {
	switch k {
	case outline.KindClass:
		return CompletionKindClass
	case outline.KindInterface:
		return CompletionKindInterface
	case outline.KindFunction, outline.KindGetter, outline.KindSetter:
		return CompletionKindFunction
	}
	return CompletionKindVariable
}

// detail renders a one-line signature for s.
func detail(s *outline.Symbol) string {
	var sb strings.Builder
	for _, m := range s.Modifiers {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	switch s.Kind {
	case outline.KindGetter:
		sb.WriteString("function get ")
	case outline.KindSetter:
		sb.WriteString("function set ")
	default:
		sb.WriteString(string(s.Kind))
		sb.WriteByte(' ')
	}
	sb.WriteString(s.Name)
	switch s.Kind {
	case outline.KindFunction, outline.KindGetter, outline.KindSetter:
		sb.WriteByte('(')
		for i, p := range s.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
			if p.Type != "" {
				sb.WriteString(": " + p.Type)
			}
		}
		sb.WriteByte(')')
	case outline.KindClass, outline.KindInterface:
		if len(s.Extends) > 0 {
			sb.WriteString(" extends " + strings.Join(s.Extends, ", "))
		}
	}
	if s.Type != "" {
		sb.WriteString(": " + s.Type)
	}
	return sb.String()
}
