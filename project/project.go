// Package project locates the ActionScript sources of a project and the
// formatter configuration that applies to them.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
	"github.com/dhamidi/asfmt/config"
)

// Extension is the file extension of ActionScript sources.
const Extension = ".as"

// Project is a directory tree of ActionScript sources. SrcDir is the root
// that package names are relative to: RootDir/src when it exists, RootDir
// otherwise.
type Project struct {
	RootDir string
	SrcDir  string
	Config  *config.Config
}

// Load detects the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom detects the project rooted at rootDir.
func LoadFrom(rootDir string) (*Project, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load project: %s is not a directory", abs)
	}

	cfg, err := config.ForDir(abs)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	proj := &Project{RootDir: abs, SrcDir: abs, Config: cfg}
	if info, err := os.Stat(filepath.Join(abs, "src")); err == nil && info.IsDir() {
		proj.SrcDir = filepath.Join(abs, "src")
	}
	return proj, nil
}

// Files returns every .as file under the project root in lexical order.
// Hidden directories are skipped.
func (p *Project) Files() ([]string, error) {
	return SourceFiles(p.RootDir)
}

// SourceFiles returns the .as files under dir, or dir itself when it is a
// file. Hidden directories below dir are skipped.
func SourceFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sources in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func IsHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// PackageFor returns the package name that files in dir are expected to
// declare, derived from dir's path below SrcDir.
func (p *Project) PackageFor(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(p.SrcDir, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}

// Class is a class or interface found in the project.
type Class struct {
	Name      string
	Package   string // as declared
	Path      string
	Interface bool

	// Expected is the package implied by Path; it differs from Package
	// when the file sits in the wrong directory.
	Expected string
}

func (c Class) FullName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

func (c Class) Misplaced() bool {
	return c.Package != c.Expected
}

// Classes parses every source file and lists the classes and interfaces
// declared in package blocks.
func (p *Project) Classes() ([]Class, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}

	var classes []Class
	for _, file := range files {
		found, err := classesInFile(file)
		if err != nil {
			continue
		}
		for _, c := range found {
			c.Expected = p.PackageFor(filepath.Dir(file))
			classes = append(classes, c)
		}
	}
	return classes, nil
}

func classesInFile(path string) ([]Class, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var classes []Class
	for _, sym := range outline.Of(parser.Parse(src), src) {
		if sym.Kind != outline.KindPackage {
			continue
		}
		for _, child := range sym.Children {
			if child.Kind != outline.KindClass && child.Kind != outline.KindInterface {
				continue
			}
			classes = append(classes, Class{
				Name:      child.Name,
				Package:   sym.Name,
				Path:      path,
				Interface: child.Kind == outline.KindInterface,
			})
		}
	}
	return classes, nil
}
