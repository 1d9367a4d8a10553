package godoc

import (
	"go/ast"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/nieomylnieja/mimic/internal/pathutils"
	"github.com/nieomylnieja/mimic/internal/typeinfo"
)

// NewParser loads every package of the module rooted at (or above) dir,
// along with type-annotated syntax for all of their dependencies.
// An empty dir means the current working directory.
func NewParser(dir string) (*Parser, error) {
	root, err := pathutils.FindModuleRoot(dir)
	if err != nil {
		return nil, err
	}
	conf := &packages.Config{
		Dir: root,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(conf, "./...")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	if err = checkForPackageErrors(pkgs); err != nil {
		return nil, err
	}

	parser := &Parser{
		pkgs:  make(map[string]*packages.Package, len(pkgs)),
		enums: make(map[string][]string),
	}
	parser.collectAllPackages(pkgs)
	return parser, nil
}

// Parser looks up doc comments of named types.
type Parser struct {
	pkgs  map[string]*packages.Package
	enums map[string][]string
}

// enumDeclarationRegex matches go-enum style declarations, e.g. "ENUM(Male, Female)".
var enumDeclarationRegex = regexp.MustCompile(`(?s)ENUM\((.*?)\)`)

// EnumValues returns the values declared with ENUM(...) in the doc comment
// of the named type. It reports false for builtin types and for types
// without a declaration.
func (p *Parser) EnumValues(goType reflect.Type) ([]string, bool, error) {
	info := typeinfo.Get(goType)
	if !info.IsNamed() {
		return nil, false, nil
	}
	if values, cached := p.enums[info.Key()]; cached {
		return values, values != nil, nil
	}
	doc, err := p.typeDoc(info)
	if err != nil {
		return nil, false, err
	}
	values := parseEnumDeclaration(doc)
	p.enums[info.Key()] = values
	return values, values != nil, nil
}

func (p *Parser) typeDoc(info typeinfo.TypeInfo) (string, error) {
	pkg, found := p.pkgs[info.Package]
	if !found {
		return "", errors.Errorf("could not find %s package for type %s", info.Package, info.Name)
	}
	decl, err := findTypeDeclaration(pkg, info.Name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to find %s declaration in %s pkg", info.Name, info.Package)
	}
	// Grouped declarations keep the comment on the spec.
	for _, s := range decl.Specs {
		if ts, ok := s.(*ast.TypeSpec); ok && ts.Name.Name == info.Name && ts.Doc != nil {
			return ts.Doc.Text(), nil
		}
	}
	return decl.Doc.Text(), nil
}

func parseEnumDeclaration(doc string) []string {
	matches := enumDeclarationRegex.FindStringSubmatch(doc)
	if len(matches) < 2 {
		return nil
	}
	fields := strings.FieldsFunc(matches[1], func(r rune) bool {
		return r == ',' || r == '\n'
	})
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		// go-enum allows explicit values: "Male=1".
		name, _, _ := strings.Cut(field, "=")
		if name = strings.TrimSpace(name); name != "" {
			values = append(values, name)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// findTypeDeclaration finds the ast.GenDecl for the given type declaration, specified by name.
func findTypeDeclaration(pkg *packages.Package, name string) (*ast.GenDecl, error) {
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, errors.Errorf("%s.%s not found", pkg.Types.Path(), name)
	}
	for _, file := range pkg.Syntax {
		pos := obj.Pos()
		if file.FileStart > pos || pos >= file.FileEnd {
			continue // not in this file
		}
		path, _ := astutil.PathEnclosingInterval(file, pos, pos)
		for _, n := range path {
			if n, ok := n.(*ast.GenDecl); ok {
				return n, nil
			}
		}
	}
	return nil, errors.Errorf("could not find %s.%s declaration", pkg.Name, name)
}

// collectAllPackages recursively adds all packages and their imports to the parser's map.
func (p *Parser) collectAllPackages(pkgs []*packages.Package) {
	for _, pkg := range pkgs {
		if _, exists := p.pkgs[pkg.PkgPath]; exists {
			continue
		}
		p.pkgs[pkg.PkgPath] = pkg
		if len(pkg.Imports) > 0 {
			p.collectAllPackages(slices.Collect(maps.Values(pkg.Imports)))
		}
	}
}

func checkForPackageErrors(pkgs []*packages.Package) (err error) {
	packages.Visit(pkgs, func(pkg *packages.Package) bool {
		for _, err = range pkg.Errors {
			err = errors.Wrapf(err, "package %s has reported an error", pkg.PkgPath)
			return false
		}
		mod := pkg.Module
		if mod != nil && mod.Error != nil {
			err = errors.New(mod.Error.Err)
			return false
		}
		return true
	}, nil)
	return err
}
