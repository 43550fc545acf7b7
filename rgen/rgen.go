package rgen

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"go/format"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/vugu/vgnav/routefile"
)

// OutputFileName is the name of the generated file.
const OutputFileName = "0_routes_vgen.go"

// New returns a new Generator instance.
func New() *Generator {
	return &Generator{}
}

// Generator writes a MakeRoutes function for a directory, either from a route
// file or from the .vugu files found in it.
type Generator struct {
	dir          string                           // directory the file is written to
	recursive    bool                             // if true we will descend into directories
	packageName  string                           // fully qualified package name corresponding to dir
	localPackage string                           // package clause of the generated file
	routeFile    *routefile.File                  // routes to generate, scanned from dir if nil
	pathFunc     func(fileName string) string     // function derive path from file or struct name
	includeFunc  func(path, fileName string) bool // function to determine if a file should be included
}

// SetDir assigns the directory to generate in.
func (g *Generator) SetDir(dir string) *Generator {
	g.dir = dir
	return g
}

// SetRecursive if passed true will make directory scanning include
// sub-directories. Their components are referenced from their own packages.
func (g *Generator) SetRecursive(recursive bool) *Generator {
	g.recursive = recursive
	return g
}

// SetPackageName sets the fully qualified package name that corresponds
// with the directory set with SetDir. It is only needed when handlers live
// in sub-packages, and is detected from go.mod if not set.
func (g *Generator) SetPackageName(packageName string) *Generator {
	g.packageName = packageName
	return g
}

// SetLocalPackage sets the package clause of the generated file.
// If not set, the base name of the directory is used.
func (g *Generator) SetLocalPackage(name string) *Generator {
	g.localPackage = name
	return g
}

// SetRouteFile sets the routes to generate. Without one the directory is
// scanned for components.
func (g *Generator) SetRouteFile(f *routefile.File) *Generator {
	g.routeFile = f
	return g
}

// SetPathFunc sets a function which transforms a file name into a route path.
// If not set, DefaultPathFunc will be used.
func (g *Generator) SetPathFunc(f func(fileName string) string) *Generator {
	g.pathFunc = f
	return g
}

// SetIncludeFunc sets the function which determines which files are scanned.
// The include function will be passed the path relative to the dir set by SetDir (and will be empty
// for files in that directory) and fileName will contain the base file name.  E.g. given SetDir("/a")
// "/a/b.vugu" will result in a call with ("", "b.vugu"), and "/a/b/c.vugu" will result in a call
// with ("b", "c.vugu"), "/a/b/c/d.vugu" with ("b/c", "d.vugu") and so on.
func (g *Generator) SetIncludeFunc(f func(path, fileName string) bool) *Generator {
	g.includeFunc = f
	return g
}

// DefaultPathFunc will return the fileName with any suffix removed and a slash prepended.
// E.g. file name "example.vugu" will return "/example".  The special case of index.vugu
// will return "/".
func DefaultPathFunc(fileName string) string {
	if fileName == "index.vugu" {
		return "/"
	}
	return "/" + strings.TrimSuffix(fileName, path.Ext(fileName))
}

// DefaultIncludeFunc will return true for any file which ends with .vugu.
func DefaultIncludeFunc(path, fileName string) bool {
	return strings.HasSuffix(fileName, ".vugu")
}

// Generate writes OutputFileName into the directory.
func (g *Generator) Generate() error {

	// to keep our sanity we need to guarantee that g.dir is absolute
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return err
	}
	g.dir = dir

	f := g.routeFile
	if f == nil {
		df, err := g.readDirf(g.dir)
		if err != nil {
			return err
		}
		f = &routefile.File{Basepath: "/", Routes: g.scanRoutes(df)}
	}

	b, err := g.Render(f)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(g.dir, OutputFileName), b, 0644)
}

func (g *Generator) readDirf(dirPath string) (*dirf, error) {

	includeFunc := g.includeFunc
	if includeFunc == nil {
		includeFunc = DefaultIncludeFunc
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(g.dir, dirPath)
	if err != nil {
		return nil, fmt.Errorf("relative path conversion failed: %w", err)
	}
	rel = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(rel)), "/")

	ret := &dirf{
		path: rel,
	}

	// os.ReadDir returns entries sorted by name
	for _, e := range entries {

		if e.IsDir() {
			if !g.recursive {
				continue
			}
			subdirf, err := g.readDirf(filepath.Join(dirPath, e.Name()))
			if err != nil {
				return nil, err
			}
			ret.subdirs = append(ret.subdirs, subdirf)
			continue
		}

		if includeFunc(rel, e.Name()) {
			ret.fileNames = append(ret.fileNames, e.Name())
		}
	}

	return ret, nil

}

type dirf struct {
	path      string   // path relative to g.dir
	fileNames []string // list of included files
	subdirs   []*dirf  // children
}

// scanRoutes flattens a directory tree into routes, one per component file.
// Components in sub-directories are referenced as "sub/dir.TypeName".
func (g *Generator) scanRoutes(df *dirf) []routefile.Route {
	pf := g.pathFunc
	if pf == nil {
		pf = DefaultPathFunc
	}

	var ret []routefile.Route
	for _, fn := range df.fileNames {
		handler := structName(fn)
		if df.path != "" {
			handler = df.path + "." + handler
		}
		ret = append(ret, routefile.Route{
			Path:    path.Clean("/" + df.path + pf(fn)),
			Handler: handler,
		})
	}
	for _, sub := range df.subdirs {
		ret = append(ret, g.scanRoutes(sub)...)
	}
	return ret
}

type genImport struct {
	Alias string
	Path  string
}

type genDecl struct {
	Path       string
	Default    bool
	IsRedirect bool
	From, To   string
	Handler    string // Go expression
	Children   []genDecl
}

// Render returns the formatted source of the generated file for f.
func (g *Generator) Render(f *routefile.File) ([]byte, error) {

	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, err
	}
	g.dir = dir

	localPackage := g.localPackage
	if localPackage == "" {
		localPackage = filepath.Base(g.dir)
	}

	imports := make(map[string]string)
	decls, err := g.genDecls(f.Routes, imports)
	if err != nil {
		return nil, err
	}

	importList := make([]genImport, 0, len(imports))
	for p, alias := range imports {
		importList = append(importList, genImport{Alias: alias, Path: p})
	}
	sort.Slice(importList, func(i, j int) bool { return importList[i].Path < importList[j].Path })

	basepath := f.Basepath
	if basepath == "" {
		basepath = "/"
	}

	cm := map[string]interface{}{
		"LocalPackage": localPackage,
		"Imports":      importList,
		"Basepath":     basepath,
		"Decls":        decls,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, cm); err != nil {
		return nil, err
	}

	b, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error formatting generated routes: %w; full output:\n%s", err, buf.Bytes())
	}
	return b, nil
}

func (g *Generator) genDecls(routes []routefile.Route, imports map[string]string) ([]genDecl, error) {
	ret := make([]genDecl, 0, len(routes))
	for _, r := range routes {
		d := genDecl{Path: r.Path, Default: r.Default}
		if r.Redirect != nil {
			d.IsRedirect, d.From, d.To = true, r.Redirect.From, r.Redirect.To
		}
		if r.Handler != "" {
			expr, err := g.handlerExpr(r.Handler, imports)
			if err != nil {
				return nil, err
			}
			d.Handler = expr
		}
		children, err := g.genDecls(r.Children, imports)
		if err != nil {
			return nil, err
		}
		d.Children = children
		ret = append(ret, d)
	}
	return ret, nil
}

// handlerExpr turns "Name" into "&Name{}" and "sub/pkg.Name" into a composite
// literal from that sub-package, importing it.
func (g *Generator) handlerExpr(handler string, imports map[string]string) (string, error) {
	i := strings.LastIndex(handler, ".")
	if i < 0 {
		return "&" + handler + "{}", nil
	}
	rel, typeName := handler[:i], handler[i+1:]
	if rel == "" || typeName == "" {
		return "", fmt.Errorf("invalid handler name %q", handler)
	}

	if g.packageName == "" {
		pn, err := guessImportPath(g.dir)
		if err != nil {
			return "", fmt.Errorf("handler %q needs the package name: %w", handler, err)
		}
		g.packageName = pn
	}

	importPath := g.packageName + "/" + rel
	alias, ok := imports[importPath]
	if !ok {
		alias = fmt.Sprintf("ident%x", md5.Sum([]byte(importPath)))
		imports[importPath] = alias
	}
	return "&" + alias + "." + typeName + "{}", nil
}

var fileTemplate = template.Must(template.New(OutputFileName).Parse(`package {{.LocalPackage}}

// WARNING: This file was generated by vgnav/rgen. Do not modify.

import (
	"github.com/vugu/vgnav"
{{range .Imports}}	{{.Alias}} "{{.Path}}"
{{end}})

// RoutesBasepath is the base path MakeRoutes is declared under.
const RoutesBasepath = {{printf "%q" .Basepath}}

// MakeRoutes returns the route declarations for this package.
func MakeRoutes() []vgnav.Declaration {
	return []vgnav.Declaration{
{{template "decls" .Decls}}	}
}
{{define "decls"}}{{range .}}		{
{{- if .IsRedirect}}Redirect: &vgnav.RedirectDecl{From: {{printf "%q" .From}}, To: {{printf "%q" .To}}},{{end}}
{{- if .Path}}Path: {{printf "%q" .Path}},{{end}}
{{- if .Default}}Default: true,{{end}}
{{- if .Handler}}Handler: {{.Handler}},{{end}}
{{- if .Children}}Children: []vgnav.Declaration{
{{template "decls" .Children}}},{{end -}}
},
{{end}}{{end}}`))

func structName(s string) string {
	// transform it the same way vugu does
	return fnameToGoTypeName(s)
}

func fnameToGoTypeName(s string) string {
	s = strings.Split(s, ".")[0] // remove file extension if present
	parts := strings.Split(s, "-")
	for i := range parts {
		p := parts[i]
		if len(p) > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		parts[i] = p
	}
	return strings.Join(parts, "")
}

func guessImportPath(dir string) (string, error) {

	after := ""
	lastDir := dir

	for {
		f, err := os.Open(filepath.Join(dir, "go.mod"))
		if err == nil {
			defer f.Close()
			ret, err := readModuleEntry(f)
			return ret + after, err
		}

		after = "/" + filepath.Base(dir) + after

		lastDir, dir = dir, filepath.Dir(dir)

		if dir == lastDir { // we hit the root dir
			return "", fmt.Errorf("no go.mod file found, cannot guess import path")
		}
	}

}

func readModuleEntry(r io.Reader) (string, error) {

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	ret := modulePath(b)
	if ret == "" {
		return "", errors.New("unable to determine module path from go.mod")
	}

	return ret, nil
}

// modulePath returns the module path from the gomod file text.
// If it cannot find a module path, it returns an empty string.
// It is tolerant of unrelated problems in the go.mod file.
func modulePath(mod []byte) string {
	for len(mod) > 0 {
		line := mod
		mod = nil
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line, mod = line[:i], line[i+1:]
		}
		if i := bytes.Index(line, slashSlash); i >= 0 {
			line = line[:i]
		}
		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, moduleStr) {
			continue
		}
		line = line[len(moduleStr):]
		n := len(line)
		line = bytes.TrimSpace(line)
		if len(line) == n || len(line) == 0 {
			continue
		}

		if line[0] == '"' || line[0] == '`' {
			p, err := strconv.Unquote(string(line))
			if err != nil {
				return "" // malformed quoted string or multiline module path
			}
			return p
		}

		return string(line)
	}
	return "" // missing module path
}

var (
	slashSlash = []byte("//")
	moduleStr  = []byte("module")
)
