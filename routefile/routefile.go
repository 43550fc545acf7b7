// Package routefile reads route declarations from YAML.
//
//	basepath: /
//	routes:
//	  - path: /groups/:groupId
//	    handler: Group
//	    children:
//	      - path: users/:userId
//	        handler: GroupUser
//	  - redirect: {from: /old/:id, to: /new/:id}
//	  - default: true
//	    handler: NotFound
//
// Handlers are names. rgen turns them into component types, the CLI prints them.
package routefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vugu/vgnav"
)

// File is a parsed route file.
type File struct {
	Basepath string  `yaml:"basepath,omitempty"`
	Routes   []Route `yaml:"routes"`

	name string
}

// Route is one declared route.
type Route struct {
	Path     string    `yaml:"path,omitempty"`
	Handler  string    `yaml:"handler,omitempty"`
	Default  bool      `yaml:"default,omitempty"`
	Redirect *Redirect `yaml:"redirect,omitempty"`
	Children []Route   `yaml:"children,omitempty"`
}

// Redirect is the redirect of a Route.
type Redirect struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ErrUnknownKind is returned for a route that sets none, or more than one, of
// path, default and redirect.
var ErrUnknownKind = errors.New("route must set exactly one of path, default or redirect")

// Load reads and parses the file at name.
func Load(name string) (*File, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	f, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f.name = name
	return f, nil
}

// Parse decodes a route file and validates the declarations in it. Unknown
// keys are an error.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if f.Basepath == "" {
		f.Basepath = "/"
	}

	if err := checkKinds("routes", f.Routes); err != nil {
		return nil, err
	}
	if err := vgnav.Validate(f.Basepath, f.Declarations()); err != nil {
		return nil, err
	}
	return &f, nil
}

func checkKinds(where string, routes []Route) error {
	for i := range routes {
		r := &routes[i]
		n := 0
		if r.Path != "" {
			n++
		}
		if r.Default {
			n++
		}
		if r.Redirect != nil {
			n++
		}
		// path+default is left to vgnav, which reports it as ambiguous
		if n == 0 || (r.Redirect != nil && n > 1) {
			return fmt.Errorf("%s[%d]: %w", where, i, ErrUnknownKind)
		}
		if err := checkKinds(fmt.Sprintf("%s[%d].children", where, i), r.Children); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the file name given to Load.
func (f *File) Name() string { return f.name }

// Declarations converts the routes. Each Handler is the handler name.
func (f *File) Declarations() []vgnav.Declaration {
	return declarations(f.Routes)
}

func declarations(routes []Route) []vgnav.Declaration {
	if len(routes) == 0 {
		return nil
	}
	ret := make([]vgnav.Declaration, 0, len(routes))
	for _, r := range routes {
		d := vgnav.Declaration{
			Path:     r.Path,
			Default:  r.Default,
			Children: declarations(r.Children),
		}
		if r.Handler != "" {
			d.Handler = r.Handler
		}
		if r.Redirect != nil {
			d.Redirect = &vgnav.RedirectDecl{From: r.Redirect.From, To: r.Redirect.To}
		}
		ret = append(ret, d)
	}
	return ret
}

// Handlers returns the distinct handler names in the file, sorted.
func (f *File) Handlers() []string {
	seen := make(map[string]bool)
	var walk func([]Route)
	walk = func(routes []Route) {
		for _, r := range routes {
			if r.Handler != "" {
				seen[r.Handler] = true
			}
			walk(r.Children)
		}
	}
	walk(f.Routes)

	ret := make([]string, 0, len(seen))
	for h := range seen {
		ret = append(ret, h)
	}
	sort.Strings(ret)
	return ret
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
