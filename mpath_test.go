package vgnav

import (
	"errors"
	"reflect"
	"testing"
)

func TestMPathParse(t *testing.T) {

	var tlist = []struct {
		in  string
		out mpath
	}{
		{"/", mpath{{kind: segRoot}}},
		{"", mpath{{kind: segRoot}}},
		{"/:p1", mpath{{kind: segDynamic, text: ":p1", name: "p1"}}},
		{"/:p1/", mpath{{kind: segDynamic, text: ":p1", name: "p1"}}},
		{"/:p1/test", mpath{{kind: segDynamic, text: ":p1", name: "p1"}, {kind: segStatic, text: "test"}}},
		{"/a/b", mpath{{kind: segStatic, text: "a"}, {kind: segStatic, text: "b"}}},
		{"/files/*", mpath{{kind: segStatic, text: "files"}, {kind: segSplat, text: "*", name: "*"}}},
		{"/files/*rest", mpath{{kind: segStatic, text: "files"}, {kind: segSplat, text: "*rest", name: "rest"}}},
		{"/a?x=1", mpath{{kind: segStatic, text: "a"}}},
	}

	for _, ti := range tlist {
		t.Run(ti.in, func(t *testing.T) {
			mp, err := parseMpath(ti.in)
			if err != nil {
				t.Error(err)
			}
			if !reflect.DeepEqual(ti.out, mp) {
				t.Errorf("expected %#v, got %#v", ti.out, mp)
			}
		})
	}

}

func TestMPathParseErrors(t *testing.T) {

	var tlist = []struct {
		in   string
		err  error
		code string
	}{
		{"/users/:uri", ErrReservedName, "R005"},
		{"/users/:path", ErrReservedName, "R005"},
		{"/files/*path", ErrReservedName, "R005"},
		{"/files/*/more", ErrSplatNotLast, "R006"},
	}

	for _, ti := range tlist {
		t.Run(ti.in, func(t *testing.T) {
			_, err := parseMpath(ti.in)
			if !errors.Is(err, ti.err) {
				t.Fatalf("expected %v, got %v", ti.err, err)
			}
			var de *DeclarationError
			if !errors.As(err, &de) || de.Code != ti.code || de.Path != ti.in {
				t.Errorf("unexpected declaration error %#v", err)
			}
		})
	}

}

func TestMPathMergeMatch(t *testing.T) {

	var tlist = []struct {
		inpath  string
		pattern string
		pvals   Params
	}{
		{"/", "/", Params{}},
		{"/somewhere", "/:id", Params{"id": "somewhere"}},
		{"/blah/somewhere", "/blah/:id", Params{"id": "somewhere"}},
		{"/blah/somewhere/something", "/blah/:id/:id2", Params{"id": "somewhere", "id2": "something"}},
		{"/files/a%20b/c", "/files/*", Params{"*": "a b/c"}},
		{"/users/a%2Fb", "/users/:id", Params{"id": "a/b"}},
	}

	for _, ti := range tlist {
		t.Run(ti.inpath, func(t *testing.T) {
			mp, err := parseMpath(ti.pattern)
			if err != nil {
				t.Fatal(err)
			}
			pv, _, ok := mp.match(segmentize(ti.inpath))
			if !ok {
				t.Errorf("got ok false")
			}
			if !reflect.DeepEqual(ti.pvals, pv) {
				t.Errorf("expected params %#v, got %#v", ti.pvals, pv)
			}
			p2, err := mp.merge(pv)
			if err != nil {
				t.Errorf("merge error: %v", err)
			}
			if p2 != ti.inpath {
				t.Errorf("expected p2 %#v, got %#v", ti.inpath, p2)
			}
		})
	}

}

func TestMPathMatch(t *testing.T) {

	var tlist = []struct {
		inpath   string
		pattern  string
		consumed int
		ok       bool
	}{
		{"/", "/", 1, true},
		{"/somewhere", "/", 0, false},
		{"/somewhere/here", "/somewhere", 0, false},
		{"/somewhere", "/somewhere", 1, true},
		{"/somewhere/1", "/somewhere/:id", 2, true},
		{"/somewhere/1/2", "/somewhere/:id", 0, false},
		{"/somewhere", "/somewhere/:id", 0, false},
		{"/somewhere/1/2", "/somewhere/*", 1, true},
		{"/", "/:id", 0, false},
		{"/bad/%zz", "/bad/:id", 0, false},
	}

	for _, ti := range tlist {
		t.Run(ti.pattern+" "+ti.inpath, func(t *testing.T) {
			mp, err := parseMpath(ti.pattern)
			if err != nil {
				t.Fatal(err)
			}
			_, consumed, ok := mp.match(segmentize(ti.inpath))
			if ok != ti.ok {
				t.Errorf("expected ok %#v, got %#v", ti.ok, ok)
			}
			if consumed != ti.consumed {
				t.Errorf("expected consumed %#v, got %#v", ti.consumed, consumed)
			}
		})
	}

}

func TestMPathMergeMissing(t *testing.T) {
	mp, err := parseMpath("/users/:id/*")
	if err != nil {
		t.Fatal(err)
	}
	p, err := mp.merge(Params{})
	if !errors.Is(err, ErrMissingParam) {
		t.Errorf("expected ErrMissingParam, got %v", err)
	}
	if p != "/users/_" {
		t.Errorf("expected best-effort path, got %q", p)
	}
}
