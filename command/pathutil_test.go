package command

import "testing"

func TestToAbs(t *testing.T) {
	cases := []struct {
		wd, path, want string
	}{
		{"/", "foo", "/foo"},
		{"/a/b", "foo", "/a/b/foo"},
		{"/a/b", "/foo", "/foo"},
		{"/a/b", "..", "/a"},
		{"/a/b", "../..", "/"},
		{"/a/b", "../../../..", "/"},
		{"/a/b", ".", "/a/b"},
		{"/a/b", "./c/../d", "/a/b/d"},
		{"/", "", "/"},
	}
	for _, c := range cases {
		got := toAbs(c.wd, c.path)
		if got != c.want {
			t.Fatalf("toAbs(%q, %q) = %q, want %q", c.wd, c.path, got, c.want)
		}
	}
}

func TestSplitParent(t *testing.T) {
	cases := []struct {
		path, wantParent, wantName string
	}{
		{"/", "/", ""},
		{"/foo", "/", "foo"},
		{"/a/b/c", "/a/b", "c"},
	}
	for _, c := range cases {
		parent, name := splitParent(c.path)
		if parent != c.wantParent || name != c.wantName {
			t.Fatalf("splitParent(%q) = (%q, %q), want (%q, %q)", c.path, parent, name, c.wantParent, c.wantName)
		}
	}
}

func TestCleanSlashes(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"/a/b":    "/a/b",
		"/a//b/":  "/a/b",
		"///":     "/",
	}
	for in, want := range cases {
		if got := cleanSlashes(in); got != want {
			t.Fatalf("cleanSlashes(%q) = %q, want %q", in, got, want)
		}
	}
}
