package note

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

func TestTags(t *testing.T) {
	raw := "---\ntags:\n- my_tag\n---\nSameData #super_tag ##no_tag and #warning_tag! #two-tag #kek;d #dfds# #all, #татар #d😭"
	n, err := NewEager(raw, codec())
	if err != nil {
		t.Fatal(err)
	}
	tags, err := Tags(n)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"my_tag", "super_tag", "warning_tag", "two-tag", "kek", "dfds", "all", "татар", "d😭"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %q, want %q", tags, want)
	}
}

func TestTags_InlineOnly(t *testing.T) {
	n, err := NewEager("No frontmatter here, just #one tag", codec())
	if err != nil {
		t.Fatal(err)
	}
	tags, err := Tags(n)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tags, []string{"one"}) {
		t.Errorf("tags = %q", tags)
	}
}

func TestTags_FieldNotAList(t *testing.T) {
	n, err := NewEager("---\ntags: scalar\n---\nBody", codec())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Tags(n); err == nil {
		t.Fatal("expected error for scalar tags field")
	} else {
		var decodeErr *apperr.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("error = %v, want DecodeError", err)
		}
	}
}

func TestAliases(t *testing.T) {
	n, err := NewEager("---\naliases:\n- my_alias\n---\nSameData", codec())
	if err != nil {
		t.Fatal(err)
	}
	aliases, err := Aliases(n)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(aliases, []string{"my_alias"}) {
		t.Errorf("aliases = %q", aliases)
	}
}

func TestAliases_Absent(t *testing.T) {
	for _, raw := range []string{"---\ntags:\n- todo\n---\nSameData", "SameData"} {
		n, err := NewEager(raw, codec())
		if err != nil {
			t.Fatal(err)
		}
		aliases, err := Aliases(n)
		if err != nil {
			t.Fatal(err)
		}
		if len(aliases) != 0 {
			t.Errorf("aliases = %q, want none", aliases)
		}
	}
}

func TestIsTodo(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"---\ntags:\n- todo\n---\nSameData todo", true},
		{"---\ntags:\n- not_todo\n---\nSameData", false},
		{"Inline #todo marker", true},
		{"Nothing to do", false},
	}
	for _, tc := range cases {
		n, err := NewEager(tc.raw, codec())
		if err != nil {
			t.Fatal(err)
		}
		got, err := IsTodo(n)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("IsTodo(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
