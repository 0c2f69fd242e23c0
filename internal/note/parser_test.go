package note

import (
	"errors"
	"slices"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

func TestSplit_WithMetadata(t *testing.T) {
	res, err := Split("---\nproperties data\n---\ntest data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasMetadata {
		t.Fatal("expected metadata")
	}
	if res.MetadataText != "properties data" {
		t.Errorf("metadata = %q", res.MetadataText)
	}
	if res.Content != "test data" {
		t.Errorf("content = %q", res.Content)
	}
}

func TestSplit_WithoutMetadata(t *testing.T) {
	for _, raw := range []string{
		"test_data",
		"test_data---",
		"test_data\n---\n",
		"---properties data",
	} {
		res, err := Split(raw)
		if err != nil {
			t.Fatalf("Split(%q): %v", raw, err)
		}
		if res.HasMetadata {
			t.Errorf("Split(%q): unexpected metadata", raw)
		}
		if res.Content != raw {
			t.Errorf("Split(%q): content = %q, want input verbatim", raw, res.Content)
		}
	}
}

func TestSplit_LeadingWhitespaceDisqualifies(t *testing.T) {
	raw := "  ---\ntest: test-data\n---\n"
	res, err := Split(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasMetadata {
		t.Error("leading whitespace before the fence must not open a block")
	}
	if res.Content != raw {
		t.Errorf("content = %q, want input verbatim", res.Content)
	}
}

func TestSplit_ThirdFencePreserved(t *testing.T) {
	res, err := Split("---\ntopic: life\ncreated: 2025-03-16\n---\nTest data\n---\nTwo test data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MetadataText != "topic: life\ncreated: 2025-03-16" {
		t.Errorf("metadata = %q", res.MetadataText)
	}
	if res.Content != "Test data\n---\nTwo test data" {
		t.Errorf("content = %q", res.Content)
	}
}

func TestSplit_Unterminated(t *testing.T) {
	_, err := Split("---\nproperties data\ntest data")
	if !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestSplit_FenceWithTrailingWhitespace(t *testing.T) {
	res, err := Split("---\r\nproperties data\r\n---\r   \ntest data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MetadataText != "properties data" || res.Content != "test data" {
		t.Errorf("got (%q, %q)", res.MetadataText, res.Content)
	}
}

func TestSplit_MidLineClosingFence(t *testing.T) {
	// The closing fence is a plain substring match, so a fence embedded
	// mid-line closes the block. Pinned deliberately.
	res, err := Split("---\nkey: a---b\ncontent here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasMetadata || res.MetadataText != "key: a" {
		t.Errorf("metadata = %q", res.MetadataText)
	}
	if res.Content != "b\ncontent here" {
		t.Errorf("content = %q", res.Content)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	raw := "---\ntopic: life\ncreated: 2025-03-16\n---\nTest data\n---\nTwo test data"
	first, err := Split(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rebuilt := Fence + "\n" + first.MetadataText + "\n" + Fence + "\n" + first.Content
	second, err := Split(rebuilt)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if second.MetadataText != first.MetadataText || second.Content != first.Content {
		t.Errorf("round trip diverged: (%q, %q) != (%q, %q)",
			second.MetadataText, second.Content, first.MetadataText, first.Content)
	}
}

func TestLinks_AllFormsReduceToTarget(t *testing.T) {
	content := "[[Note]] [[Note|Alias]] [[Note^block]] [[Note#Heading|Alias]] [[Note^block|Alias]]"
	targets := slices.Collect(Links(content))
	if len(targets) != 5 {
		t.Fatalf("len = %d, want 5: %v", len(targets), targets)
	}
	for _, target := range targets {
		if target != "Note" {
			t.Errorf("target = %q, want %q", target, "Note")
		}
	}
}

func TestLinks_MalformedSkipped(t *testing.T) {
	targets := slices.Collect(Links("before [[open and no close"))
	if len(targets) != 0 {
		t.Errorf("targets = %v, want none", targets)
	}
}

func TestLinks_PathTargetsAndWhitespace(t *testing.T) {
	targets := slices.Collect(Links("a [[data/main|main]] b [[ spaced ]]"))
	want := []string{"data/main", "spaced"}
	if !slices.Equal(targets, want) {
		t.Errorf("targets = %v, want %v", targets, want)
	}
}

func TestLinks_Restartable(t *testing.T) {
	seq := Links("[[a]] [[b]]")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass %v differs from first %v", second, first)
	}
}
