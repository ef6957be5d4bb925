package routing

import (
	"slices"
	"strings"
	"testing"
)

func TestAliasCandidatesMostSpecificFirst(t *testing.T) {
	got := AliasCandidates([]string{"news", "archive", "2024"})
	want := []string{"news/archive/2024", "news/archive", "news"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAliasCandidatesFilterIllegalCharacters(t *testing.T) {
	got := AliasCandidates([]string{"über-uns", "a b", "c"})
	if !slices.Equal(got, []string{"über-uns"}) {
		t.Fatalf("expected only the legal prefix, got %v", got)
	}
	if got := AliasCandidates([]string{"?x"}); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
	if got := AliasCandidates(nil); len(got) != 0 {
		t.Fatalf("expected no candidates for empty input, got %v", got)
	}
}

func TestAliasCandidatesStrictlyDecreasing(t *testing.T) {
	inputs := [][]string{
		{"a", "b", "c", "d"},
		{"de", "a.b", "c_d", "%"},
		{"1", "2"},
	}
	for _, input := range inputs {
		got := AliasCandidates(input)
		for i := 1; i < len(got); i++ {
			if strings.Count(got[i-1], "/") <= strings.Count(got[i], "/") {
				t.Fatalf("candidates not strictly decreasing: %v", got)
			}
		}
		for _, candidate := range got {
			if !aliasCharset.MatchString(candidate) {
				t.Fatalf("candidate %q outside alias charset", candidate)
			}
		}
	}
}
