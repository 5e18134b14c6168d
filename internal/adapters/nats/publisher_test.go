package natsadapter

import (
	"testing"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

func TestPerimeterSubject(t *testing.T) {
	cases := map[string]string{
		domain.SourceIDs:         "geo.perimeter.ids",
		domain.SourceCoordinates: "geo.perimeter.coordinates",
	}
	for source, want := range cases {
		if got := PerimeterSubject(source); got != want {
			t.Errorf("PerimeterSubject(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestPerimeterSubjectsMatchStream(t *testing.T) {
	// Every published subject must be captured by the stream wildcard.
	for _, source := range []string{domain.SourceIDs, domain.SourceCoordinates} {
		subj := PerimeterSubject(source)
		if !subjectMatches(SubjectPerimeterAll, subj) {
			t.Errorf("subject %q not matched by %q", subj, SubjectPerimeterAll)
		}
	}
}

func subjectMatches(pattern, subject string) bool {
	n := len(pattern) - 1
	return pattern[n] == '>' && len(subject) > n && subject[:n] == pattern[:n]
}
