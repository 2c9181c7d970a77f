package natsadapter

import (
	"testing"

	"github.com/samirrijal/polymap/internal/core/domain"
)

func TestChangeSubject(t *testing.T) {
	tests := []struct {
		change domain.Change
		want   string
	}{
		{domain.Change{Entity: domain.EntityPolygon, Action: domain.ActionCreated}, "polymap.changes.polygon.created"},
		{domain.Change{Entity: domain.EntityObject, Action: domain.ActionDeleted}, "polymap.changes.object.deleted"},
	}
	for _, tt := range tests {
		got := ChangeSubject(tt.change)
		if got != tt.want {
			t.Errorf("ChangeSubject(%+v) = %q, want %q", tt.change, got, tt.want)
		}
		if !subjectMatches(SubjectChanges, got) {
			t.Errorf("%q is not covered by the stream subject %q", got, SubjectChanges)
		}
	}
}

// subjectMatches handles the trailing ">" wildcard only.
func subjectMatches(pattern, subject string) bool {
	prefix := pattern[:len(pattern)-1]
	return len(subject) > len(prefix) && subject[:len(prefix)] == prefix
}
