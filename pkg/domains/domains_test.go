package domains

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    []string
	}{
		{
			name:    "multi word with legal suffix",
			company: "Acme Industrial Holdings LLC",
			want:    []string{"acmeindustrial.com", "acme-industrial.com", "acme.com"},
		},
		{
			name:    "single word",
			company: "Initech",
			want:    []string{"initech.com"},
		},
		{
			name:    "punctuation stripped",
			company: "Smith & Sons, Inc.",
			want:    []string{"smithsons.com", "smith-sons.com", "smith.com"},
		},
		{
			name:    "stacked suffixes",
			company: "Apex Group Holdings",
			want:    []string{"apex.com"},
		},
		{
			name:    "suffix only name is kept",
			company: "Group",
			want:    []string{"group.com"},
		},
		{
			name:    "empty",
			company: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Candidates(tt.company)); diff != "" {
				t.Errorf("Candidates(%q) mismatch (-want +got):\n%s", tt.company, diff)
			}
		})
	}
}

func TestInfer(t *testing.T) {
	if got := Infer("Acme Industrial Holdings"); got != "acmeindustrial.com" {
		t.Errorf("Infer = %q, want acmeindustrial.com", got)
	}
	if got := Infer(""); got != "" {
		t.Errorf("Infer(\"\") = %q, want empty", got)
	}
}
