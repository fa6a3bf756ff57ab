package titles

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		filters []string
		want    bool
	}{
		{
			name:    "exact abbreviation",
			title:   "CEO",
			filters: []string{"ceo"},
			want:    true,
		},
		{
			name:    "alias phrase",
			title:   "Chief Executive Officer",
			filters: []string{"ceo"},
			want:    true,
		},
		{
			name:    "vp expands to vice president",
			title:   "Senior Vice President of Sales",
			filters: []string{"vp"},
			want:    true,
		},
		{
			name:    "svp counts as vp",
			title:   "SVP, Corporate Development",
			filters: []string{"vp"},
			want:    true,
		},
		{
			name:    "substring inside longer title",
			title:   "Co-Founder and Managing Partner",
			filters: []string{"founder"},
			want:    true,
		},
		{
			name:    "any filter may match",
			title:   "Chief Financial Officer",
			filters: []string{"ceo", "cfo"},
			want:    true,
		},
		{
			name:    "no match",
			title:   "Staff Accountant",
			filters: []string{"ceo", "cfo"},
			want:    false,
		},
		{
			name:    "unknown filter used as raw substring",
			title:   "Head of Corporate Development",
			filters: []string{"corporate development"},
			want:    true,
		},
		{
			name:    "empty title",
			title:   "",
			filters: []string{"ceo"},
			want:    false,
		},
		{
			name:    "empty filters",
			title:   "CEO",
			filters: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.title, tt.filters); got != tt.want {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.title, tt.filters, got, tt.want)
			}
		})
	}
}

func TestMatchesWithCustomAliases(t *testing.T) {
	aliases := map[string][]string{
		"ops": {"operations", "coo"},
	}
	if !MatchesWith(aliases, "VP of Operations", []string{"ops"}) {
		t.Error("custom alias table should match operations title")
	}
	if MatchesWith(aliases, "Chief Executive Officer", []string{"ops"}) {
		t.Error("custom alias table should not match unrelated title")
	}
}

func TestTiers(t *testing.T) {
	tests := []struct {
		title      string
		top        bool
		secondTier bool
	}{
		{"CEO", true, false},
		{"Chief Executive Officer", true, false},
		{"Owner & President", true, false},
		{"Managing Partner", true, false},
		{"VP of Finance", false, true},
		{"Director of Operations", false, true},
		{"General Manager", false, true},
		{"Staff Engineer", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := IsTopTier(tt.title); got != tt.top {
				t.Errorf("IsTopTier(%q) = %v, want %v", tt.title, got, tt.top)
			}
			if tt.top {
				return // tier checks are applied top-first by callers
			}
			if got := IsSecondTier(tt.title); got != tt.secondTier {
				t.Errorf("IsSecondTier(%q) = %v, want %v", tt.title, got, tt.secondTier)
			}
		})
	}
}

func TestLooksLikeRole(t *testing.T) {
	if !LooksLikeRole("President and CEO") {
		t.Error("expected role keywords to be detected")
	}
	if LooksLikeRole("Acme Industrial Supply") {
		t.Error("company name should not look like a role")
	}
}
