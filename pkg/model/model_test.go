package model

import "testing"

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{"npm", SourceNPM, false},
		{" GitHub ", SourceGitHub, false},
		{"packagist", SourcePackagist, false},
		{"medium", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSource(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthorHasPublication(t *testing.T) {
	a := &Author{
		Email:        "dev@pkg.io",
		Publications: []Publication{{Name: "left-pad", Source: SourceNPM}},
	}

	if !a.HasPublication("left-pad") {
		t.Error("expected left-pad to be recorded")
	}
	if a.HasPublication("right-pad") {
		t.Error("right-pad should not be recorded")
	}

	// Same name from another registry counts as recorded.
	a.Publications = []Publication{{Name: "acme/tool", Source: SourceGitHub}}
	if !a.HasPublication("acme/tool") {
		t.Error("name match should ignore source")
	}
}
