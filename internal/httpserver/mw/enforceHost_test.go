package mw

import "testing"

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{host: "docs.example.com", pattern: "docs.example.com", want: true},
		{host: "docs.example.com", pattern: "*.example.com", want: true},
		{host: "example.com", pattern: "*.example.com", want: false},
		{host: "docs.example.org", pattern: "*.example.com", want: false},
	}

	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}
