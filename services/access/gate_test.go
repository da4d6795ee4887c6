package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	keys := NewStaticKeys("alpha", "Beta")

	tests := []struct {
		name      string
		keys      KeySet
		presented string
		want      bool
	}{
		{name: "member", keys: keys, presented: "alpha", want: true},
		{name: "case sensitive", keys: keys, presented: "beta", want: false},
		{name: "not a member", keys: keys, presented: "gamma", want: false},
		{name: "empty key", keys: keys, presented: "", want: false},
		{name: "nil allowlist", keys: nil, presented: "alpha", want: false},
		{name: "empty allowlist", keys: NewStaticKeys(), presented: "alpha", want: false},
		{name: "blank entries are dropped", keys: NewStaticKeys(""), presented: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.keys, tt.presented))
		})
	}
}
