package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"Work", true},
		{"Games & Tools", true},
		{"v1.2", true},
		{"Console", true},
		{"", false},
		{"   ", false},
		{"a/b", false},
		{`a\b`, false},
		{"what?", false},
		{"star*", false},
		{"tab\there", false},
		{"trailing.", false},
		{"trailing ", false},
		{"CON", false},
		{"nul", false},
		{"com1.txt", false},
		{"LPT9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}
