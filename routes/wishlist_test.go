package routes

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

// Unique-index violations from the insert race map to the same
// duplicate outcome as the pre-check.
func TestIsDuplicateEntry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"translated duplicate key", gorm.ErrDuplicatedKey, true},
		{"wrapped duplicate key", fmt.Errorf("create wishlist entry: %w", gorm.ErrDuplicatedKey), true},
		{"other gorm error", gorm.ErrRecordNotFound, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, c := range cases {
		if got := isDuplicateEntry(c.err); got != c.want {
			t.Errorf("%s: isDuplicateEntry = %v, want %v", c.name, got, c.want)
		}
	}
}
