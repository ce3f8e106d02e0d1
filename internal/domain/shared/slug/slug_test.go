package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("baan-sabai-pool-villa"))
	assert.NoError(t, Validate("พูลวิลล่า-หัวหิน"))

	for _, bad := range []string{"", "a b", "a/b", "x?y", "tab\there", strings.Repeat("a", 201)} {
		assert.ErrorIs(t, Validate(bad), ErrInvalid, bad)
	}
}
