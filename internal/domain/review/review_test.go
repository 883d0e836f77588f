package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestNormalize(t *testing.T) {
	r := Review{Rating: 4, Comment: "  kind and thorough "}
	assert.NoError(t, r.Normalize())
	assert.Equal(t, "kind and thorough", r.Comment)

	for _, rating := range []int{0, 6, -1} {
		r := Review{Rating: rating}
		assert.True(t, httperr.IsBusiness(r.Normalize(), "invalid_rating"))
	}
}
