package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))

	ctx = WithRequestID(ctx, "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
}
