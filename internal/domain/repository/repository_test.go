package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOptionsNormalize(t *testing.T) {
	assert.Equal(t, ListOptions{Limit: 20}, ListOptions{}.Normalize(20, 100))
	assert.Equal(t, ListOptions{Limit: 100, Offset: 5, Tool: "Stripe"}, ListOptions{Limit: 500, Offset: 5, Tool: "Stripe"}.Normalize(20, 100))
	assert.Equal(t, ListOptions{Limit: 7}, ListOptions{Limit: 7, Offset: -3}.Normalize(20, 100))
	assert.Equal(t, ListOptions{Limit: 20}, ListOptions{}.Normalize(0, 0))
}
