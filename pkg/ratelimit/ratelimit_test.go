package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 2, Burst: 2})

	assert.True(t, limiter.Allow("https://example.com/chat"))
	assert.True(t, limiter.Allow("https://example.com/chat"))
	assert.False(t, limiter.Allow("https://example.com/chat"))
}

func TestLimiter_PerEndpointBuckets(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 1})

	assert.True(t, limiter.Allow("https://a.example.com"))
	assert.False(t, limiter.Allow("https://a.example.com"))

	// A different endpoint has its own bucket.
	assert.True(t, limiter.Allow("https://b.example.com"))
}

func TestLimiter_Reset(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 1})

	assert.True(t, limiter.Allow("x"))
	assert.False(t, limiter.Allow("x"))

	limiter.Reset()
	assert.True(t, limiter.Allow("x"))
}

func TestLimiter_DefaultBurst(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("x"))
	}
	assert.False(t, limiter.Allow("x"))
}
