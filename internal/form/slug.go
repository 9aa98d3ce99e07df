package form

import (
	"context"
	"math/rand"
)

const (
	slugAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	slugLength         = 12
	slugMaxAttempts    = 10
	slugFallbackLength = 16
)

func randomSlug(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return string(b)
}

// UniqueSlug generates a 12-character slug, retrying on collision up to 10
// times before falling back to a 16-character one. The fallback is returned
// unchecked; at that length a collision is not a practical concern.
func UniqueSlug(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < slugMaxAttempts; i++ {
		slug := randomSlug(slugLength)
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return randomSlug(slugFallbackLength), nil
}
