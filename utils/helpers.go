package utils

import (
	"math/rand"
)

func generateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))] //nolint:gosec
	}
	return string(b)
}

// GenerateTraceID returns a random id used to correlate the logs of one request.
func GenerateTraceID() string {
	return generateRandomString(traceIDLen)
}
