package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyInfo describes the backend access key.
type KeyInfo struct {
	// JWT is false for opaque keys, which carry no claims.
	JWT       bool
	Role      string
	ExpiresAt *time.Time
}

// InspectKey reads the claims of a JWT access key without verifying its
// signature. A token that cannot be parsed, or that expired before now,
// is an error. Keys that are not JWTs are accepted as opaque.
func InspectKey(key string, now time.Time) (KeyInfo, error) {
	if strings.Count(key, ".") != 2 {
		return KeyInfo{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, fmt.Errorf("malformed access key: %w", err)
	}

	info := KeyInfo{JWT: true}
	info.Role, _ = claims["role"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return KeyInfo{}, fmt.Errorf("malformed access key: %w", err)
	}

	if exp != nil {
		info.ExpiresAt = new(exp.Time)

		if exp.Before(now) {
			return KeyInfo{}, fmt.Errorf("access key expired at %s", exp.Format(time.RFC3339))
		}
	}

	return info, nil
}
