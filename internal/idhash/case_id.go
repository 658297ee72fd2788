package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeCaseID computes a deterministic case identifier using SHA256.
// Formula: SHA256(kind|subject|member,member,...)
// Returns hex-encoded hash (64 characters).
//
// Members are joined in the order given; callers sort them first so the
// same finding always yields the same id across runs.
func ComputeCaseID(kind, subject string, members []string) string {
	data := fmt.Sprintf("%s|%s|%s", kind, subject, strings.Join(members, ","))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
