package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

var (
	// Counter for sequential IDs
	idCounter uint64
)

// maxRunIDLength bounds caller-supplied run IDs
const maxRunIDLength = 128

// GenerateRunID generates a run ID with a timestamp prefix.
// The process-wide counter keeps IDs unique within a process.
func GenerateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	count := atomic.AddUint64(&idCounter, 1)
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("run-%s-%x", timestamp, count)
	}
	return fmt.Sprintf("run-%s-%s%x", timestamp, hex.EncodeToString(b), count)
}

// ValidateRunID checks a caller-supplied run ID.
// IDs end up in URL paths, so slashes, colons and whitespace are rejected.
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if len(id) > maxRunIDLength {
		return fmt.Errorf("run id cannot be longer than %d characters", maxRunIDLength)
	}
	if strings.ContainsAny(id, "/: \t\r\n") {
		return fmt.Errorf("run id cannot contain '/', ':' or whitespace: %q", id)
	}
	return nil
}
