package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/period"
)

// ComputeRequestToken computes a deterministic token identifying one comparison request.
// Formula: SHA256(kind|id|selector|currentStart|currentEnd|previousStart|previousEnd)
// Returns base58-encoded hash. Not-ready windows contribute empty bounds.
func ComputeRequestToken(
	subject domain.Subject,
	sel period.Selector,
	current period.Window,
	previous period.Window,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		subject.Kind,
		subject.ID,
		sel.String(),
		bound(current, true),
		bound(current, false),
		bound(previous, true),
		bound(previous, false),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

func bound(w period.Window, start bool) string {
	if !w.Ready {
		return ""
	}
	if start {
		return w.Start.String()
	}
	return w.End.String()
}
