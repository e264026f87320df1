package application

import (
	"strings"

	"github.com/google/uuid"
)

const orderIDPrefix = "ord"

// NewOrderID returns "ord" followed by the first eight hex characters of a random UUID.
func NewOrderID() string {
	return orderIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
