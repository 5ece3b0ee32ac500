package petrisim

import "github.com/google/uuid"

// ID returns a fresh identifier for generated net elements.
func ID() string {
	return uuid.NewString()
}
