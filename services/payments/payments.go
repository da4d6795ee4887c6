// Package payments models the optional payment-creation integration. The
// capability is resolved once at startup and is either available with a
// concrete Creator or unavailable.
package payments

import (
	"context"

	"github.com/upb/provider-gateway/services"
)

// Request describes a QR payment to create
type Request struct {
	// Username of the receiving account; when empty Email and Password are used to log in
	Username string
	Email    string
	Password string

	Amount   int
	Duration int // minutes
	Name     string
	Message  string
}

// Creator creates payments against an upstream platform
type Creator interface {
	CreatePayment(ctx context.Context, req Request) (interface{}, error)
}

// Capability is the startup-resolved payment integration
type Capability struct {
	creator Creator
}

// Available returns a capability backed by creator
func Available(creator Creator) Capability {
	return Capability{creator: creator}
}

// Unavailable returns a capability that always reports the missing integration
func Unavailable() Capability {
	return Capability{}
}

// IsAvailable reports whether a creator was configured
func (c Capability) IsAvailable() bool {
	return c.creator != nil
}

// CreatePayment delegates to the configured creator, or returns
// services.ErrPaymentsUnavailable.
func (c Capability) CreatePayment(ctx context.Context, req Request) (interface{}, error) {
	if c.creator == nil {
		return nil, services.ErrPaymentsUnavailable
	}
	return c.creator.CreatePayment(ctx, req)
}
