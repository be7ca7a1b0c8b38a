package triage

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	ticketPrefix       = "GRV"
	ticketTimeLayout   = "20060102150405"
	ticketSuffixMin    = 1000
	ticketSuffixSpread = 9000
)

// TicketMinter produces GRV-<YYYYMMDDHHMMSS>-<NNNN> identifiers. They are
// unique only with high probability; the store rejects collisions.
type TicketMinter struct {
	now    func() time.Time
	suffix func() int
}

// NewTicketMinter returns a minter on the wall clock and a random suffix.
func NewTicketMinter() *TicketMinter {
	return &TicketMinter{
		now:    time.Now,
		suffix: func() int { return ticketSuffixMin + rand.IntN(ticketSuffixSpread) },
	}
}

// NewTicketMinterWith is used where the clock or suffix must be controlled.
func NewTicketMinterWith(now func() time.Time, suffix func() int) *TicketMinter {
	m := NewTicketMinter()
	if now != nil {
		m.now = now
	}
	if suffix != nil {
		m.suffix = suffix
	}
	return m
}

// Mint returns a fresh ticket identifier.
func (m *TicketMinter) Mint() string {
	return fmt.Sprintf("%s-%s-%04d", ticketPrefix, m.now().Format(ticketTimeLayout), m.suffix())
}
