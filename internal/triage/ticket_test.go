package triage

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ticketPattern = regexp.MustCompile(`^GRV-\d{14}-\d{4}$`)

func TestTicketMinterFormat(t *testing.T) {
	m := NewTicketMinter()
	for i := 0; i < 200; i++ {
		id := m.Mint()
		assert.Regexp(t, ticketPattern, id)
		var suffix int
		_, err := fmt.Sscan(id[len(id)-4:], &suffix)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, suffix, 1000)
		assert.LessOrEqual(t, suffix, 9999)
	}
}

func TestTicketMinterDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	m := NewTicketMinterWith(func() time.Time { return at }, func() int { return 4242 })

	assert.Equal(t, "GRV-20260314092653-4242", m.Mint())
}
