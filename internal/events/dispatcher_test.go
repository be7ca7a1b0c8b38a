package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(EventGrievanceSubmitted, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.TicketID)
		return errors.New("boom")
	})
	d.Subscribe(EventGrievanceSubmitted, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventGrievancesPurged, func(context.Context, Event) error {
		seen = append(seen, "purged")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGrievanceSubmitted, TicketID: "GRV-1"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:GRV-1", "second:GRV-1"}, seen)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventGrievanceStatusChanged}))
}
