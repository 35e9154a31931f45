package tracking

import (
	"testing"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fix(lat float64) domain.TripLocation {
	return domain.TripLocation{TripID: "t1", Latitude: lat, Longitude: 88.36}
}

func TestPublishReachesOnlyTripSubscribers(t *testing.T) {
	r := NewRegistry(4)
	a := r.Subscribe("t1")
	b := r.Subscribe("t1")
	other := r.Subscribe("t2")

	assert.Equal(t, 2, r.Publish("t1", fix(22.57)))
	assert.Equal(t, 22.57, (<-a.Updates()).Latitude)
	assert.Equal(t, 22.57, (<-b.Updates()).Latitude)
	assert.Len(t, other.Updates(), 0)
	assert.Equal(t, 0, r.Publish("nobody", fix(1)))
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	r := NewRegistry(2)
	sub := r.Subscribe("t1")

	for i := 1; i <= 5; i++ {
		require.Equal(t, 1, r.Publish("t1", fix(float64(i))))
	}

	require.Len(t, sub.Updates(), 2)
	assert.Equal(t, 4.0, (<-sub.Updates()).Latitude)
	assert.Equal(t, 5.0, (<-sub.Updates()).Latitude)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	r := NewRegistry(0)
	sub := r.Subscribe("t1")
	assert.Equal(t, 1, r.Subscribers("t1"))

	r.Unsubscribe(sub)
	r.Unsubscribe(sub)

	_, open := <-sub.Updates()
	assert.False(t, open)
	assert.Equal(t, 0, r.Subscribers("t1"))
	assert.Equal(t, 0, r.Publish("t1", fix(1)))
}
