package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// received drains whatever is buffered on s without blocking.
func received(s *Subscription) []Change {
	var out []Change
	for {
		select {
		case c, ok := <-s.C():
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

func TestPublishDelivery(t *testing.T) {
	tests := []struct {
		name        string
		subscribed  string
		descendants bool
		published   string
		want        bool
	}{
		{"same item", types.ItemURI(1), false, types.ItemURI(1), true},
		{"same collection", types.CollectionURI, false, types.CollectionURI, true},
		{"item change to collection observer without descendants", types.CollectionURI, false, types.ItemURI(1), false},
		{"item change to collection observer with descendants", types.CollectionURI, true, types.ItemURI(1), true},
		{"collection change reaches item observer", types.ItemURI(1), false, types.CollectionURI, true},
		{"sibling item", types.ItemURI(1), true, types.ItemURI(2), false},
		{"unrelated authority", "content://other/productions", true, types.ItemURI(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			s := n.Subscribe(tt.subscribed, tt.descendants)
			defer s.Close()

			n.Publish(tt.published, OpUpdate)

			got := received(s)
			if !tt.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.published, got[0].URI)
			assert.Equal(t, OpUpdate, got[0].Op)
		})
	}
}

func TestPublishStampsTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := New()
	n.now = func() time.Time { return at }
	s := n.Subscribe(types.CollectionURI, false)
	defer s.Close()

	n.Publish(types.CollectionURI, OpInsert)
	got := received(s)
	require.Len(t, got, 1)
	assert.Equal(t, at, got[0].At)
}

func TestPublishNeverBlocks(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	n := New(WithBuffer(2), WithLogger(zap.New(core)))
	s := n.Subscribe(types.CollectionURI, true)
	defer s.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			n.Publish(types.ItemURI(int64(i)), OpDelete)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	assert.Len(t, received(s), 2)
	assert.Equal(t, int64(3), s.Dropped())
	assert.Equal(t, 3, logs.FilterMessage("change dropped, subscriber buffer full").Len())
}

func TestSubscriptionClose(t *testing.T) {
	n := New()
	a := n.Subscribe(types.CollectionURI, false)
	b := n.Subscribe(types.CollectionURI, false)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, n.Len())

	a.Close()
	a.Close()
	assert.Equal(t, 1, n.Len())

	_, open := <-a.C()
	assert.False(t, open, "channel is closed")

	// Publishing after a close reaches only the live subscription.
	n.Publish(types.CollectionURI, OpInsert)
	assert.Len(t, received(b), 1)
	b.Close()
	assert.Zero(t, n.Len())
}

func TestWithBufferIgnoresNonPositive(t *testing.T) {
	n := New(WithBuffer(0))
	s := n.Subscribe(types.CollectionURI, false)
	defer s.Close()
	assert.Equal(t, DefaultBuffer, cap(s.c))
}
