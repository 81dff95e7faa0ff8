package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/enginewatch/internal/domain"
)

func TestStore_StartsInitializing(t *testing.T) {
	s := NewStore(nil)
	snap := s.Read()

	assert.False(t, snap.IsRunning)
	assert.Equal(t, domain.InitializingMessage, snap.ErrorText())
	assert.Nil(t, snap.EngineVersion)
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Mutate(func(snap *domain.StatusSnapshot) bool {
		snap.CompanionVersion = domain.Ptr("4.30.0")
		return true
	})

	first := s.Read()
	*first.CompanionVersion = "mutated"

	assert.Equal(t, "4.30.0", *s.Read().CompanionVersion)
}

func TestStore_MutatePublishesOnlyOnChange(t *testing.T) {
	b := NewBroadcaster(8)
	sub := b.Subscribe()
	s := NewStore(b)

	committed, changed := s.Mutate(func(snap *domain.StatusSnapshot) bool {
		snap.MarkHealthy(time.Unix(100, 0))
		return true
	})
	require.True(t, changed)
	assert.True(t, committed.Healthy())

	_, changed = s.Mutate(func(snap *domain.StatusSnapshot) bool {
		return false
	})
	assert.False(t, changed)

	assert.Equal(t, uint64(1), b.Published())
	got := <-sub.C
	assert.True(t, got.Healthy())
	assert.Len(t, sub.C, 0)
}

func TestStore_PublishOrderMatchesCommitOrder(t *testing.T) {
	b := NewBroadcaster(64)
	sub := b.Subscribe()
	s := NewStore(b)

	for i := int32(0); i < 20; i++ {
		n := i
		s.Mutate(func(snap *domain.StatusSnapshot) bool {
			snap.ResourceCount = domain.Ptr(n)
			return true
		})
	}

	for i := int32(0); i < 20; i++ {
		got := <-sub.C
		require.Equal(t, i, *got.ResourceCount)
	}
}

func TestStore_RetryCountSaturates(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, uint32(1), s.incrementRetries())
	assert.Equal(t, uint32(2), s.incrementRetries())

	s.st.retryCount = ^uint32(0)
	assert.Equal(t, ^uint32(0), s.incrementRetries())
}

func TestStore_UpdateCheckDue(t *testing.T) {
	s := NewStore(nil)
	now := time.Now()

	assert.True(t, s.updateCheckDue(time.Hour, now), "never checked")

	s.st.lastUpdateCheck = now.Add(-10 * time.Minute)
	assert.False(t, s.updateCheckDue(time.Hour, now))

	s.st.lastUpdateCheck = now.Add(-2 * time.Hour)
	assert.True(t, s.updateCheckDue(time.Hour, now))
}
