package roles

import (
	"fmt"
	"testing"
	"time"

	"github.com/pulseplan/backend/models"
	"github.com/stretchr/testify/assert"
)

func TestRoleCache_GetSet(t *testing.T) {
	cache := NewRoleCache(10, time.Minute)

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := cache.Get("subject-1")
		assert.False(t, ok)
	})

	t.Run("hit after set", func(t *testing.T) {
		cache.Set("subject-1", models.RoleConsultant)

		role, ok := cache.Get("subject-1")
		assert.True(t, ok)
		assert.Equal(t, models.RoleConsultant, role)
	})

	t.Run("set overwrites", func(t *testing.T) {
		cache.Set("subject-1", models.RoleAgency)

		role, ok := cache.Get("subject-1")
		assert.True(t, ok)
		assert.Equal(t, models.RoleAgency, role)
	})
}

func TestRoleCache_TTL(t *testing.T) {
	cache := NewRoleCache(10, 10*time.Millisecond)

	cache.Set("subject-1", models.RoleClient)
	_, ok := cache.Get("subject-1")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = cache.Get("subject-1")
	assert.False(t, ok, "expired entry must miss")
}

func TestRoleCache_LRUEviction(t *testing.T) {
	cache := NewRoleCache(3, time.Minute)

	cache.Set("subject-1", models.RoleConsultant)
	cache.Set("subject-2", models.RoleAgency)
	cache.Set("subject-3", models.RoleClient)

	// touch subject-1 so subject-2 becomes least recently used
	_, ok := cache.Get("subject-1")
	assert.True(t, ok)

	cache.Set("subject-4", models.RoleClient)

	_, ok = cache.Get("subject-2")
	assert.False(t, ok, "least recently used entry must be evicted")

	_, ok = cache.Get("subject-1")
	assert.True(t, ok)
	_, ok = cache.Get("subject-4")
	assert.True(t, ok)
}

func TestRoleCache_Invalidate(t *testing.T) {
	cache := NewRoleCache(10, time.Minute)

	cache.Set("subject-1", models.RoleConsultant)
	cache.Invalidate("subject-1")

	_, ok := cache.Get("subject-1")
	assert.False(t, ok)
}

func TestRoleCache_Clear(t *testing.T) {
	cache := NewRoleCache(10, time.Minute)

	cache.Set("subject-1", models.RoleConsultant)
	cache.Set("subject-2", models.RoleAgency)
	cache.Clear()

	assert.Equal(t, 0, cache.Stats().Size)
	_, ok := cache.Get("subject-1")
	assert.False(t, ok)
}

func TestRoleCache_CleanupExpired(t *testing.T) {
	cache := NewRoleCache(10, 10*time.Millisecond)

	cache.Set("subject-1", models.RoleConsultant)
	cache.Set("subject-2", models.RoleAgency)

	time.Sleep(20 * time.Millisecond)
	cache.Set("subject-3", models.RoleClient)

	removed := cache.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Stats().Size)
}

func TestRoleCache_CleanupWorker(t *testing.T) {
	cache := NewRoleCache(10, 10*time.Millisecond)
	cache.Set("subject-1", models.RoleConsultant)

	stopCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		cache.StartCleanupWorker(5*time.Millisecond, stopCh)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return cache.Stats().Size == 0
	}, time.Second, 5*time.Millisecond)

	close(stopCh)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup worker did not stop")
	}
}

func TestRoleCache_Stats(t *testing.T) {
	cache := NewRoleCache(10, time.Minute)

	cache.Set("subject-1", models.RoleConsultant)
	cache.Get("subject-1")
	cache.Get("subject-1")
	cache.Get("missing")

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 0.001)
}

func TestRoleCache_ConcurrentAccess(t *testing.T) {
	cache := NewRoleCache(100, time.Minute)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				subjectID := fmt.Sprintf("subject-%d", j%20)
				cache.Set(subjectID, models.RoleAgency)
				cache.Get(subjectID)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.LessOrEqual(t, cache.Stats().Size, 20)
}
