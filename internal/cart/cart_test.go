package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_SameReferenceIncrementsQuantity(t *testing.T) {
	c := New()

	c.Add("svc-1", KindService, 1, "Bridal bouquet", 120)
	c.Add("svc-1", KindService, 1, "Bridal bouquet", 120)

	items := c.Items()
	require.Len(t, items, 1, "duplicate reference must not append a second entry")
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, c.ItemCount())
}

func TestAdd_SameReferenceDifferentKindIsDistinct(t *testing.T) {
	c := New()

	c.Add("x-1", KindService, 1, "Solo shoot", 300)
	c.Add("x-1", KindPackage, 1, "Full-day bundle", 900)

	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 2, c.ItemCount())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := New()

	c.Add("a", KindService, 1, "", 0)
	c.Add("b", KindPackage, 1, "", 0)
	c.Add("a", KindService, 3, "", 0)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ReferenceID)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, "b", items[1].ReferenceID)
}

func TestAdd_ClampsQuantityToOne(t *testing.T) {
	c := New()

	c.Add("a", KindService, 0, "", 0)
	c.Add("b", KindService, -5, "", 0)

	assert.Equal(t, 2, c.ItemCount())
}

func TestRemove_DeletesEntryRegardlessOfQuantity(t *testing.T) {
	c := New()
	c.Add("svc-1", KindService, 1, "", 0)
	c.Add("svc-1", KindService, 1, "", 0)

	c.Remove("svc-1", KindService)

	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.ItemCount())
}

func TestRemove_AbsentEntryIsNoop(t *testing.T) {
	c := New()
	c.Add("svc-1", KindService, 1, "", 0)

	c.Remove("svc-9", KindService)
	c.Remove("svc-1", KindPackage)

	assert.Equal(t, 1, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add("svc-1", KindService, 2, "", 10)
	c.Add("pkg-1", KindPackage, 1, "", 500)

	c.Clear()

	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.ItemCount())
	assert.Zero(t, c.Total())
}

func TestTotal(t *testing.T) {
	c := New()
	c.Add("svc-1", KindService, 2, "", 100)
	c.Add("pkg-1", KindPackage, 1, "", 500)

	assert.InDelta(t, 700, c.Total(), 0.001)
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	c.Add("svc-1", KindService, 1, "", 0)

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.ItemCount(), "mutating the returned slice must not touch the cart")
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add("svc-1", KindService, 1, "", 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.ItemCount())
	assert.Len(t, c.Items(), 1)
}

func TestManager_SessionScoping(t *testing.T) {
	m := NewManager(time.Hour)

	m.For("sid-a").Add("svc-1", KindService, 1, "", 0)

	assert.Equal(t, 1, m.For("sid-a").ItemCount())
	assert.Equal(t, 0, m.For("sid-b").ItemCount(), "carts must be isolated per session")

	m.Drop("sid-a")
	assert.Equal(t, 0, m.For("sid-a").ItemCount(), "dropped cart must come back empty")
}
