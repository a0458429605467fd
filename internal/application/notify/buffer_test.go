package notify_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/notify"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
)

type collector struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (c *collector) Notify(n ports.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, n)
}

func TestBuffer_DrainVacia(t *testing.T) {
	sink := &collector{}
	b := notify.NewBuffer(sink)
	b.Notify(ports.Success("a", ""))
	b.Notify(ports.Warning("b", ""))

	got := b.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Empty(t, b.Drain())
	assert.Len(t, sink.notes, 2, "cada aviso se reenvía al sink")
}

func TestBuffer_DescartaLosMasViejos(t *testing.T) {
	b := notify.NewBuffer(nil)
	for i := range 60 {
		b.Notify(ports.Success(fmt.Sprint(i), ""))
	}
	got := b.Drain()
	require.Len(t, got, 50)
	assert.Equal(t, "10", got[0].Title)
	assert.Equal(t, "59", got[49].Title)
}

func TestBuffer_Concurrente(t *testing.T) {
	b := notify.NewBuffer(nil)
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				b.Notify(ports.Success("x", ""))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, b.Drain(), 50)
}
