package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/po-console/pkg/debounce"
)

func TestTrigger_SoloEjecutaElUltimoDeLaRafaga(t *testing.T) {
	d := debounce.New(30 * time.Millisecond)
	var mu sync.Mutex
	var got []int

	for i := 1; i <= 5; i++ {
		n := i
		d.Trigger("order-1", func() {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, got)
	assert.False(t, d.Pending("order-1"))
}

func TestTrigger_ClavesIndependientes(t *testing.T) {
	d := debounce.New(10 * time.Millisecond)
	var count atomic.Int32
	d.Trigger("a", func() { count.Add(1) })
	d.Trigger("b", func() { count.Add(1) })

	assert.Eventually(t, func() bool { return count.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestCancel_DescartaPendiente(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	var count atomic.Int32
	d.Trigger("a", func() { count.Add(1) })

	assert.True(t, d.Cancel("a"))
	assert.False(t, d.Cancel("a"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestFlush_EjecutaInmediatamente(t *testing.T) {
	d := debounce.New(time.Hour)
	var count atomic.Int32
	d.Trigger("a", func() { count.Add(1) })
	d.Trigger("b", func() { count.Add(1) })

	d.Flush()
	assert.Equal(t, int32(2), count.Load())
	assert.False(t, d.Pending("a"))
}

func TestClose_RechazaNuevosDisparos(t *testing.T) {
	d := debounce.New(time.Hour)
	var count atomic.Int32
	d.Trigger("a", func() { count.Add(1) })
	d.Close()

	assert.Equal(t, int32(1), count.Load())
	assert.False(t, d.Trigger("a", func() { count.Add(1) }))
}
