package spin

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutex_TryLock(t *testing.T) {
	assert := assert.New(t)

	var m Mutex
	assert.True(m.TryLock())
	assert.False(m.TryLock())
	m.Unlock()
	assert.True(m.TryLock())
	m.Unlock()
}

func TestMutex_UnlockUnlocked(t *testing.T) {
	assert := assert.New(t)

	var m Mutex
	assert.Panics(func() { m.Unlock() })
}

func TestMutex_Counter(t *testing.T) {
	assert := assert.New(t)

	const workers = 8
	const rounds = 1000

	var m Mutex
	var wg sync.WaitGroup
	count := 0

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				m.Lock()
				count++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(workers*rounds, count)
}
