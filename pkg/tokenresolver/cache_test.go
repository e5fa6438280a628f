package tokenresolver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func TestGrammarCache(t *testing.T) {
	t.Run("Should share one grammar between equal configs", func(t *testing.T) {
		cache := NewGrammarCache(0, nil)
		a := mustConfig(t, func(s *Settings) { s.Separators = []string{"|", ":"} })
		b := mustConfig(t, func(s *Settings) { s.Separators = []string{"|", ":"} })

		ga, err := cache.Get(a)
		require.NoError(t, err)
		gb, err := cache.Get(b)
		require.NoError(t, err)

		assert.Same(t, ga, gb)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("Should compile separate grammars for different configs", func(t *testing.T) {
		cache := NewGrammarCache(0, nil)
		ga, err := cache.Get(DefaultConfig())
		require.NoError(t, err)
		gb, err := cache.Get(mustConfig(t, func(s *Settings) { s.MinSegments = 3 }))
		require.NoError(t, err)

		assert.NotSame(t, ga, gb)
		assert.Equal(t, 2, cache.Len())
	})

	t.Run("Should rebuild after Clear", func(t *testing.T) {
		cache := NewGrammarCache(0, nil)
		before, err := cache.Get(DefaultConfig())
		require.NoError(t, err)

		cache.Clear()
		assert.Equal(t, 0, cache.Len())

		after, err := cache.Get(DefaultConfig())
		require.NoError(t, err)
		assert.NotSame(t, before, after)
	})

	t.Run("Should build once under concurrent access", func(t *testing.T) {
		log := &recordingLogger{}
		cache := NewGrammarCache(0, log)

		const workers = 32
		grammars := make([]*Grammar, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g, err := cache.Get(DefaultConfig())
				if err == nil {
					grammars[i] = g
				}
			}()
		}
		wg.Wait()

		for _, g := range grammars {
			assert.Same(t, grammars[0], g)
		}
		assert.Equal(t, 1, cache.Len())
		assert.Equal(t, []string{"compiled token grammar"}, log.messages)
	})

	t.Run("Should evict beyond its size", func(t *testing.T) {
		cache := NewGrammarCache(1, nil)
		_, err := cache.Get(DefaultConfig())
		require.NoError(t, err)
		_, err = cache.Get(mustConfig(t, func(s *Settings) { s.MinSegments = 1 }))
		require.NoError(t, err)

		assert.Equal(t, 1, cache.Len())
	})

	t.Run("Should reject an unbuilt config", func(t *testing.T) {
		_, err := NewGrammarCache(0, nil).Get(&Config{})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}
