package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerReturnsSameSessionForID(t *testing.T) {
	m := NewManager()

	a := m.Get("abc")
	a.SelectPatient("Ana")

	assert.Same(t, a, m.Get("abc"))
	assert.Equal(t, "Ana", m.Get("abc").CurrentPatient())
	assert.Equal(t, "", m.Get("other").CurrentPatient())
}

func TestManagerIssuesIDWhenMissing(t *testing.T) {
	m := NewManager()

	sess := m.Get("")

	assert.NotEmpty(t, sess.ID)
	assert.Same(t, sess, m.Get(sess.ID))
}

func TestHistoryKeepsExchangeOrder(t *testing.T) {
	sess := NewManager().Get("abc")
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	sess.Exchange("headache?", "rest", at)
	sess.Exchange("fever?", "fluids", at.Add(time.Minute))

	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "rest", history[1].Content)
	assert.Equal(t, "fever?", history[2].Content)

	history[0].Content = "edited"
	assert.Equal(t, "headache?", sess.History()[0].Content)

	sess.Clear()
	assert.Empty(t, sess.History())
}

func TestConcurrentExchangesStayPaired(t *testing.T) {
	sess := NewManager().Get("abc")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.Exchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), time.Now())
		}(i)
	}
	wg.Wait()

	history := sess.History()
	require.Len(t, history, 100)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, RoleUser, history[i].Role)
		assert.Equal(t, "a"+history[i].Content[1:], history[i+1].Content)
	}
}

func TestPruneDropsIdleSessions(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Get("old")
	now = now.Add(2 * time.Hour)
	m.Get("fresh")

	assert.Equal(t, 1, m.Prune(time.Hour))
	assert.Equal(t, 1, m.Len())
}
