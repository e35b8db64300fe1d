package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	ownerID  uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, ownerID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		ownerID:  ownerID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OwnerID() uuid.UUID {
	return m.ownerID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", alice)
	client2 := newMockClient("client-2", alice)
	client3 := newMockClient("client-3", bob)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(alice))
	assert.Equal(t, 1, hub.ClientCount(bob))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(alice))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(alice))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_OwnerIsolation(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	clientA1 := newMockClient("client-a1", alice)
	clientA2 := newMockClient("client-a2", alice)
	clientB := newMockClient("client-b", bob)

	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	hub.Broadcast(alice, BudgetCreated(map[string]interface{}{"id": float64(42)}))

	assert.Len(t, clientA1.GetMessages(), 1)
	assert.Len(t, clientA2.GetMessages(), 1)
	assert.Len(t, clientB.GetMessages(), 0, "other owners must not see the event")
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), owners[i%len(owners)])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(owners[idx%len(owners)], TransactionCreated(map[string]interface{}{"id": float64(idx)}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, owner := range owners {
		assert.Equal(t, 0, hub.ClientCount(owner))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", uuid.New()))
	})
}

func TestHub_BroadcastToOwnerWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), TransactionCreated(map[string]interface{}{"id": float64(1)}))
	})
}

func TestHub_BroadcastDropsClosedClients(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()

	healthy := newMockClient("healthy", owner)
	closed := newMockClient("closed", owner)
	require.NoError(t, closed.Close())

	hub.Register(healthy)
	hub.Register(closed)

	hub.Broadcast(owner, CategoryUpdated(map[string]interface{}{"id": float64(3)}))

	assert.Len(t, healthy.GetMessages(), 1)
	assert.Equal(t, 1, hub.ClientCount(owner))
}

func TestHub_UnregisterStaleClientKeepsReplacement(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()

	stale := newMockClient("same-id", owner)
	fresh := newMockClient("same-id", owner)
	hub.Register(stale)
	hub.Register(fresh)

	hub.Unregister(stale)

	assert.Equal(t, 1, hub.ClientCount(owner))
}
