package socket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdaBackend/utils"
)

func createTestNamespaceManager() *namespaceManager[int] {
	return &namespaceManager[int]{
		connectedClients: make([]*connectedClient, 0),
		backlog:          make([]int, 0),
		useBacklog:       true,
		namespaceName:    "/test",
	}
}

func TestBacklogSnapshot_IsolatedFromConcurrentSends(t *testing.T) {
	manager := createTestNamespaceManager()

	var senders sync.WaitGroup
	senders.Add(1)
	go func() {
		defer senders.Done()
		for i := 0; i < 200; i++ {
			manager.Send(i)
		}
	}()

	for i := 0; i < 200; i++ {
		snapshot := manager.backlogSnapshot()
		for j, value := range snapshot {
			require.Equal(t, j, value)
		}
	}
	senders.Wait()

	assert.Len(t, manager.backlogSnapshot(), 200)
}

func TestHandleBacklogRequest_ReturnsWindow(t *testing.T) {
	manager := createTestNamespaceManager()
	for i := 1; i <= 5; i++ {
		manager.Send(i)
	}

	var response []any
	ack := func(data []any, _ error) { response = data }

	manager.handleBacklogRequest(`{"limit": 2, "offset": 1}`, ack)

	require.Len(t, response, 1)
	okResponse, ok := response[0].(utils.OkResponse[[]int])
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, okResponse.Payload)
}

func TestHandleBacklogRequest_InvalidPayload(t *testing.T) {
	manager := createTestNamespaceManager()

	var response []any
	ack := func(data []any, _ error) { response = data }

	manager.handleBacklogRequest("not json", ack)

	require.Len(t, response, 1)
	errResponse, ok := response[0].(utils.ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidSocketRequest.Error(), errResponse.Message)
}

func TestHandleBacklogRequest_NoAck(t *testing.T) {
	manager := createTestNamespaceManager()
	manager.Send(1)

	assert.NotPanics(t, func() {
		manager.handleBacklogRequest(`{}`)
	})
}
