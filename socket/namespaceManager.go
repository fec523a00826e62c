package socket

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	socketio "github.com/zishang520/socket.io/socket"

	"verdaBackend/utils"
)

type (
	// OutputNamespace Manages the dataflow in an anonymous socket.io
	// namespace and the clients subscribed to it.
	OutputNamespace[O any] interface {
		// Send Sends a message to all connected clients.
		Send(msg O)

		// ClearBacklog Removes all messages from the backlog.
		ClearBacklog()
	}

	namespaceManager[O any] struct {
		connectedClients      []*connectedClient
		connectedClientsMutex sync.Mutex

		// The backlog of previously sent messages
		backlog      []O
		backlogMutex sync.Mutex
		useBacklog   bool

		namespaceName string
		namespace     socketio.NamespaceInterface
	}

	connectedClient struct {
		socket *socketio.Socket
	}

	backlogRequest struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
)

// CreateOutputNamespace Creates a new anonymous socket.io namespace for a
// given socket manager.
//
// If a backlog is used, new clients receive all previously sent messages via
// the 'backlog' event upon connecting. The namespace path is concatenated
// with slashes to form the namespace name (e.g. [foo, bar] -> /foo/bar).
func CreateOutputNamespace[O any](
	socketManager SocketManager,
	useBacklog bool,
	namespacePath ...string,
) OutputNamespace[O] {
	manager := &namespaceManager[O]{
		connectedClients: make([]*connectedClient, 0),
		backlog:          make([]O, 0),
		useBacklog:       useBacklog,
	}

	manager.namespaceName = "/" + strings.Join(namespacePath, "/")
	manager.namespace = socketManager.Server().Of(manager.namespaceName, nil)

	_ = manager.namespace.On("connection", manager.handleConnection)

	return manager
}

func (m *namespaceManager[O]) ClearBacklog() {
	m.backlogMutex.Lock()
	m.backlog = make([]O, 0)
	m.backlogMutex.Unlock()
}

func (m *namespaceManager[O]) Send(msg O) {
	if m.useBacklog {
		m.backlogMutex.Lock()
		m.backlog = append(m.backlog, msg)
		m.backlogMutex.Unlock()
	}

	m.connectedClientsMutex.Lock()
	receivers := slices.Clone(m.connectedClients)
	m.connectedClientsMutex.Unlock()

	for _, client := range receivers {
		if err := client.socket.Emit("data", msg); err != nil {
			log.Warnf("Failed to emit socket message to client: %s", err.Error())
		}
	}
}

func (m *namespaceManager[O]) handleConnection(clients ...any) {
	client, ok := clients[0].(*socketio.Socket)

	if !ok {
		log.Errorf("Received invalid connection: %+v", clients)
		return
	}

	socketClient := &connectedClient{socket: client}

	m.connectedClientsMutex.Lock()
	m.connectedClients = append(m.connectedClients, socketClient)
	m.connectedClientsMutex.Unlock()

	_ = client.On("backlog-request", func(raw ...any) {
		m.handleBacklogRequest(raw...)
	})

	_ = client.On("disconnect", func(clients ...any) {
		log.Info("Client disconnected from socket namespace", "namespace", m.namespaceName)

		m.connectedClientsMutex.Lock()
		if i := slices.Index(m.connectedClients, socketClient); i > -1 {
			m.connectedClients = append(m.connectedClients[:i], m.connectedClients[i+1:]...)
		}
		m.connectedClientsMutex.Unlock()
	})

	log.Info("Client connected to socket namespace", "namespace", m.namespaceName)

	// Immediately send backlog to the client if the namespace uses one
	if m.useBacklog {
		_ = client.Emit("backlog", m.backlogSnapshot())
	}
}

// backlogSnapshot copies the backlog under the mutex so readers never share
// the slice with a concurrent Send append.
func (m *namespaceManager[O]) backlogSnapshot() []O {
	m.backlogMutex.Lock()
	defer m.backlogMutex.Unlock()

	return slices.Clone(m.backlog)
}

// handleBacklogRequest answers an acknowledged request for a window of the
// backlog, so late joiners can page through it instead of replaying all of it.
func (m *namespaceManager[O]) handleBacklogRequest(raw ...any) {
	var (
		ok  bool
		ack func([]any, error)
	)

	if len(raw) > 1 {
		ack, ok = raw[1].(func([]any, error))
		if !ok {
			return
		}
	}

	if ack == nil {
		return
	}

	dataRaw, ok := raw[0].(string)
	if !ok {
		ack([]any{utils.CreateSocketErrorResponse(utils.ErrInvalidSocketRequest)}, nil)
		return
	}

	request := backlogRequest{}
	if err := json.Unmarshal([]byte(dataRaw), &request); err != nil {
		ack([]any{utils.CreateSocketErrorResponse(utils.ErrInvalidSocketRequest)}, nil)
		return
	}

	window := utils.GetItemsFromList(m.backlogSnapshot(), request.Limit, request.Offset)

	ack([]any{utils.CreateSocketOkResponse(window)}, nil)
}
