package socket

import (
	"github.com/zishang520/socket.io/socket"
)

type (
	// SocketManager Represents a wrapper around the underlying socket.io server.
	SocketManager interface {
		// Server A reference to the underlying socket.io server.
		Server() *socket.Server
	}

	socketManager struct {
		server *socket.Server
	}
)

func CreateSocketManager() SocketManager {
	return &socketManager{
		server: socket.NewServer(nil, nil),
	}
}

func (m *socketManager) Server() *socket.Server {
	return m.server
}
