package deployment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	// Manager tracks running deployments and lets them be cancelled
	// individually. Each Run owns its own cancellable context, so a long
	// readiness poll never blocks other deployments.
	Manager interface {
		Run(ctx context.Context, request DeploymentRequest, timeout time.Duration, interval time.Duration) (*Result, error)
		Active() []ActiveDeployment
		Cancel(deploymentId string) bool
	}

	ActiveDeployment struct {
		Id        string    `json:"id"`
		Hostname  string    `json:"hostname"`
		GpuType   string    `json:"gpuType"`
		GpuCount  int       `json:"gpuCount"`
		StartedAt time.Time `json:"startedAt"`

		cancel context.CancelFunc
	}

	deploymentManager struct {
		orchestrator Orchestrator

		active map[string]*ActiveDeployment
		mutex  sync.Mutex
	}
)

func CreateManager(orchestrator Orchestrator) Manager {
	return &deploymentManager{
		orchestrator: orchestrator,
		active:       make(map[string]*ActiveDeployment),
	}
}

func (m *deploymentManager) Run(
	ctx context.Context,
	request DeploymentRequest,
	timeout time.Duration,
	interval time.Duration,
) (*Result, error) {
	request.Normalize(time.Now())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	entry := &ActiveDeployment{
		Id:        uuid.NewString(),
		Hostname:  request.Hostname,
		GpuType:   request.GpuType,
		GpuCount:  request.GpuCount,
		StartedAt: time.Now(),
		cancel:    cancel,
	}

	m.mutex.Lock()
	m.active[entry.Id] = entry
	m.mutex.Unlock()

	defer func() {
		m.mutex.Lock()
		delete(m.active, entry.Id)
		m.mutex.Unlock()
	}()

	return m.orchestrator.Deploy(runCtx, entry.Id, request, timeout, interval)
}

func (m *deploymentManager) Active() []ActiveDeployment {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	deployments := make([]ActiveDeployment, 0, len(m.active))
	for _, entry := range m.active {
		deployments = append(deployments, *entry)
	}

	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].StartedAt.Before(deployments[j].StartedAt)
	})

	return deployments
}

func (m *deploymentManager) Cancel(deploymentId string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, ok := m.active[deploymentId]
	if !ok {
		return false
	}

	entry.cancel()

	return true
}
