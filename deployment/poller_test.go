package deployment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"verdaBackend/client"
)

type mockApiClient struct {
	mock.Mock
}

func (m *mockApiClient) Do(ctx context.Context, method string, path string, body any, out any) error {
	panic("implement me")
}
func (m *mockApiClient) ListInstances(ctx context.Context, status string) ([]client.Instance, error) {
	panic("implement me")
}
func (m *mockApiClient) GetInstance(ctx context.Context, instanceId string) (*client.Instance, error) {
	args := m.Called(ctx, instanceId)

	var instance *client.Instance
	if val := args.Get(0); val != nil {
		instance = val.(*client.Instance)
	}
	return instance, args.Error(1)
}
func (m *mockApiClient) CreateInstance(ctx context.Context, request client.CreateInstanceRequest) (*client.Instance, error) {
	args := m.Called(ctx, request)

	var instance *client.Instance
	if val := args.Get(0); val != nil {
		instance = val.(*client.Instance)
	}
	return instance, args.Error(1)
}
func (m *mockApiClient) InstanceAction(ctx context.Context, instanceId string, action string) error {
	args := m.Called(ctx, instanceId, action)
	return args.Error(0)
}
func (m *mockApiClient) AttachVolume(ctx context.Context, instanceId string, volumeId string) error {
	args := m.Called(ctx, instanceId, volumeId)
	return args.Error(0)
}
func (m *mockApiClient) ApplyScript(ctx context.Context, instanceId string, scriptId string) error {
	args := m.Called(ctx, instanceId, scriptId)
	return args.Error(0)
}
func (m *mockApiClient) ListVolumes(ctx context.Context, status string) ([]client.Volume, error) {
	panic("implement me")
}
func (m *mockApiClient) CreateVolume(ctx context.Context, request client.CreateVolumeRequest) (*client.Volume, error) {
	panic("implement me")
}
func (m *mockApiClient) DetachVolume(ctx context.Context, volumeId string) error {
	panic("implement me")
}
func (m *mockApiClient) ListScripts(ctx context.Context) ([]client.Script, error) {
	panic("implement me")
}
func (m *mockApiClient) GetScript(ctx context.Context, scriptId string) (*client.Script, error) {
	panic("implement me")
}
func (m *mockApiClient) CreateScript(ctx context.Context, name string, content string) (*client.Script, error) {
	panic("implement me")
}
func (m *mockApiClient) ListSshKeys(ctx context.Context) ([]client.SshKey, error) {
	panic("implement me")
}
func (m *mockApiClient) ListImages(ctx context.Context) ([]client.Image, error) {
	panic("implement me")
}
func (m *mockApiClient) IsAvailable(ctx context.Context, instanceType string, isSpot bool, location string) (bool, error) {
	args := m.Called(ctx, instanceType, isSpot, location)
	return args.Bool(0), args.Error(1)
}
func (m *mockApiClient) FindSpotCapacity(ctx context.Context, instanceType string, location string) (*client.AvailabilityResult, error) {
	args := m.Called(ctx, instanceType, location)

	var result *client.AvailabilityResult
	if val := args.Get(0); val != nil {
		result = val.(*client.AvailabilityResult)
	}
	return result, args.Error(1)
}

// fakeClock advances only when the poller sleeps, so the tests replay the
// timing of a real poll without waiting for it.
type fakeClock struct {
	now time.Time
}

func createTestPoller(apiClient client.VerdaClient) (*readinessPoller, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}

	poller := &readinessPoller{
		apiClient:            apiClient,
		maxTransientFailures: MaxTransientFailures,
		now:                  func() time.Time { return clock.now },
		sleep: func(ctx context.Context, duration time.Duration) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			clock.now = clock.now.Add(duration)
			return nil
		},
	}

	return poller, clock
}

func instanceWithStatus(status client.InstanceStatus, ip string) *client.Instance {
	return &client.Instance{
		Id:       "inst-1",
		Hostname: "demo-b300-20240101-000000",
		Status:   status,
		Ip:       ip,
	}
}

func TestPoll_ReadyAfterProvisioning(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusProvisioning, ""), nil).Twice()
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, "10.0.0.5"), nil).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeReady, outcome.Outcome)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, "10.0.0.5", outcome.Instance.Ip)
	assert.Equal(t, 20.0, outcome.ElapsedSeconds)
	assert.NoError(t, outcome.Err)
	apiClient.AssertExpectations(t)
}

func TestPoll_RunningWithoutIpIsNotReady(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, ""), nil).Once()
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, "10.0.0.5"), nil).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeReady, outcome.Outcome)
	assert.Equal(t, 2, outcome.Attempts)
}

func TestPoll_TimesOutAfterWindow(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusPending, ""), nil)

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 60*time.Second, 10*time.Second)

	// Fetches happen at 0, 10, ..., 50; the check at 60 closes the window.
	assert.Equal(t, OutcomeTimedOut, outcome.Outcome)
	assert.Equal(t, 6, outcome.Attempts)
	assert.Equal(t, 60.0, outcome.ElapsedSeconds)
	assert.Equal(t, "inst-1", outcome.Instance.Id)
	assert.NoError(t, outcome.Err)
}

func TestPoll_BoundaryTickFavorsTimeout(t *testing.T) {
	// The instance would report ready at second 60, but the window check
	// runs before the fetch, so the result is still a timeout.
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusPending, ""), nil).Times(6)
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, "10.0.0.5"), nil)

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 60*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeTimedOut, outcome.Outcome)
	assert.Equal(t, 6, outcome.Attempts)
}

func TestPoll_ReadyInsideWindow(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusPending, ""), nil).Times(6)
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, "10.0.0.5"), nil).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 65*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeReady, outcome.Outcome)
	assert.Equal(t, 7, outcome.Attempts)
}

func TestPoll_FailsAfterConsecutiveTransientErrors(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(nil, &client.TransportError{Err: errors.New("connection reset")})

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeFailed, outcome.Outcome)
	assert.Equal(t, 4, outcome.Attempts)

	var pollErr *PollError
	assert.ErrorAs(t, outcome.Err, &pollErr)
	assert.Equal(t, 4, pollErr.Failures)
}

func TestPoll_TransientFailuresResetOnSuccess(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(nil, &client.HTTPError{Status: 503, Body: "unavailable"}).Times(3)
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(instanceWithStatus(client.StatusRunning, "10.0.0.5"), nil).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeReady, outcome.Outcome)
	assert.Equal(t, 4, outcome.Attempts)
	assert.NoError(t, outcome.Err)
}

func TestPoll_AuthErrorIsTerminal(t *testing.T) {
	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Return(nil, &client.AuthError{Err: errors.New("invalid credentials")}).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeFailed, outcome.Outcome)
	assert.Equal(t, 1, outcome.Attempts)

	var pollErr *PollError
	assert.ErrorAs(t, outcome.Err, &pollErr)

	var authErr *client.AuthError
	assert.ErrorAs(t, outcome.Err, &authErr)
}

func TestPoll_TerminalProviderStatusFails(t *testing.T) {
	for _, status := range []client.InstanceStatus{client.StatusError, client.StatusDeleted} {
		apiClient := &mockApiClient{}
		apiClient.On("GetInstance", mock.Anything, "inst-1").
			Return(instanceWithStatus(status, ""), nil).Once()

		poller, _ := createTestPoller(apiClient)
		outcome := poller.Poll(context.Background(), "dep-1", "inst-1", 600*time.Second, 10*time.Second)

		assert.Equal(t, OutcomeFailed, outcome.Outcome)
		assert.Equal(t, "inst-1", outcome.Instance.Id)

		var provErr *ProvisioningError
		assert.ErrorAs(t, outcome.Err, &provErr)
		assert.Equal(t, status, provErr.Status)
	}
}

func TestPoll_CancelledBeforeStart(t *testing.T) {
	apiClient := &mockApiClient{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(ctx, "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeFailed, outcome.Outcome)
	assert.Equal(t, 0, outcome.Attempts)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	apiClient.AssertNotCalled(t, "GetInstance", mock.Anything, mock.Anything)
}

func TestPoll_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	apiClient := &mockApiClient{}
	apiClient.On("GetInstance", mock.Anything, "inst-1").
		Run(func(args mock.Arguments) { cancel() }).
		Return(instanceWithStatus(client.StatusPending, ""), nil).Once()

	poller, _ := createTestPoller(apiClient)
	outcome := poller.Poll(ctx, "dep-1", "inst-1", 600*time.Second, 10*time.Second)

	assert.Equal(t, OutcomeFailed, outcome.Outcome)
	assert.Equal(t, 1, outcome.Attempts)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
}
