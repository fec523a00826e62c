package deployment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"verdaBackend/client"
)

type mockPoller struct {
	mock.Mock
}

func (m *mockPoller) Poll(
	ctx context.Context,
	deploymentId string,
	instanceId string,
	timeout time.Duration,
	interval time.Duration,
) PollOutcome {
	args := m.Called(ctx, deploymentId, instanceId, timeout, interval)
	return args.Get(0).(PollOutcome)
}

func validRequest() DeploymentRequest {
	return DeploymentRequest{
		Project:  "demo",
		GpuType:  "B300",
		GpuCount: 1,
		Image:    "ubuntu-24.04-cuda-12.8-open-docker",
		Location: "FIN-03",
		UseSpot:  true,
	}
}

func readyOutcome(instanceId string) PollOutcome {
	return PollOutcome{
		Instance: client.Instance{
			Id:       instanceId,
			Hostname: "demo-b300-20240101-000000",
			Status:   client.StatusRunning,
			Ip:       "10.0.0.5",
		},
		Attempts:       1,
		ElapsedSeconds: 10,
		Outcome:        OutcomeReady,
	}
}

func TestDeploy_InvalidRequestNeverReachesProvider(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	request := validRequest()
	request.Project = ""
	request.Hostname = "pinned"

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", request, time.Minute, time.Second)

	assert.Nil(t, result)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	apiClient.AssertNotCalled(t, "FindSpotCapacity", mock.Anything, mock.Anything, mock.Anything)
	apiClient.AssertNotCalled(t, "CreateInstance", mock.Anything, mock.Anything)
}

func TestDeploy_NoSpotCapacity(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "FIN-03").
		Return(&client.AvailabilityResult{Available: false, InstanceType: "1B300.30V"}, nil).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", validRequest(), time.Minute, time.Second)

	assert.Nil(t, result)

	var capacityErr *CapacityError
	assert.ErrorAs(t, err, &capacityErr)
	assert.Equal(t, "1B300.30V", capacityErr.InstanceType)
	apiClient.AssertNotCalled(t, "CreateInstance", mock.Anything, mock.Anything)
}

func TestDeploy_CapacityProbeFailureIsAdvisory(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "FIN-03").
		Return(nil, &client.TransportError{Err: assert.AnError}).Once()
	apiClient.On("CreateInstance", mock.Anything, mock.Anything).
		Return(&client.Instance{Id: "inst-1", Status: client.StatusPending}, nil).Once()
	poller.On("Poll", mock.Anything, "dep-1", "inst-1", time.Minute, time.Second).
		Return(readyOutcome("inst-1")).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", validRequest(), time.Minute, time.Second)

	assert.NoError(t, err)
	assert.Equal(t, OutcomeReady, result.Poll.Outcome)
	apiClient.AssertExpectations(t)
}

func TestDeploy_AdoptsProbedLocation(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	request := validRequest()
	request.Location = ""

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "").
		Return(&client.AvailabilityResult{
			Available:    true,
			InstanceType: "1B300.30V",
			Location:     "FIN-02",
		}, nil).Once()
	apiClient.On("CreateInstance", mock.Anything, mock.MatchedBy(func(req client.CreateInstanceRequest) bool {
		return req.Location == "FIN-02"
	})).Return(&client.Instance{Id: "inst-1", Status: client.StatusPending}, nil).Once()
	poller.On("Poll", mock.Anything, "dep-1", "inst-1", time.Minute, time.Second).
		Return(readyOutcome("inst-1")).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", request, time.Minute, time.Second)

	assert.NoError(t, err)
	assert.Equal(t, "FIN-02", result.Request.Location)
	apiClient.AssertExpectations(t)
}

func TestDeploy_CreateFailureYieldsNoInstance(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "FIN-03").
		Return(&client.AvailabilityResult{Available: true, InstanceType: "1B300.30V", Location: "FIN-03"}, nil).Once()
	apiClient.On("CreateInstance", mock.Anything, mock.Anything).
		Return(nil, &client.HTTPError{Status: 503, Body: "out of capacity"}).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", validRequest(), time.Minute, time.Second)

	assert.Nil(t, result)

	var deploymentErr *DeploymentError
	assert.ErrorAs(t, err, &deploymentErr)

	var httpErr *client.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)
	poller.AssertNotCalled(t, "Poll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_AttachmentFailuresAreWarnings(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	request := validRequest()
	request.VolumeId = "vol-1"
	request.ScriptId = "script-1"

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "FIN-03").
		Return(&client.AvailabilityResult{Available: true, InstanceType: "1B300.30V", Location: "FIN-03"}, nil).Once()
	apiClient.On("CreateInstance", mock.Anything, mock.Anything).
		Return(&client.Instance{Id: "inst-1", Status: client.StatusPending}, nil).Once()
	apiClient.On("AttachVolume", mock.Anything, "inst-1", "vol-1").
		Return(&client.HTTPError{Status: 404, Body: "volume not found"}).Once()
	apiClient.On("ApplyScript", mock.Anything, "inst-1", "script-1").
		Return(nil).Once()
	poller.On("Poll", mock.Anything, "dep-1", "inst-1", time.Minute, time.Second).
		Return(readyOutcome("inst-1")).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", request, time.Minute, time.Second)

	assert.NoError(t, err)
	assert.Equal(t, OutcomeReady, result.Poll.Outcome)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, "volume", result.Warnings[0].Resource)
	assert.Equal(t, "vol-1", result.Warnings[0].ResourceId)
	apiClient.AssertExpectations(t)
}

func TestDeploy_CarriesCreatedInstanceWhenPollNeverFetched(t *testing.T) {
	apiClient := &mockApiClient{}
	poller := &mockPoller{}

	created := &client.Instance{Id: "inst-1", Hostname: "demo-b300-x", Status: client.StatusPending}

	apiClient.On("FindSpotCapacity", mock.Anything, "1B300.30V", "FIN-03").
		Return(&client.AvailabilityResult{Available: true, InstanceType: "1B300.30V", Location: "FIN-03"}, nil).Once()
	apiClient.On("CreateInstance", mock.Anything, mock.Anything).Return(created, nil).Once()
	poller.On("Poll", mock.Anything, "dep-1", "inst-1", time.Duration(0), time.Second).
		Return(PollOutcome{
			Instance: client.Instance{Id: "inst-1"},
			Outcome:  OutcomeTimedOut,
		}).Once()

	orchestrator := CreateOrchestrator(apiClient, poller, nil)
	result, err := orchestrator.Deploy(context.Background(), "dep-1", validRequest(), 0, time.Second)

	assert.NoError(t, err)
	assert.Equal(t, OutcomeTimedOut, result.Poll.Outcome)
	assert.Equal(t, "demo-b300-x", result.Poll.Instance.Hostname)
}
