package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(handler http.Handler) (*verdaClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	return &verdaClient{
		baseUrl:    server.URL,
		httpClient: server.Client(),
	}, server
}

func TestDo_NonSuccessStatusBecomesHttpError(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("instance not found"))
	}))
	defer server.Close()

	err := apiClient.Do(context.Background(), http.MethodGet, "/instances/xyz", nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "instance not found", httpErr.Body)
}

func TestDo_NetworkFailureBecomesTransportError(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := apiClient.Do(context.Background(), http.MethodGet, "/instances", nil, nil)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestDo_SendsJsonBody(t *testing.T) {
	var receivedContentType string
	var receivedBody map[string]string

	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&receivedBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := apiClient.Do(context.Background(), http.MethodPost, "/instances/abc/action",
		map[string]string{"action": "shutdown"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "application/json", receivedContentType)
	assert.Equal(t, "shutdown", receivedBody["action"])
}

func TestGetInstance_DefaultsSshPort(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instances/inst-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Instance{
			Id:     "inst-1",
			Status: StatusRunning,
			Ip:     "10.0.0.5",
		})
	}))
	defer server.Close()

	instance, err := apiClient.GetInstance(context.Background(), "inst-1")

	require.NoError(t, err)
	assert.Equal(t, 22, instance.SshPort)
	assert.Equal(t, StatusRunning, instance.Status)
}

func TestListInstances_PassesStatusFilter(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "running", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode([]Instance{{Id: "inst-1"}, {Id: "inst-2"}})
	}))
	defer server.Close()

	instances, err := apiClient.ListInstances(context.Background(), "running")

	require.NoError(t, err)
	assert.Len(t, instances, 2)
}

func TestFindSpotCapacity_SkipsFailingLocations(t *testing.T) {
	answers := map[string]func(w http.ResponseWriter){
		"FIN-01": func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
		"FIN-02": func(w http.ResponseWriter) { _, _ = w.Write([]byte("false")) },
		"FIN-03": func(w http.ResponseWriter) { _, _ = w.Write([]byte("true")) },
	}

	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("is_spot"))
		answers[r.URL.Query().Get("location_code")](w)
	}))
	defer server.Close()

	result, err := apiClient.FindSpotCapacity(context.Background(), "1B300.30V", "")

	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, "FIN-03", result.Location)
}

func TestFindSpotCapacity_NoCapacityAnywhere(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("false"))
	}))
	defer server.Close()

	result, err := apiClient.FindSpotCapacity(context.Background(), "1B300.30V", "")

	require.NoError(t, err)
	assert.False(t, result.Available)
}

func TestFindSpotCapacity_AllProbesFailing(t *testing.T) {
	apiClient, server := createTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result, err := apiClient.FindSpotCapacity(context.Background(), "1B300.30V", "")

	assert.Nil(t, result)

	var httpErr *HTTPError
	assert.ErrorAs(t, err, &httpErr)
}

func TestInstanceTypeFor(t *testing.T) {
	type testCase struct {
		gpuType  string
		gpuCount int
		want     string
	}

	tests := []testCase{
		{"B300", 1, "1B300.30V"},
		{"B300", 8, "8B300.240V"},
		{"B200", 2, "2B200.60V"},
		{"GB300", 4, "4GB300.144V"},
		{"GB300", 8, ""},
		{"H200", 1, "1H200.141S.44V"},
		{"H200", 2, ""},
		{"A100", 1, ""},
		{"B300", 3, ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, InstanceTypeFor(test.gpuType, test.gpuCount),
			"gpuType=%s gpuCount=%d", test.gpuType, test.gpuCount)
	}
}
