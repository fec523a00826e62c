package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

type (
	// VerdaClient is the typed surface over the Verda HTTP API. Every call
	// performs exactly one round-trip; retry policy lives with the callers.
	VerdaClient interface {
		Do(ctx context.Context, method string, path string, body any, out any) error

		ListInstances(ctx context.Context, status string) ([]Instance, error)
		GetInstance(ctx context.Context, instanceId string) (*Instance, error)
		CreateInstance(ctx context.Context, request CreateInstanceRequest) (*Instance, error)
		InstanceAction(ctx context.Context, instanceId string, action string) error
		AttachVolume(ctx context.Context, instanceId string, volumeId string) error
		ApplyScript(ctx context.Context, instanceId string, scriptId string) error

		ListVolumes(ctx context.Context, status string) ([]Volume, error)
		CreateVolume(ctx context.Context, request CreateVolumeRequest) (*Volume, error)
		DetachVolume(ctx context.Context, volumeId string) error

		ListScripts(ctx context.Context) ([]Script, error)
		GetScript(ctx context.Context, scriptId string) (*Script, error)
		CreateScript(ctx context.Context, name string, content string) (*Script, error)

		ListSshKeys(ctx context.Context) ([]SshKey, error)
		ListImages(ctx context.Context) ([]Image, error)

		IsAvailable(ctx context.Context, instanceType string, isSpot bool, location string) (bool, error)
		FindSpotCapacity(ctx context.Context, instanceType string, location string) (*AvailabilityResult, error)
	}

	verdaClient struct {
		baseUrl    string
		httpClient *http.Client
	}
)

func CreateClient(baseUrl string) (VerdaClient, error) {
	tokenSource, err := createTokenSource(context.Background(), baseUrl+"/oauth2/token")
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(context.Background(), tokenSource)
	httpClient.Timeout = 30 * time.Second

	return &verdaClient{
		baseUrl:    baseUrl,
		httpClient: httpClient,
	}, nil
}

func (c *verdaClient) Do(ctx context.Context, method string, path string, body any, out any) error {
	var payload io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Err: err}
		}

		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, payload)
	if err != nil {
		return &TransportError{Err: err}
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return authErr
		}

		return &TransportError{Err: err}
	}
	defer func() {
		_ = response.Body.Close()
	}()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &HTTPError{Status: response.StatusCode, Body: string(responseBody)}
	}

	if out != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return &TransportError{Err: err}
		}
	}

	return nil
}

func (c *verdaClient) ListInstances(ctx context.Context, status string) ([]Instance, error) {
	path := "/instances"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	instances := make([]Instance, 0)
	if err := c.Do(ctx, http.MethodGet, path, nil, &instances); err != nil {
		return nil, err
	}

	return instances, nil
}

func (c *verdaClient) GetInstance(ctx context.Context, instanceId string) (*Instance, error) {
	instance := &Instance{}
	if err := c.Do(ctx, http.MethodGet, "/instances/"+instanceId, nil, instance); err != nil {
		return nil, err
	}

	if instance.SshPort == 0 {
		instance.SshPort = 22
	}

	return instance, nil
}

func (c *verdaClient) CreateInstance(ctx context.Context, request CreateInstanceRequest) (*Instance, error) {
	instance := &Instance{}
	if err := c.Do(ctx, http.MethodPost, "/instances", request, instance); err != nil {
		return nil, err
	}

	return instance, nil
}

func (c *verdaClient) InstanceAction(ctx context.Context, instanceId string, action string) error {
	body := map[string]string{"action": action}

	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/instances/%s/action", instanceId), body, nil)
}

func (c *verdaClient) AttachVolume(ctx context.Context, instanceId string, volumeId string) error {
	path := fmt.Sprintf("/instances/%s/volumes/%s", instanceId, volumeId)

	return c.Do(ctx, http.MethodPost, path, nil, nil)
}

func (c *verdaClient) ApplyScript(ctx context.Context, instanceId string, scriptId string) error {
	path := fmt.Sprintf("/instances/%s/scripts/%s", instanceId, scriptId)

	return c.Do(ctx, http.MethodPost, path, nil, nil)
}

func (c *verdaClient) ListVolumes(ctx context.Context, status string) ([]Volume, error) {
	path := "/volumes"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	volumes := make([]Volume, 0)
	if err := c.Do(ctx, http.MethodGet, path, nil, &volumes); err != nil {
		return nil, err
	}

	return volumes, nil
}

func (c *verdaClient) CreateVolume(ctx context.Context, request CreateVolumeRequest) (*Volume, error) {
	volume := &Volume{}
	if err := c.Do(ctx, http.MethodPost, "/volumes", request, volume); err != nil {
		return nil, err
	}

	return volume, nil
}

func (c *verdaClient) DetachVolume(ctx context.Context, volumeId string) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/volumes/%s/detach", volumeId), nil, nil)
}

func (c *verdaClient) ListScripts(ctx context.Context) ([]Script, error) {
	scripts := make([]Script, 0)
	if err := c.Do(ctx, http.MethodGet, "/scripts", nil, &scripts); err != nil {
		return nil, err
	}

	return scripts, nil
}

func (c *verdaClient) GetScript(ctx context.Context, scriptId string) (*Script, error) {
	script := &Script{}
	if err := c.Do(ctx, http.MethodGet, "/scripts/"+scriptId, nil, script); err != nil {
		return nil, err
	}

	return script, nil
}

func (c *verdaClient) CreateScript(ctx context.Context, name string, content string) (*Script, error) {
	body := map[string]string{"name": name, "script": content}

	script := &Script{}
	if err := c.Do(ctx, http.MethodPost, "/scripts", body, script); err != nil {
		return nil, err
	}

	return script, nil
}

func (c *verdaClient) ListSshKeys(ctx context.Context) ([]SshKey, error) {
	sshKeys := make([]SshKey, 0)
	if err := c.Do(ctx, http.MethodGet, "/ssh-keys", nil, &sshKeys); err != nil {
		return nil, err
	}

	return sshKeys, nil
}

func (c *verdaClient) ListImages(ctx context.Context) ([]Image, error) {
	images := make([]Image, 0)
	if err := c.Do(ctx, http.MethodGet, "/images", nil, &images); err != nil {
		return nil, err
	}

	return images, nil
}

func (c *verdaClient) IsAvailable(ctx context.Context, instanceType string, isSpot bool, location string) (bool, error) {
	query := url.Values{}
	query.Set("is_spot", strconv.FormatBool(isSpot))
	if location != "" {
		query.Set("location_code", location)
	}

	var available bool
	path := fmt.Sprintf("/instance-availability/%s?%s", url.PathEscape(instanceType), query.Encode())
	if err := c.Do(ctx, http.MethodGet, path, nil, &available); err != nil {
		return false, err
	}

	return available, nil
}

// FindSpotCapacity probes spot availability in the given location, or in all
// known locations when none is pinned. Per-location probe errors are logged
// and skipped; an error is only returned when every probe failed.
func (c *verdaClient) FindSpotCapacity(ctx context.Context, instanceType string, location string) (*AvailabilityResult, error) {
	locations := locationCodes
	if location != "" {
		locations = []string{location}
	}

	var lastErr error
	probesAnswered := 0

	for _, candidate := range locations {
		available, err := c.IsAvailable(ctx, instanceType, true, candidate)
		if err != nil {
			log.Warnf("[API] Availability probe failed: %v (location=%s)", err, candidate)
			lastErr = err
			continue
		}

		probesAnswered++
		if available {
			return &AvailabilityResult{
				Available:    true,
				InstanceType: instanceType,
				Location:     candidate,
			}, nil
		}
	}

	if probesAnswered == 0 && lastErr != nil {
		return nil, lastErr
	}

	return &AvailabilityResult{Available: false, InstanceType: instanceType}, nil
}
