package deployment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"verdaBackend/client"
	"verdaBackend/events"
	"verdaBackend/types"
)

// MaxTransientFailures is the number of consecutive transient status-fetch
// failures the poller tolerates before giving up.
const MaxTransientFailures = 3

type (
	// Poller drives an instance towards readiness: it re-fetches the status
	// on a fixed interval until the instance is reachable, fails, or the
	// timeout window closes. Every round-trip counts as one attempt.
	Poller interface {
		Poll(ctx context.Context, deploymentId string, instanceId string, timeout time.Duration, interval time.Duration) PollOutcome
	}

	readinessPoller struct {
		apiClient    client.VerdaClient
		statusEvents events.Event[events.StatusEvent]

		maxTransientFailures int

		now   func() time.Time
		sleep func(ctx context.Context, duration time.Duration) error
	}
)

func CreatePoller(apiClient client.VerdaClient, statusEvents events.Event[events.StatusEvent]) Poller {
	return &readinessPoller{
		apiClient:            apiClient,
		statusEvents:         statusEvents,
		maxTransientFailures: MaxTransientFailures,
		now:                  time.Now,
		sleep:                sleepContext,
	}
}

func (p *readinessPoller) Poll(
	ctx context.Context,
	deploymentId string,
	instanceId string,
	timeout time.Duration,
	interval time.Duration,
) PollOutcome {
	start := p.now()
	last := client.Instance{Id: instanceId}

	attempts := 0
	consecutiveFailures := 0

	for {
		if ctx.Err() != nil {
			return p.finish(start, last, attempts, OutcomeFailed, ctx.Err())
		}

		// The window is checked before the fetch, so an instance that turns
		// ready exactly on the boundary still times out.
		if p.now().Sub(start) >= timeout {
			return p.finish(start, last, attempts, OutcomeTimedOut, nil)
		}

		instance, err := p.apiClient.GetInstance(ctx, instanceId)
		attempts++

		if err != nil {
			if !isTransient(err) {
				return p.finish(start, last, attempts, OutcomeFailed, &PollError{
					InstanceId: instanceId,
					Failures:   consecutiveFailures + 1,
					Err:        err,
				})
			}

			consecutiveFailures++
			log.Warnf(
				"[DEPLOY] Status fetch failed: %v (instance=%s, failures=%d)",
				err, instanceId, consecutiveFailures,
			)

			if consecutiveFailures > p.maxTransientFailures {
				return p.finish(start, last, attempts, OutcomeFailed, &PollError{
					InstanceId: instanceId,
					Failures:   consecutiveFailures,
					Err:        err,
				})
			}
		} else {
			consecutiveFailures = 0
			last = *instance

			p.emit(deploymentId, instanceId, events.PhasePolling,
				fmt.Sprintf("Instance status is %s.", instance.Status), types.Info, attempts)

			if instance.Status == client.StatusRunning && instance.Ip != "" {
				return p.finish(start, last, attempts, OutcomeReady, nil)
			}

			if instance.Status == client.StatusError || instance.Status == client.StatusDeleted {
				return p.finish(start, last, attempts, OutcomeFailed, &ProvisioningError{
					InstanceId: instanceId,
					Status:     instance.Status,
				})
			}
		}

		if err := p.sleep(ctx, interval); err != nil {
			return p.finish(start, last, attempts, OutcomeFailed, err)
		}
	}
}

func (p *readinessPoller) finish(
	start time.Time,
	last client.Instance,
	attempts int,
	outcome Outcome,
	err error,
) PollOutcome {
	return PollOutcome{
		Instance:       last,
		Attempts:       attempts,
		ElapsedSeconds: p.now().Sub(start).Seconds(),
		Outcome:        outcome,
		Err:            err,
	}
}

func (p *readinessPoller) emit(
	deploymentId string,
	instanceId string,
	phase string,
	content string,
	severity types.Severity,
	attempt int,
) {
	if p.statusEvents == nil {
		return
	}

	p.statusEvents.Dispatch(events.StatusEvent{
		DeploymentId: deploymentId,
		InstanceId:   instanceId,
		Phase:        phase,
		Content:      content,
		Severity:     severity,
		Attempt:      attempt,
		Timestamp:    time.Now(),
	})
}

// isTransient decides whether a status fetch failure is worth retrying.
// Credentials do not heal by waiting, so auth failures are terminal.
func isTransient(err error) bool {
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		return false
	}

	var httpErr *client.HTTPError
	var transportErr *client.TransportError

	return errors.As(err, &httpErr) || errors.As(err, &transportErr)
}

func sleepContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
