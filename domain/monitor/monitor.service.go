package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/deployment"
	"verdaBackend/domain/instance"
	"verdaBackend/events"
	"verdaBackend/types"
	"verdaBackend/utils"
)

const defaultCheckInterval = 30 * time.Second
const defaultMaxChecks = 20

type (
	Service interface {
		Get() []WatchOut
		Create(req WatchIn) (*WatchOut, error)
		Delete(watchId string) error

		// RunScheduler Starts the watch scheduler. This is blocking and
		// should be run in a goroutine.
		RunScheduler()
		StopScheduler()
	}

	monitorService struct {
		apiClient       client.VerdaClient
		configManager   config.Manager
		instanceService instance.Service
		statusEvents    events.Event[events.StatusEvent]

		watches       map[string]*Watch
		watchesMutex  sync.Mutex
		watchSchedule utils.Schedule[Watch]

		stopChannel chan struct{}
	}
)

func CreateService(
	apiClient client.VerdaClient,
	configManager config.Manager,
	instanceService instance.Service,
	statusEvents events.Event[events.StatusEvent],
) Service {
	return &monitorService{
		apiClient:       apiClient,
		configManager:   configManager,
		instanceService: instanceService,
		statusEvents:    statusEvents,
		watches:         make(map[string]*Watch),
		watchSchedule: utils.CreateSchedule[Watch](
			func(watch Watch) string { return watch.Id },
			func(watch Watch) *time.Time { return watch.NextCheck },
		),
		stopChannel: make(chan struct{}),
	}
}

func (u *monitorService) Get() []WatchOut {
	u.watchesMutex.Lock()
	defer u.watchesMutex.Unlock()

	watches := lo.MapToSlice(u.watches, func(_ string, watch *Watch) WatchOut {
		return watchToOut(*watch)
	})

	sort.Slice(watches, func(i, j int) bool {
		return watches[i].CreatedAt.Before(watches[j].CreatedAt)
	})

	return watches
}

func (u *monitorService) Create(req WatchIn) (*WatchOut, error) {
	cfg := u.configManager.Snapshot()

	gpuType := lo.FromPtrOr(req.GpuType, cfg.Defaults.GpuType)
	gpuCount := lo.FromPtrOr(req.GpuCount, cfg.Defaults.GpuCount)

	if client.InstanceTypeFor(gpuType, gpuCount) == "" {
		return nil, utils.ErrValidationError
	}

	interval := defaultCheckInterval
	if req.CheckInterval != nil {
		interval = time.Duration(*req.CheckInterval) * time.Second
	}

	now := time.Now()
	watch := &Watch{
		Id:            utils.GenerateUuid(),
		GpuType:       gpuType,
		GpuCount:      gpuCount,
		Location:      lo.FromPtrOr(req.Location, ""),
		CheckInterval: interval,
		MaxChecks:     lo.FromPtrOr(req.MaxChecks, defaultMaxChecks),
		AutoDeploy:    lo.FromPtrOr(req.AutoDeploy, false),
		Project:       lo.FromPtrOr(req.Project, cfg.Defaults.Project),
		VolumeId:      lo.FromPtrOr(req.VolumeId, ""),
		ScriptId:      lo.FromPtrOr(req.ScriptId, ""),
		State:         StateWatching,
		CreatedAt:     now,
		NextCheck:     &now,
	}

	u.watchesMutex.Lock()
	u.watches[watch.Id] = watch
	u.watchesMutex.Unlock()

	u.watchSchedule.Schedule(watch)

	log.Info("Availability watch created",
		"watch", watch.Id, "gpuType", gpuType, "gpuCount", gpuCount, "autoDeploy", watch.AutoDeploy)

	out := watchToOut(*watch)

	return &out, nil
}

func (u *monitorService) Delete(watchId string) error {
	u.watchesMutex.Lock()
	defer u.watchesMutex.Unlock()

	if _, ok := u.watches[watchId]; !ok {
		return utils.ErrWatchNotFound
	}

	u.watchSchedule.Remove(watchId)
	delete(u.watches, watchId)

	return nil
}

func (u *monitorService) RunScheduler() {
	for {
		select {
		case <-u.stopChannel:
			return
		default:
			if watch := u.watchSchedule.TryPop(); watch != nil {
				go u.check(watch)
			} else {
				time.Sleep(time.Second)
			}
		}
	}
}

func (u *monitorService) StopScheduler() {
	close(u.stopChannel)
}

func (u *monitorService) check(watch *Watch) {
	instanceType := client.InstanceTypeFor(watch.GpuType, watch.GpuCount)
	availability, err := u.apiClient.FindSpotCapacity(context.Background(), instanceType, watch.Location)

	u.watchesMutex.Lock()
	watch.ChecksDone++

	switch {
	case err != nil:
		watch.LastError = err.Error()
		u.continueOrExhaust(watch)
		u.watchesMutex.Unlock()

	case availability.Available:
		watch.FoundLocation = availability.Location
		watch.State = StateFound
		found := *watch
		u.watchesMutex.Unlock()

		u.emit(found, events.PhaseWatchProbe, "Spot capacity found.", types.Success)

		if found.AutoDeploy {
			u.deploy(watch)
		}

	default:
		u.continueOrExhaust(watch)
		u.watchesMutex.Unlock()
	}
}

// continueOrExhaust reschedules the watch or marks it exhausted. The caller
// must hold the watches mutex.
func (u *monitorService) continueOrExhaust(watch *Watch) {
	if watch.ChecksDone >= watch.MaxChecks {
		watch.State = StateExhausted
		watch.NextCheck = nil

		log.Info("Availability watch exhausted", "watch", watch.Id, "checks", watch.ChecksDone)
		return
	}

	nextCheck := time.Now().Add(watch.CheckInterval)
	watch.NextCheck = &nextCheck

	u.watchSchedule.Reschedule(watch)
}

func (u *monitorService) deploy(watch *Watch) {
	req := instance.DeployIn{
		GpuType:  &watch.GpuType,
		GpuCount: &watch.GpuCount,
	}

	if watch.Project != "" {
		req.Project = &watch.Project
	}
	if watch.FoundLocation != "" {
		req.Location = &watch.FoundLocation
	}
	if watch.VolumeId != "" {
		req.VolumeId = &watch.VolumeId
	}
	if watch.ScriptId != "" {
		req.ScriptId = &watch.ScriptId
	}

	result, err := u.instanceService.Deploy(context.Background(), req)

	u.watchesMutex.Lock()
	if err != nil {
		watch.State = StateFailed
		watch.LastError = err.Error()
		failed := *watch
		u.watchesMutex.Unlock()

		log.Warnf("[WATCH] Auto-deploy for watch %s failed: %v", failed.Id, err)
		u.emit(failed, events.PhaseWatchDeployed, "Auto-deploy failed.", types.Error)
		return
	}

	watch.State = StateDeployed
	watch.InstanceId = result.Instance.Id
	if result.Outcome != deployment.OutcomeReady {
		watch.LastError = result.FailureReason
	}
	deployed := *watch
	u.watchesMutex.Unlock()

	u.emit(deployed, events.PhaseWatchDeployed, "Auto-deploy finished.", types.Success)
}

// emit publishes a status event for a snapshot of the watch. The snapshot is
// taken while the watches mutex is held so the event never reads a watch
// concurrently mutated by another check.
func (u *monitorService) emit(watch Watch, phase string, content string, severity types.Severity) {
	if u.statusEvents == nil {
		return
	}

	u.statusEvents.Dispatch(events.StatusEvent{
		DeploymentId: watch.Id,
		InstanceId:   watch.InstanceId,
		Phase:        phase,
		Content:      content,
		Severity:     severity,
		Timestamp:    time.Now(),
	})
}
