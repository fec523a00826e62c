package script

import (
	"context"

	"github.com/samber/lo"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/utils"
)

type (
	Service interface {
		Get(ctx context.Context) ([]ScriptOut, error)
		GetByUuid(ctx context.Context, scriptId string) (*ScriptOut, error)
		GetForInstance(ctx context.Context, instanceId string) (*ScriptOut, error)
		Create(ctx context.Context, req ScriptIn) (*ScriptOut, error)
		SetDefault(ctx context.Context, scriptId string) error
	}

	scriptService struct {
		apiClient     client.VerdaClient
		configManager config.Manager
	}
)

func CreateService(apiClient client.VerdaClient, configManager config.Manager) Service {
	return &scriptService{
		apiClient:     apiClient,
		configManager: configManager,
	}
}

func (u *scriptService) Get(ctx context.Context) ([]ScriptOut, error) {
	scripts, err := u.apiClient.ListScripts(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(scripts, func(script client.Script, _ int) ScriptOut {
		return ScriptOut{Id: script.Id, Name: script.Name}
	}), nil
}

func (u *scriptService) GetByUuid(ctx context.Context, scriptId string) (*ScriptOut, error) {
	script, err := u.apiClient.GetScript(ctx, scriptId)
	if err != nil {
		return nil, utils.ReplaceNotFound(err, utils.ErrScriptNotFound)
	}

	return &ScriptOut{Id: script.Id, Name: script.Name, Script: script.Script}, nil
}

// GetForInstance resolves the startup script attached to an instance.
func (u *scriptService) GetForInstance(ctx context.Context, instanceId string) (*ScriptOut, error) {
	instance, err := u.apiClient.GetInstance(ctx, instanceId)
	if err != nil {
		return nil, utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	if instance.StartupScriptId == "" {
		return nil, utils.ErrScriptNotFound
	}

	return u.GetByUuid(ctx, instance.StartupScriptId)
}

// Create uploads a new startup script. With SetDefault the script also
// becomes the default for future deployments via the configuration file.
func (u *scriptService) Create(ctx context.Context, req ScriptIn) (*ScriptOut, error) {
	script, err := u.apiClient.CreateScript(ctx, req.Name, req.Script)
	if err != nil {
		return nil, err
	}

	if req.SetDefault {
		if err := u.setDefaultScript(script.Id); err != nil {
			return nil, err
		}
	}

	return &ScriptOut{Id: script.Id, Name: script.Name}, nil
}

// SetDefault verifies the script exists before writing it to the config.
func (u *scriptService) SetDefault(ctx context.Context, scriptId string) error {
	if _, err := u.apiClient.GetScript(ctx, scriptId); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrScriptNotFound)
	}

	return u.setDefaultScript(scriptId)
}

func (u *scriptService) setDefaultScript(scriptId string) error {
	return u.configManager.Update(map[string]any{
		"defaults": map[string]any{
			"scriptId": scriptId,
		},
	})
}
