package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xeipuuv/gojsonschema"

	"verdaBackend/utils"
)

type (
	// Service holds the JSON schemas for agent-supplied tool payloads and
	// validates incoming documents against them before they are bound.
	Service interface {
		Get() map[string]any
		Validate(schemaName string, document []byte) error
	}

	schemaService struct {
		loaders map[string]gojsonschema.JSONLoader
		schemas map[string]any
	}
)

func CreateService() Service {
	service := &schemaService{
		loaders: make(map[string]gojsonschema.JSONLoader),
		schemas: make(map[string]any),
	}

	service.register("deploy", deploySchema)
	service.register("wait", waitSchema)
	service.register("monitor", monitorSchema)

	return service
}

func (u *schemaService) Get() map[string]any {
	return u.schemas
}

func (u *schemaService) Validate(schemaName string, document []byte) error {
	loader, ok := u.loaders[schemaName]
	if !ok {
		return fmt.Errorf("%w: unknown schema %s", utils.ErrValidationError, schemaName)
	}

	var documentObj any
	if err := json.Unmarshal(document, &documentObj); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", utils.ErrValidationError, err)
	}

	result, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(documentObj))
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrValidationError, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, problem := range result.Errors() {
			problems = append(problems, problem.String())
		}

		return fmt.Errorf("%w: %s", utils.ErrValidationError, strings.Join(problems, "; "))
	}

	return nil
}

func (u *schemaService) register(schemaName string, rawSchema string) {
	var schemaObj any
	if err := json.Unmarshal([]byte(rawSchema), &schemaObj); err != nil {
		log.Fatal("Failed to parse embedded schema. Exiting.", "schema", schemaName)
	}

	u.loaders[schemaName] = gojsonschema.NewGoLoader(schemaObj)
	u.schemas[schemaName] = schemaObj
}
