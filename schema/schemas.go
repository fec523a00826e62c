package schema

const deploySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "project": {"type": "string", "minLength": 1},
    "gpuType": {"type": "string", "enum": ["B300", "B200", "GB300", "H200"]},
    "gpuCount": {"type": "integer", "enum": [1, 2, 4, 8]},
    "image": {"type": "string", "minLength": 1},
    "hostname": {"type": "string", "minLength": 1},
    "location": {"type": "string", "enum": ["FIN-01", "FIN-02", "FIN-03"]},
    "description": {"type": "string"},
    "useSpot": {"type": "boolean"},
    "volumeId": {"type": "string"},
    "scriptId": {"type": "string"},
    "readyTimeout": {"type": "integer", "minimum": 0},
    "pollInterval": {"type": "integer", "minimum": 1}
  }
}`

const waitSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "readyTimeout": {"type": "integer", "minimum": 0},
    "pollInterval": {"type": "integer", "minimum": 1}
  }
}`

const monitorSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "gpuType": {"type": "string", "enum": ["B300", "B200", "GB300", "H200"]},
    "gpuCount": {"type": "integer", "enum": [1, 2, 4, 8]},
    "location": {"type": "string", "enum": ["FIN-01", "FIN-02", "FIN-03"]},
    "checkInterval": {"type": "integer", "minimum": 5},
    "maxChecks": {"type": "integer", "minimum": 1},
    "autoDeploy": {"type": "boolean"},
    "project": {"type": "string", "minLength": 1},
    "volumeId": {"type": "string"},
    "scriptId": {"type": "string"}
  }
}`
