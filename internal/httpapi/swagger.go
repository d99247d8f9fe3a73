package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// swaggerInfo is registered with swag so /swagger/doc.json serves it.
var swaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "usagestats API",
	Description:      "Deployment lifecycle ingestion and usage statistics toggling.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(swaggerInfo.InstanceName(), swaggerInfo)
}

// MountSwagger serves the API docs UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/events/{name}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Publish a deployment lifecycle event",
                "parameters": [
                    {"type": "string", "description": "deployment.done or deployment.error", "name": "name", "in": "path", "required": true},
                    {"description": "Event payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.DeploymentPayload"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.PublishResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Diagram could not be parsed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Collector failure", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/usage": {
            "get": {
                "produces": ["application/json"],
                "tags": ["usage"],
                "summary": "Usage statistics state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UsageStatus"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["usage"],
                "summary": "Enable or disable usage statistics",
                "parameters": [
                    {"description": "Desired state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.UsageToggleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UsageStatus"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.File": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "invoice.bpmn"},
                "contents": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "types.Tab": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "42"},
                "name": {"type": "string"},
                "type": {"type": "string", "example": "bpmn"},
                "title": {"type": "string"},
                "file": {"$ref": "#/definitions/types.File"},
                "meta": {"type": "object"}
            }
        },
        "types.DeploymentPayload": {
            "type": "object",
            "properties": {
                "tab": {"$ref": "#/definitions/types.Tab"},
                "context": {"type": "object"},
                "error": {"type": "object", "properties": {"code": {"type": "string"}}}
            }
        },
        "types.PublishResponse": {
            "type": "object",
            "properties": {
                "event": {"type": "string", "example": "deployment.done"},
                "status": {"type": "string", "example": "accepted"}
            }
        },
        "types.UsageToggleRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean", "example": true}
            }
        },
        "types.UsageStatus": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "sent": {"type": "integer"},
                "skipped": {"type": "integer"},
                "failed": {"type": "integer"},
                "subscriptions": {"type": "array", "items": {"type": "string"}},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        }
    }
}`
