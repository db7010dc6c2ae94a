// Package docs holds the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "URL Analyzer Maintainers",
            "url": "https://github.com/raysh454/urlanalyzer"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analyze": {
            "post": {
                "description": "Submits the URL to VirusTotal and polls for the verdict. A 202 carries a plain-text detail.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze a URL",
                "parameters": [
                    {
                        "description": "URL to analyze",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.AnalyzeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analyzer.Verdict"}},
                    "202": {"description": "Analysis pending. Try again shortly, server is busy.", "schema": {"type": "string"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.DetailResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.DetailResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.DetailResponse"}}
                }
            }
        },
        "/ws/analyze": {
            "get": {
                "description": "Upgrades to a WebSocket that sends progress events, then one result or error event.",
                "tags": ["analysis"],
                "summary": "Analyze a URL with streamed progress",
                "parameters": [
                    {"type": "string", "description": "URL to analyze", "name": "url", "in": "query", "required": true}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"$ref": "#/definitions/server.ProgressEvent"}}
                }
            }
        },
        "/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "List recorded analyses",
                "parameters": [
                    {"type": "string", "description": "Registrable domain, e.g. example.com", "name": "domain", "in": "query"},
                    {"type": "integer", "description": "Maximum entries (default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/history.Entry"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/history/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Get one recorded analysis",
                "parameters": [
                    {"type": "string", "description": "Entry ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/history.Entry"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["page"],
                "summary": "Form page",
                "responses": {"200": {"description": "HTML page", "schema": {"type": "string"}}}
            }
        },
        "/submit": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["page"],
                "summary": "Submit the form page",
                "parameters": [
                    {"type": "string", "description": "URL to analyze", "name": "url", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "HTML page", "schema": {"type": "string"}}}
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["operational"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}}}
            }
        }
    },
    "definitions": {
        "analyzer.Verdict": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "malicious_votes": {"type": "integer"},
                "harmless_votes": {"type": "integer"},
                "suspicious_votes": {"type": "integer"},
                "undetected_votes": {"type": "integer"},
                "analysis_id": {"type": "string"},
                "cached": {"type": "boolean"},
                "checked_at": {"type": "string"}
            }
        },
        "history.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "url": {"type": "string"},
                "domain": {"type": "string"},
                "malicious_votes": {"type": "integer"},
                "harmless_votes": {"type": "integer"},
                "verdict": {"type": "object"},
                "change": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "server.AnalyzeRequest": {
            "type": "object",
            "properties": {"url": {"type": "string", "example": "https://example.com/login"}}
        },
        "server.DetailResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string", "example": "VIRUS_TOTAL_API_KEY not set"}}
        },
        "server.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "not found"}}
        },
        "server.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "ok"}}
        },
        "server.ProgressEvent": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "progress"},
                "attempt": {"type": "integer", "example": 1},
                "max_attempts": {"type": "integer", "example": 10},
                "status": {"type": "string", "example": "queued"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "URL Analyzer API",
	Description:      "Submits URLs to VirusTotal and reports community votes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
