// Package docs holds the OpenAPI document served at /api/docs
// regenerate with: swag init --v3.1 -g cmd/astrochat-api/main.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "/api/v1"
        }
    ],
    "paths": {
        "/chat": {
            "post": {
                "tags": [
                    "Chat"
                ],
                "summary": "Ask the astrologer a question",
                "description": "Counts one question against the person's daily quota before the model is called",
                "operationId": "chatAsk",
                "requestBody": {
                    "description": "Question and birth details",
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/chat.Request"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/chat.Reply"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "validation",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    },
                    "429": {
                        "description": "daily limit reached",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/chat.LimitDetails"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "quota tracking unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/quota/status": {
            "post": {
                "tags": [
                    "Quota"
                ],
                "summary": "Question quota for today",
                "description": "Never creates or changes a quota record",
                "operationId": "quotaStatus",
                "requestBody": {
                    "description": "Person",
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/quota.StatusInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/quota.Status"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "validation",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    },
                    "429": {
                        "description": "too many status requests",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "status unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/quota/consume": {
            "post": {
                "tags": [
                    "Quota"
                ],
                "summary": "Count one question against today's quota",
                "operationId": "quotaConsume",
                "requestBody": {
                    "description": "Person",
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/quota.StatusInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/quota.Decision"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "validation",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "tracking unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/usage/daily": {
            "get": {
                "tags": [
                    "Usage"
                ],
                "summary": "Daily question counts",
                "operationId": "usageDaily",
                "parameters": [
                    {
                        "name": "days",
                        "in": "query",
                        "required": false,
                        "schema": {
                            "type": "integer",
                            "minimum": 1,
                            "maximum": 90,
                            "default": 7
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "type": "array",
                                                    "items": {
                                                        "$ref": "#/components/schemas/usage.DailyRow"
                                                    }
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "validation",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "usage analytics disabled",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/httpkit.Envelope"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Liveness",
                "operationId": "metaHealth",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/meta.HealthResponse"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/ready": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Readiness of configured stores",
                "operationId": "metaReady",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/meta.ReadyResponse"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Build info",
                "operationId": "metaVersion",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/version.BuildInfo"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/service": {
            "get": {
                "tags": [
                    "Meta"
                ],
                "summary": "Service name and uptime",
                "operationId": "metaService",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/httpkit.Envelope"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/meta.ServiceInfo"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "httpkit.Envelope": {
                "type": "object",
                "properties": {
                    "status_code": {
                        "type": "integer",
                        "example": 200
                    },
                    "status": {
                        "type": "string",
                        "example": "OK"
                    },
                    "code": {
                        "type": "integer",
                        "example": 0
                    },
                    "error": {
                        "type": "string"
                    },
                    "field": {
                        "type": "string",
                        "example": "dateOfBirth"
                    },
                    "request_id": {
                        "type": "string",
                        "example": "579f33bf50b1/abc-000001"
                    },
                    "data": {}
                }
            },
            "quota.Person": {
                "type": "object",
                "required": [
                    "firstName",
                    "dateOfBirth"
                ],
                "properties": {
                    "firstName": {
                        "type": "string",
                        "example": "Asha",
                        "maxLength": 100
                    },
                    "lastName": {
                        "type": "string",
                        "example": "Verma",
                        "maxLength": 100
                    },
                    "dateOfBirth": {
                        "type": "string",
                        "example": "1992-03-14",
                        "format": "date"
                    },
                    "placeOfBirth": {
                        "type": "string",
                        "example": "Jaipur",
                        "maxLength": 200
                    },
                    "timeOfBirth": {
                        "type": "string",
                        "example": "04:30",
                        "maxLength": 20
                    }
                }
            },
            "quota.StatusInput": {
                "type": "object",
                "required": [
                    "userData"
                ],
                "properties": {
                    "userData": {
                        "$ref": "#/components/schemas/quota.Person"
                    }
                }
            },
            "quota.Status": {
                "type": "object",
                "properties": {
                    "questions_used": {
                        "type": "integer",
                        "example": 3
                    },
                    "daily_limit": {
                        "type": "integer",
                        "example": 10
                    },
                    "questions_remaining": {
                        "type": "integer",
                        "example": 7
                    },
                    "can_ask": {
                        "type": "boolean",
                        "example": true
                    }
                }
            },
            "quota.Decision": {
                "type": "object",
                "properties": {
                    "allowed_this_request": {
                        "type": "boolean",
                        "example": true
                    },
                    "questions_used_today": {
                        "type": "integer",
                        "example": 3
                    },
                    "daily_limit": {
                        "type": "integer",
                        "example": 10
                    },
                    "questions_remaining": {
                        "type": "integer",
                        "example": 7
                    },
                    "can_ask_more": {
                        "type": "boolean",
                        "example": true
                    }
                }
            },
            "chat.BirthDetails": {
                "type": "object",
                "required": [
                    "firstName",
                    "dateOfBirth",
                    "placeOfBirth",
                    "timeOfBirth"
                ],
                "properties": {
                    "firstName": {
                        "type": "string",
                        "example": "Asha",
                        "maxLength": 100
                    },
                    "lastName": {
                        "type": "string",
                        "example": "Verma",
                        "maxLength": 100
                    },
                    "dateOfBirth": {
                        "type": "string",
                        "example": "1992-03-14",
                        "format": "date"
                    },
                    "placeOfBirth": {
                        "type": "string",
                        "example": "Jaipur",
                        "maxLength": 200
                    },
                    "timeOfBirth": {
                        "type": "string",
                        "example": "04:30",
                        "maxLength": 20
                    }
                }
            },
            "chat.Request": {
                "type": "object",
                "required": [
                    "message",
                    "userData"
                ],
                "properties": {
                    "message": {
                        "type": "string",
                        "example": "Meri shaadi kab hogi?",
                        "maxLength": 1000
                    },
                    "userData": {
                        "$ref": "#/components/schemas/chat.BirthDetails"
                    }
                }
            },
            "chat.Reply": {
                "type": "object",
                "properties": {
                    "response": {
                        "type": "string",
                        "example": "Namaste Asha ji! ..."
                    },
                    "timestamp": {
                        "type": "string",
                        "example": "2025-09-03T13:05:00Z",
                        "format": "date-time"
                    },
                    "fallback": {
                        "type": "boolean",
                        "example": false
                    },
                    "reply_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "user_limit_info": {
                        "$ref": "#/components/schemas/quota.Decision"
                    }
                }
            },
            "chat.LimitDetails": {
                "type": "object",
                "properties": {
                    "limit_exceeded": {
                        "type": "boolean",
                        "example": true
                    },
                    "daily_limit": {
                        "type": "integer",
                        "example": 10
                    },
                    "questions_used": {
                        "type": "integer",
                        "example": 10
                    },
                    "reset_message": {
                        "type": "string",
                        "example": "Your question limit resets at midnight."
                    },
                    "timestamp": {
                        "type": "string",
                        "format": "date-time"
                    }
                }
            },
            "usage.DailyRow": {
                "type": "object",
                "properties": {
                    "day": {
                        "type": "string",
                        "example": "2024-01-01"
                    },
                    "allowed": {
                        "type": "integer",
                        "example": 120
                    },
                    "denied": {
                        "type": "integer",
                        "example": 4
                    },
                    "fail_open": {
                        "type": "integer",
                        "example": 0
                    },
                    "fallbacks": {
                        "type": "integer",
                        "example": 2
                    },
                    "identities": {
                        "type": "integer",
                        "example": 37
                    }
                }
            },
            "meta.Environment": {
                "type": "object",
                "properties": {
                    "env": {
                        "type": "string",
                        "example": "development"
                    },
                    "has_gemini_key": {
                        "type": "boolean",
                        "example": true
                    },
                    "has_postgres": {
                        "type": "boolean",
                        "example": false
                    },
                    "has_sqlite": {
                        "type": "boolean",
                        "example": true
                    },
                    "has_clickhouse": {
                        "type": "boolean",
                        "example": false
                    }
                }
            },
            "meta.HealthResponse": {
                "type": "object",
                "properties": {
                    "ok": {
                        "type": "boolean",
                        "example": true
                    },
                    "service": {
                        "type": "string",
                        "example": "astrochat-api"
                    },
                    "started": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "now": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "environment": {
                        "$ref": "#/components/schemas/meta.Environment"
                    }
                }
            },
            "meta.ReadyCheck": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string",
                        "example": "pg"
                    },
                    "status": {
                        "type": "string",
                        "example": "ok"
                    },
                    "error": {
                        "type": "string"
                    }
                }
            },
            "meta.ReadyResponse": {
                "type": "object",
                "properties": {
                    "status": {
                        "type": "string",
                        "example": "ok"
                    },
                    "checks": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/meta.ReadyCheck"
                        }
                    },
                    "now": {
                        "type": "string",
                        "format": "date-time"
                    }
                }
            },
            "meta.ServiceInfo": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string",
                        "example": "astrochat-api"
                    },
                    "started": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "uptime": {
                        "type": "integer",
                        "example": 300
                    },
                    "modules": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "example": [
                            "chat",
                            "meta",
                            "quota",
                            "usage"
                        ]
                    }
                }
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {
                        "type": "string",
                        "example": "astrochat-api"
                    },
                    "version": {
                        "type": "string",
                        "example": "1.0.0"
                    },
                    "commit": {
                        "type": "string"
                    },
                    "date": {
                        "type": "string"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Title:            "Astro Chat API",
	Description:      "Vedic astrology chat with a per person daily question quota",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
