package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Состояние сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        },
        "/api/v1/schools/resolve": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Определение учебного заведения по координатам",
                "parameters": [
                    {"type": "number", "description": "Широта", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Долгота", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Определение учебного заведения по координатам (POST)",
                "parameters": [
                    {"description": "Координаты точки", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PointInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/batch/schools/resolve": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Пакетное определение учебных заведений",
                "parameters": [
                    {"description": "Массив координат", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BatchResolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/schools/selection": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Selection"],
                "summary": "Закрепить кандидата за точкой",
                "parameters": [
                    {"description": "Точка и выбранный объект", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Selection"],
                "summary": "Удалить ручной выбор для точки",
                "parameters": [
                    {"type": "number", "description": "Широта", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Долгота", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        },
        "/api/v1/schools/cache": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Сбросить кеш результатов для точки",
                "parameters": [
                    {"type": "number", "description": "Широта", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Долгота", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.PointInput": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {
                "lat": {"type": "number", "maximum": 90, "minimum": -90},
                "lon": {"type": "number", "maximum": 180, "minimum": -180}
            }
        },
        "dto.BatchResolveRequest": {
            "type": "object",
            "required": ["points"],
            "properties": {
                "points": {"type": "array", "items": {"$ref": "#/definitions/dto.PointInput"}}
            }
        },
        "dto.SelectionRequest": {
            "type": "object",
            "required": ["lat", "lon", "origin_type", "origin_id"],
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "origin_type": {"type": "string", "enum": ["node", "way", "relation"]},
                "origin_id": {"type": "string"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"type": "object", "properties": {"total": {"type": "integer"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "School Georesolver API",
	Description:      "Определение учебного заведения по точке на карте",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
