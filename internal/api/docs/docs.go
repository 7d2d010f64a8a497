// Package docs описание HTTP API стандартизации для Swagger UI
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
        "/api/v1/clean": {
            "post": {
                "description": "Передает запрос стандартизации в DaData и возвращает ответ без изменений",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clean"],
                "summary": "Стандартизация произвольных полей",
                "parameters": [
                    {
                        "description": "Структура и записи",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/cleansing.CleansingRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Ответ DaData", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}}
                }
            }
        },
        "/api/v1/clean/name": {
            "post": {
                "description": "Нормализует ФИО; в строгом режиме отклоняет результат по правилам приемки",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clean"],
                "summary": "Нормализация ФИО",
                "parameters": [
                    {
                        "description": "ФИО и режим проверки",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/clean.NameRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Поле ответа DaData как есть", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/clean.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Проверка доступности",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        }
    },
    "definitions": {
        "clean.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "clean.NameRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "strict": {"type": "boolean"}
            }
        },
        "cleansing.CleansingRequest": {
            "type": "object",
            "properties": {
                "structure": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}}
            }
        }
    }
}`

// SwaggerInfo метаданные документации, могут переопределяться при запуске
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DaData Clean API",
	Description:      "HTTP-фасад над сервисом стандартизации DaData: нормализация ФИО и передача запросов стандартизации.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
