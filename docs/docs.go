// Package docs registra la especificación swagger de la API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Chequeo de vida",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok", "schema": {"type": "string"}}}
            }
        },
        "/feed/sessions": {
            "post": {
                "tags": ["feed"],
                "summary": "Crear sesión de feed",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "UUID generado por la app", "name": "X-Client-ID", "in": "header", "required": true},
                    {"description": "location o lat+lon; page_size opcional (máx 100)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/feed.startSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "feed vacío", "schema": {"$ref": "#/definitions/feed.pageResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/feed.pageResponse"}},
                    "400": {"description": "invalid json / origin requires a location or lat/lon", "schema": {"type": "string"}},
                    "401": {"description": "missing or invalid X-Client-ID", "schema": {"type": "string"}}
                }
            }
        },
        "/feed/sessions/{sessionID}": {
            "get": {
                "tags": ["feed"],
                "summary": "Página de una sesión de feed",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ID de la sesión", "name": "sessionID", "in": "path", "required": true},
                    {"type": "integer", "description": "Página (desde 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Tamaño de página (máx 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/feed.pageResponse"}},
                    "400": {"description": "page / page_size inválidos", "schema": {"type": "string"}},
                    "410": {"description": "session expired", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/seen": {
            "post": {
                "tags": ["animals"],
                "summary": "Marcar animales como vistos",
                "consumes": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "UUID generado por la app", "name": "X-Client-ID", "in": "header", "required": true},
                    {"description": "IDs vistos (máximo 500)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.markSeenRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "invalid json / demasiados ids", "schema": {"type": "string"}},
                    "401": {"description": "missing or invalid X-Client-ID", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}/like": {
            "post": {
                "tags": ["animals"],
                "summary": "Sumar un like",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.likeResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "tags": ["animals"],
                "summary": "Quitar un like",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.likeResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/browse": {
            "get": {
                "tags": ["browse"],
                "summary": "Buscar animales cerca de un lugar",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Ciudad, código postal o lat,lon", "name": "location", "in": "query", "required": true},
                    {"type": "integer", "description": "Página (desde 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Resultados por página (máx 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/browse.Result"}},
                    "400": {"description": "location required / page o limit inválidos", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "animals.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "organization_id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "species": {"type": "string"},
                "age": {"type": "string"},
                "gender": {"type": "string"},
                "size": {"type": "string"},
                "status": {"type": "string"},
                "breed": {"type": "string"},
                "breeds": {"type": "object"},
                "colors": {"type": "object"},
                "contact": {"type": "object"},
                "photos": {"type": "array", "items": {"type": "object"}},
                "video_url": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "like_count": {"type": "integer"},
                "last_seen_at": {"type": "string"}
            }
        },
        "animals.likeResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "like_count": {"type": "integer"}}
        },
        "browse.Item": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "breed": {"type": "string"},
                "age": {"type": "string"},
                "gender": {"type": "string"},
                "size": {"type": "string"},
                "photo_url": {"type": "string"},
                "video_url": {"type": "string"},
                "organization_id": {"type": "string"}
            }
        },
        "browse.Result": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/browse.Item"}},
                "page": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "feed.pageResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/animals.Response"}},
                "pagination": {"$ref": "#/definitions/sessions.Pagination"}
            }
        },
        "feed.startSessionRequest": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "page_size": {"type": "integer"}
            }
        },
        "sessions.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "users.markSeenRequest": {
            "type": "object",
            "properties": {"animal_ids": {"type": "array", "items": {"type": "integer"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Reels API",
	Description:      "Feed de videos de animales en adopción, ordenado por cercanía.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
