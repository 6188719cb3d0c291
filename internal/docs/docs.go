// Package docs registra el documento OpenAPI que sirve /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go -o internal/docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/pets": {
            "get": {
                "tags": ["matching"],
                "summary": "Browse lost/found pets, optionally near a point",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "species", "in": "query"},
                    {"type": "string", "description": "lat,lng", "name": "location", "in": "query"},
                    {"type": "number", "description": "radius in km", "name": "radius", "in": "query"},
                    {"type": "integer", "description": "page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "string", "description": "name contains", "name": "search", "in": "query"},
                    {"type": "string", "description": "lost|found", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.SearchItemResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["pets"],
                "summary": "Register a pet",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            }
        },
        "/pets/match": {
            "post": {
                "tags": ["matching"],
                "summary": "Score lost pets against a found-pet draft",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.CandidateResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            }
        },
        "/pets/matches": {
            "get": {
                "tags": ["matching"],
                "summary": "Pending matches for the caller's lost pets",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.MyMatchResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "tags": ["pets"],
                "summary": "Get a pet",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["pets"],
                "summary": "Update a pet profile",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            }
        },
        "/pets/{petID}/report-lost": {
            "post": {
                "tags": ["pets"],
                "summary": "Report a pet as lost",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}}}
            }
        },
        "/pets/{petID}/report-found": {
            "post": {
                "tags": ["pets"],
                "summary": "Report a found animal",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}}}
            }
        },
        "/pets/{petID}/confirm-match": {
            "post": {
                "tags": ["matching"],
                "summary": "Confirm a lost/found match",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"matchedPetId": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pets.ErrorResponse"}}
                }
            }
        },
        "/pets/{petID}/matches": {
            "post": {
                "tags": ["matching"],
                "summary": "Store the current candidates on a lost pet",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/pets": {
            "get": {
                "tags": ["pets"],
                "summary": "List the caller's pets",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetResponse"}}}}
            }
        }
    },
    "definitions": {
        "pets.ErrorResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "error": {"type": "string"}}
        },
        "pets.PetResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "furColor": {"type": "string"},
                "eyeColor": {"type": "string"},
                "age": {"type": "number"},
                "isLost": {"type": "boolean"},
                "isFound": {"type": "boolean"},
                "navigation": {"type": "object"}
            }
        },
        "matching.SearchItemResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "distance": {"type": "string"},
                "distanceKm": {"type": "number"}
            }
        },
        "matching.CandidateResponse": {
            "type": "object",
            "properties": {"pet": {"$ref": "#/definitions/pets.PetResponse"}, "score": {"type": "integer"}}
        },
        "matching.MyMatchResponse": {
            "type": "object",
            "properties": {
                "lostId": {"type": "string"},
                "lostName": {"type": "string"},
                "foundId": {"type": "string"},
                "foundName": {"type": "string"},
                "score": {"type": "integer"},
                "matchedAt": {"type": "string"},
                "foundPet": {"$ref": "#/definitions/pets.PetResponse"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Lost & Found API",
	Description:      "Lost/found pet boards, proximity search and match confirmation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
