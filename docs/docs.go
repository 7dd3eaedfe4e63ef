// Package docs holds the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/sweets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sweets"],
                "summary": "List sweets",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive substring of the name", "name": "name", "in": "query"},
                    {"type": "string", "description": "Exact category", "name": "category", "in": "query"},
                    {"type": "number", "description": "Inclusive lower price bound", "name": "minPrice", "in": "query"},
                    {"type": "number", "description": "Inclusive upper price bound", "name": "maxPrice", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sweets"],
                "summary": "Create a sweet",
                "parameters": [
                    {"description": "Sweet details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createSweetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/sweets/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sweets"],
                "summary": "Get a sweet by id",
                "parameters": [{"type": "string", "description": "Sweet id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Partial update of the catalog fields. Quantity changes only through purchase and restock.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sweets"],
                "summary": "Update a sweet",
                "parameters": [
                    {"type": "string", "description": "Sweet id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateSweetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sweets"],
                "summary": "Delete a sweet",
                "parameters": [{"type": "string", "description": "Sweet id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/sweets/{id}/purchase": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stock"],
                "summary": "Purchase a sweet",
                "parameters": [
                    {"type": "string", "description": "Sweet id", "name": "id", "in": "path", "required": true},
                    {"description": "Units to buy", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.quantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Validation failure or insufficient stock", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/sweets/{id}/restock": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stock"],
                "summary": "Restock a sweet",
                "parameters": [
                    {"type": "string", "description": "Sweet id", "name": "id", "in": "path", "required": true},
                    {"description": "Units to add", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.quantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "count": {"type": "integer"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "token": {"type": "string"},
                        "user": {"$ref": "#/definitions/domain.User"}
                    }
                }
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string", "maxLength": 100, "minLength": 1},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.createSweetRequest": {
            "type": "object",
            "required": ["category", "name", "price"],
            "properties": {
                "name": {"type": "string", "maxLength": 100, "minLength": 2},
                "category": {"type": "string", "enum": ["Mithai", "Barfi", "Laddoo", "Halwa", "Gulab Jamun", "Rasgulla", "Jalebi", "Kaju Katli", "Other"]},
                "price": {"type": "number", "minimum": 0},
                "quantity": {"type": "integer", "minimum": 0},
                "image": {"type": "string"},
                "description": {"type": "string", "maxLength": 500}
            }
        },
        "handler.updateSweetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100, "minLength": 2},
                "category": {"type": "string", "enum": ["Mithai", "Barfi", "Laddoo", "Halwa", "Gulab Jamun", "Rasgulla", "Jalebi", "Kaju Katli", "Other"]},
                "price": {"type": "number", "minimum": 0},
                "image": {"type": "string"},
                "description": {"type": "string", "maxLength": 500}
            }
        },
        "handler.quantityRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "minimum": 1}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "object",
                        "properties": {
                            "status": {"type": "string"},
                            "error": {"type": "string"}
                        }
                    }
                }
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sweet Shop API",
	Description:      "Inventory storefront: catalog, purchases and restocks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
