// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "tags": ["authentication"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["authentication"],
                "summary": "Login user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["authentication"],
                "summary": "Logout user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}}
            }
        },
        "/api/auth/google/login": {
            "get": {
                "tags": ["authentication"],
                "summary": "Google OAuth login",
                "responses": {"200": {"description": "Google OAuth URL", "schema": {"$ref": "#/definitions/dto.GoogleLoginResponse"}}}
            }
        },
        "/api/auth/google/callback": {
            "get": {
                "tags": ["authentication"],
                "summary": "Google OAuth callback",
                "parameters": [
                    {"type": "string", "in": "query", "name": "code", "required": true},
                    {"type": "string", "in": "query", "name": "state", "required": true}
                ],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get emergency profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Update profile fields",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateProfileRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}}}
            }
        },
        "/api/profile/contacts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["contacts"],
                "summary": "Add emergency contact",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/dto.ContactRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Contact"}},
                    "422": {"description": "Maximum 3 contacts allowed.", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/profile/contacts/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["contacts"],
                "summary": "Edit emergency contact",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/dto.ContactRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Contact"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["contacts"],
                "summary": "Remove emergency contact",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/profile/medical/{field}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["medical"],
                "summary": "Append medical entry",
                "parameters": [
                    {"type": "string", "in": "path", "name": "field", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/dto.EntryRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}}}
            }
        },
        "/api/profile/medical/{field}/{index}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["medical"],
                "summary": "Edit medical entry",
                "parameters": [
                    {"type": "string", "in": "path", "name": "field", "required": true},
                    {"type": "integer", "in": "path", "name": "index", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/dto.EntryRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["medical"],
                "summary": "Remove medical entry",
                "parameters": [
                    {"type": "string", "in": "path", "name": "field", "required": true},
                    {"type": "integer", "in": "path", "name": "index", "required": true},
                    {"type": "string", "in": "query", "name": "expect"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}}}
            }
        },
        "/api/profile/qr": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["qr"],
                "summary": "Current QR link",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/qr.Link"}}}
            }
        },
        "/api/profile/qr/regenerate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["qr"],
                "summary": "Regenerate QR link",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/qr.Link"}}}
            }
        },
        "/api/profile/qr/image": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["image/png"],
                "tags": ["qr"],
                "summary": "Download QR image",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/profile/sync": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Sync indicator",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.SyncStatus"}}}
            }
        },
        "/api/profile/sync/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Retry failed sync",
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/profile.SyncStatus"}}}
            }
        },
        "/api/sos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["sos"],
                "summary": "Send SOS notification",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SOSResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.SOSResponse"}}
                }
            }
        },
        "/api/public-profile": {
            "get": {
                "tags": ["public"],
                "summary": "Public emergency profile",
                "parameters": [
                    {"type": "string", "in": "query", "name": "uid", "required": true},
                    {"type": "string", "in": "query", "name": "name"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/qr.PublicView"}},
                    "404": {"description": "Profile Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.RegisterRequest": {"type": "object", "properties": {"full_name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "display_name": {"type": "string"}, "photo_url": {"type": "string"}, "provider": {"type": "string"}, "created_at": {"type": "string"}}},
        "dto.AuthResponse": {"type": "object", "properties": {"user": {"$ref": "#/definitions/dto.UserResponse"}, "token": {"type": "string"}}},
        "dto.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "dto.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}}},
        "dto.GoogleLoginResponse": {"type": "object", "properties": {"auth_url": {"type": "string"}, "state": {"type": "string"}}},
        "dto.FieldUpdate": {"type": "object", "properties": {"field": {"type": "string", "example": "bloodGroup"}, "value": {"type": "string", "example": "O+"}}},
        "dto.UpdateProfileRequest": {"type": "object", "properties": {"updates": {"type": "array", "items": {"$ref": "#/definitions/dto.FieldUpdate"}}}},
        "dto.ContactRequest": {"type": "object", "properties": {"name": {"type": "string"}, "number": {"type": "string"}, "photo": {"type": "string"}}},
        "dto.EntryRequest": {"type": "object", "properties": {"value": {"type": "string"}, "expect": {"type": "string"}}},
        "dto.SOSResponse": {"type": "object", "properties": {"sent": {"type": "boolean"}, "message": {"type": "string"}}},
        "dto.ProfileResponse": {"type": "object", "properties": {"profile": {"$ref": "#/definitions/models.Profile"}, "qr": {"$ref": "#/definitions/qr.Link"}, "sync": {"$ref": "#/definitions/profile.SyncStatus"}}},
        "models.Contact": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "number": {"type": "string"}, "photo": {"type": "string"}}},
        "models.Profile": {"type": "object", "properties": {
            "userId": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
            "userDescription": {"type": "string"}, "bloodGroup": {"type": "string"},
            "allergies": {"type": "array", "items": {"type": "string"}},
            "previousDiseases": {"type": "array", "items": {"type": "string"}},
            "currentMeds": {"type": "array", "items": {"type": "string"}},
            "emergencyContacts": {"type": "array", "items": {"$ref": "#/definitions/models.Contact"}},
            "profilePhoto": {"type": "string"}, "qrLink": {"type": "string"}, "qrCode": {"type": "string"}}},
        "qr.Link": {"type": "object", "properties": {"publicLink": {"type": "string"}, "imageUrl": {"type": "string"}}},
        "qr.PublicView": {"type": "object", "properties": {"name": {"type": "string"}, "bloodGroup": {"type": "string"}, "allergies": {"type": "string"}, "emergencyContact": {"type": "string"}, "previousDiseases": {"type": "string"}, "currentMedications": {"type": "string"}}},
        "profile.SyncStatus": {"type": "object", "properties": {"state": {"type": "string"}, "pending": {"type": "integer"}, "failedKey": {"type": "string"}, "lastError": {"type": "string"}, "lastSyncedAt": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "IntelliQRHelp API",
	Description:      "Emergency profile, QR identity and SOS API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
