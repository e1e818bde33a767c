// Package docs registers the gateway's OpenAPI document with swag. Keep it
// in step with the handler annotations.
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
        "/login": {
            "post": {
                "description": "Exchanges credentials with the backend and returns a gateway token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with HMS credentials",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.loginReq"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.loginResp"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "string"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "End the current session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile, jurisdiction and permissions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jurisdiction": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["jurisdiction"],
                "summary": "Resolved jurisdiction of the current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Jurisdiction"}}}
            }
        },
        "/filters": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["jurisdiction"],
                "summary": "Cascading location filter state",
                "parameters": [
                    {"type": "integer", "name": "districtId", "in": "query"},
                    {"type": "integer", "name": "blockId", "in": "query"},
                    {"type": "integer", "name": "gramPanchayatId", "in": "query"},
                    {"type": "integer", "name": "villageId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search handpumps, complaints, requisitions and estimations",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "boolean", "name": "refresh", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/requisitions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["requisitions"],
                "summary": "Paginated requisitions",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "rowsPerPage", "in": "query"},
                    {"type": "string", "name": "mode", "in": "query"},
                    {"type": "string", "name": "stage", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["requisitions"],
                "summary": "Raise a repair or rebore requisition",
                "parameters": [
                    {"type": "string", "name": "payload", "in": "formData", "required": true},
                    {"type": "file", "name": "photo", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "string"}}
                }
            }
        },
        "/requisitions/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["requisitions"],
                "summary": "Export requisitions",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/closures": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["requisitions"],
                "summary": "Requisitions with a work order",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/closures/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["requisitions"],
                "summary": "Export closure updates",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/complaints": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Paginated complaints",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "urgency", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/complaints/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["complaints"],
                "summary": "Export complaints",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/handpumps": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["handpumps"],
                "summary": "Paginated handpumps",
                "parameters": [
                    {"type": "string", "name": "near", "in": "query"},
                    {"type": "number", "name": "radiusKm", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/handpumps/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["handpumps"],
                "summary": "Export handpumps",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/handpumps/geojson": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/geo+json"],
                "tags": ["handpumps"],
                "summary": "Handpumps as a GeoJSON FeatureCollection",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/estimations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["estimations"],
                "summary": "Paginated estimations",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["estimations"],
                "summary": "Submit an estimation for a requisition",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}}
                }
            }
        },
        "/estimations/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["estimations"],
                "summary": "Export estimations",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/estimations/catalogue": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["estimations"],
                "summary": "Predefined estimation items",
                "parameters": [{"type": "string", "name": "mode", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/estimations/preview": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["estimations"],
                "summary": "Price an estimation without submitting it",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/mb/reports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["mb"],
                "summary": "Paginated MB and visit reports",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/mb/reports/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": ["mb"],
                "summary": "Export MB and visit reports",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/mb/remarks": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["mb"],
                "summary": "Update measurement book item remarks",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/visits": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["mb"],
                "summary": "Record a handpump visit inspection",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/submissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Recent submissions of the current user",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handlers.loginReq": {
            "type": "object",
            "properties": {
                "userName": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.loginResp": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.userPayload"}
            }
        },
        "models.Jurisdiction": {
            "type": "object",
            "properties": {
                "districtId": {"type": "integer"},
                "districtName": {"type": "string"},
                "blockId": {"type": "integer"},
                "blockName": {"type": "string"},
                "gramPanchayatId": {"type": "integer"},
                "gramPanchayatName": {"type": "string"},
                "role": {"type": "string"},
                "userId": {"type": "integer"}
            }
        },
        "handlers.userPayload": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"},
                "userName": {"type": "string"},
                "role": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "HMS Gateway API",
	Description:      "Backend-for-frontend over the Handpump Maintenance System API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
