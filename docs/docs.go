package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "ToDoList API Documentation",
        "title": "ToDoList API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register",
                "description": "Create a new account with email, full name and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "registration",
                        "description": "Registration payload",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "jordan@example.com"
                                },
                                "full_name": {
                                    "type": "string",
                                    "example": "Jordan Example"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "Abc123!@"
                                },
                                "confirm_password": {
                                    "type": "string",
                                    "example": "Abc123!@"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Account created"
                    },
                    "400": {
                        "description": "Validation errors"
                    },
                    "409": {
                        "description": "Email already registered"
                    }
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Login",
                "description": "Login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Login credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "jordan@example.com"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "Abc123!@"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/api/v1/todos": {
            "get": {
                "tags": ["ToDos"],
                "summary": "List items",
                "description": "Filtered, sorted list with aggregate counts",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "priority", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "due_from", "type": "string"},
                    {"in": "query", "name": "due_to", "type": "string"},
                    {"in": "query", "name": "completed", "type": "boolean"},
                    {"in": "query", "name": "days_until_due", "type": "integer"},
                    {"in": "query", "name": "category_id", "type": "integer"},
                    {"in": "query", "name": "sort_by", "type": "string"},
                    {"in": "query", "name": "sort_order", "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "Item list"
                    }
                }
            },
            "post": {
                "tags": ["ToDos"],
                "summary": "Create item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {
                        "description": "Item created"
                    },
                    "400": {
                        "description": "Validation errors"
                    }
                }
            }
        },
        "/api/v1/todos/export": {
            "get": {
                "tags": ["ToDos"],
                "summary": "Export CSV",
                "produces": ["text/csv"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "CSV attachment"
                    }
                }
            }
        },
        "/api/v1/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Important feed",
                "description": "Top notifications across overdue, high-priority and due-soon items",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Notification feed"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "ToDoList API",
	Description:      "ToDoList API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
