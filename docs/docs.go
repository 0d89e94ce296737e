// Package docs registers the OpenAPI description served at /swagger.
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
        "/accounting": {
            "get": {
                "produces": ["text/html"],
                "tags": ["accounting"],
                "summary": "List accountings",
                "responses": {"200": {"description": "HTML page"}}
            }
        },
        "/accounting/{accountingNumber}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["accounting"],
                "summary": "Show an accounting with its balance sheet and latest posting lines",
                "parameters": [
                    {"type": "integer", "description": "Accounting number", "name": "accountingNumber", "in": "path", "required": true},
                    {"type": "string", "description": "Status date (YYYY-MM-DD), defaults to today", "name": "statusDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "HTML page"},
                    "400": {"description": "Invalid route or query value"},
                    "404": {"description": "Unknown accounting"}
                }
            }
        },
        "/accounting/{accountingNumber}/accounts/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["accounts"],
                "summary": "Export the accounts as CSV",
                "parameters": [
                    {"type": "integer", "description": "Accounting number", "name": "accountingNumber", "in": "path", "required": true},
                    {"type": "string", "description": "Status date (YYYY-MM-DD), defaults to today", "name": "statusDate", "in": "query"}
                ],
                "responses": {"200": {"description": "Semicolon separated file", "schema": {"type": "file"}}}
            }
        },
        "/accounting/{accountingNumber}/posting-lines": {
            "get": {
                "produces": ["text/html"],
                "tags": ["posting-lines"],
                "summary": "Latest posting lines as an HTML fragment",
                "parameters": [
                    {"type": "integer", "description": "Accounting number", "name": "accountingNumber", "in": "path", "required": true},
                    {"type": "string", "description": "Status date (YYYY-MM-DD), defaults to today", "name": "statusDate", "in": "query"},
                    {"type": "integer", "description": "Number of lines, 1 to 250", "name": "numberOfPostingLines", "in": "query"}
                ],
                "responses": {"200": {"description": "HTML fragment"}}
            }
        },
        "/accounting/{accountingNumber}/posting-journal/apply": {
            "post": {
                "description": "Books every line or none. The result lists the booked lines and any warnings.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posting-journal"],
                "summary": "Apply a posting journal",
                "parameters": [
                    {"type": "integer", "description": "Accounting number", "name": "accountingNumber", "in": "path", "required": true},
                    {"description": "Posting lines", "name": "journal", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ApplyPostingJournalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/accounting/{accountingNumber}/posting-journal/import": {
            "post": {
                "description": "Columns: date;reference;account;details;budget_account;debit;credit;contact_account",
                "consumes": ["multipart/form-data"],
                "produces": ["text/html"],
                "tags": ["posting-journal"],
                "summary": "Import a posting journal from a CSV file",
                "parameters": [
                    {"type": "integer", "description": "Accounting number", "name": "accountingNumber", "in": "path", "required": true},
                    {"type": "file", "description": "Semicolon separated posting journal", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Result page"},
                    "422": {"description": "Posting journal form with errors"}
                }
            }
        }
    },
    "definitions": {
        "handler.ApplyPostingJournalRequest": {
            "type": "object",
            "properties": {
                "posting_lines": {"type": "array", "items": {"$ref": "#/definitions/handler.PostingLineRequest"}}
            }
        },
        "handler.PostingLineRequest": {
            "type": "object",
            "required": ["account_number", "details", "posting_date"],
            "properties": {
                "posting_date": {"type": "string"},
                "reference": {"type": "string"},
                "account_number": {"type": "string"},
                "details": {"type": "string"},
                "budget_account_number": {"type": "string"},
                "debit": {"type": "number"},
                "credit": {"type": "number"},
                "contact_account_number": {"type": "string"}
            }
        },
        "response.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/response.ErrorDetail"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "OS Intranet Accounting",
	Description:      "Accountings, accounts, budget accounts, contact accounts and posting journals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
