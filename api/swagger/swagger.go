package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Certify API",
        "description": "Certificate issuance, bulk import and public verification service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Certificates", "description": "Certificate issuance and lifecycle"},
        {"name": "Verification", "description": "Public certificate lookup"},
        {"name": "Programs", "description": "Internship program catalog"},
        {"name": "Exports", "description": "Asynchronous roster exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/verify/{internId}": {
            "get": {
                "tags": ["Verification"],
                "summary": "Verify a certificate by intern ID",
                "parameters": [
                    {"name": "internId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Valid certificate", "schema": {"$ref": "#/definitions/VerificationSuccess"}},
                    "404": {"description": "Unknown or revoked certificate", "schema": {"$ref": "#/definitions/VerificationFailure"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Expired or revoked refresh token"}
                }
            }
        },
        "/api/v1/certificates": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List certificates",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "domain", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "revoked"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Certificates page", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Certificates"],
                "summary": "Issue a single certificate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CertificateInput"}}
                ],
                "responses": {
                    "201": {"description": "Certificate created"},
                    "400": {"description": "Validation failed"},
                    "409": {"description": "Intern ID already exists"}
                }
            }
        },
        "/api/v1/certificates/bulk": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Bulk import certificates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkImportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Every row imported"},
                    "207": {"description": "Mixed outcome, see details"},
                    "400": {"description": "Malformed envelope, oversize batch or every row failed"}
                }
            }
        },
        "/api/v1/certificates/{internId}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Get certificate detail",
                "parameters": [
                    {"name": "internId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Certificate"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Certificates"],
                "summary": "Update a certificate",
                "responses": {
                    "200": {"description": "Updated certificate"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Certificates"],
                "summary": "Delete a certificate",
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/certificates/{internId}/revoke": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Revoke a certificate",
                "responses": {
                    "200": {"description": "Revoked certificate"}
                }
            }
        },
        "/api/v1/certificates/{internId}/pdf": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download the printable certificate",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/api/v1/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "responses": {
                    "200": {"description": "Programs page"}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "responses": {
                    "201": {"description": "Program created"}
                }
            }
        },
        "/api/v1/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Request a roster export",
                "responses": {
                    "202": {"description": "Job accepted"}
                }
            }
        },
        "/api/v1/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "responses": {
                    "200": {"description": "Job status with signed download token when ready"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CertificateInput": {
            "type": "object",
            "required": ["internId", "name", "domain", "duration", "startingDate", "completionDate"],
            "properties": {
                "internId": {"type": "string"},
                "name": {"type": "string"},
                "domain": {"type": "string"},
                "duration": {"type": "integer"},
                "startingDate": {"type": "string", "description": "DD-MM-YYYY or YYYY-MM-DD"},
                "completionDate": {"type": "string", "description": "DD-MM-YYYY or YYYY-MM-DD"},
                "email": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "revoked"]}
            }
        },
        "BulkImportRequest": {
            "type": "object",
            "required": ["certificates"],
            "properties": {
                "certificates": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CertificateInput"}
                }
            }
        },
        "VerificationSuccess": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "Name": {"type": "string"},
                "Domain": {"type": "string"},
                "Duration": {"type": "integer"},
                "Intern ID": {"type": "string"},
                "Starting Date": {"type": "string"},
                "Completion Date": {"type": "string"}
            }
        },
        "VerificationFailure": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
