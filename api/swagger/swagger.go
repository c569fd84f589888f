package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Department Schedule API",
        "description": "Conflict detection, course grouping and schedule optimisation for department course offerings.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "in": "header",
            "name": "Authorization"
        }
    },
    "tags": [
        {
            "name": "Courses",
            "description": "Stored sections and CSV import"
        },
        {
            "name": "Analysis",
            "description": "Conflicts, stacked pairs and course groups"
        },
        {
            "name": "Optimizer",
            "description": "Conflict-reducing schedule permutations"
        },
        {
            "name": "Drafts",
            "description": "Saved what-if schedules"
        },
        {
            "name": "Exports",
            "description": "Conflict reports"
        },
        {
            "name": "Metrics",
            "description": "Process metrics"
        }
    ],
    "paths": {
        "/terms": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "List terms with stored sections",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "List sections of a term",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/courses/import": {
            "post": {
                "tags": [
                    "Courses"
                ],
                "summary": "Import a canonical course CSV",
                "parameters": [
                    {
                        "name": "term",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "required": true,
                        "type": "file"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/analysis/conflicts": {
            "get": {
                "tags": [
                    "Analysis"
                ],
                "summary": "Detect scheduling conflicts for a term",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "hideStacked",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "hideCoreqs",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/analysis/groups": {
            "get": {
                "tags": [
                    "Analysis"
                ],
                "summary": "Group sections into stacked and corequisite sets",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/analysis/stacked": {
            "get": {
                "tags": [
                    "Analysis"
                ],
                "summary": "List undergraduate and graduate stacked pairs",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/analysis/summary": {
            "get": {
                "tags": [
                    "Analysis"
                ],
                "summary": "Term overview with conflict and group counts",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "hideStacked",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "hideCoreqs",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/optimizer/preview": {
            "post": {
                "tags": [
                    "Optimizer"
                ],
                "summary": "Search conflict-reducing schedule permutations",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/OptimizeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/optimizer/runs": {
            "get": {
                "tags": [
                    "Optimizer"
                ],
                "summary": "List retained optimization runs",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Optimizer"
                ],
                "summary": "Queue a background optimization run",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/OptimizeRequest"
                        }
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/optimizer/runs/{id}": {
            "get": {
                "tags": [
                    "Optimizer"
                ],
                "summary": "Fetch progress and results of a run",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Optimizer"
                ],
                "summary": "Cancel a queued or running optimization",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/drafts": {
            "get": {
                "tags": [
                    "Drafts"
                ],
                "summary": "List drafts of a term",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Save a draft schedule",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateDraftRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/drafts/{id}": {
            "get": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Fetch a draft with its sections and conflicts",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Delete an unpublished draft",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/drafts/{id}/optimize": {
            "post": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Search permutations of a draft's sections",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/OptimizeOptions"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/drafts/{id}/publish": {
            "post": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Publish a draft, making it read-only",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/exports/conflicts": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Render a conflict report as CSV or PDF",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ExportConflictsRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/exports/download": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download a rendered report through its signed token",
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    }
                },
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Metrics"
                ],
                "summary": "Process metrics snapshot",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "OptimizeOptions": {
            "type": "object",
            "properties": {
                "maxPermutations": {
                    "type": "integer"
                },
                "maxTimeMs": {
                    "type": "integer"
                },
                "allowTimeChange": {
                    "type": "boolean"
                },
                "allowRoomChange": {
                    "type": "boolean"
                },
                "allowInstructorChange": {
                    "type": "boolean"
                },
                "allowCampusChange": {
                    "type": "boolean"
                }
            }
        },
        "OptimizeRequest": {
            "type": "object",
            "required": [
                "term",
                "crns"
            ],
            "properties": {
                "term": {
                    "type": "string"
                },
                "crns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "lockedCrns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "maxPermutations": {
                    "type": "integer"
                },
                "maxTimeMs": {
                    "type": "integer"
                },
                "allowTimeChange": {
                    "type": "boolean"
                },
                "allowRoomChange": {
                    "type": "boolean"
                },
                "allowInstructorChange": {
                    "type": "boolean"
                },
                "allowCampusChange": {
                    "type": "boolean"
                }
            }
        },
        "CreateDraftRequest": {
            "type": "object",
            "required": [
                "term",
                "name",
                "crns"
            ],
            "properties": {
                "term": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "crns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "lockedCrns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "ExportConflictsRequest": {
            "type": "object",
            "required": [
                "term",
                "format"
            ],
            "properties": {
                "term": {
                    "type": "string"
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                },
                "hideStacked": {
                    "type": "boolean"
                },
                "hideCoreqs": {
                    "type": "boolean"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
