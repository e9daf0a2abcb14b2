package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Signup Sheets API",
        "description": "Course rosters, time-slotted sign-up sheets and grades.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Courses and rosters"},
        {"name": "Sheets", "description": "Sign-up sheets, slot batches and exports"},
        {"name": "Signups", "description": "Seat reservations on slots"},
        {"name": "Grades", "description": "Per-sheet grade ledger"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Snapshot not loaded"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or duplicate course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}": {
            "parameters": [{"name": "courseId", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Courses"],
                "summary": "Get course with roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course with its sheets and grades",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/members": {
            "parameters": [{"name": "courseId", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Courses"],
                "summary": "List roster",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Bulk add roster members",
                "description": "Accepts either {\"members\": [...]} or a bare array. Existing ids and names are reported as ignored.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddMembersRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/{courseId}/members/{memberId}": {
            "delete": {
                "tags": ["Courses"],
                "summary": "Remove a member from the roster, its sign-ups and grades",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"},
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/courses/{courseId}/sheets": {
            "parameters": [{"name": "courseId", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Sheets"],
                "summary": "List sheets of a course",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Sheets"],
                "summary": "Create sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSheetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/sheets/{id}": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Sheets"],
                "summary": "Get sheet with slots",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Sheets"],
                "summary": "Delete sheet with its slots and grades",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/sheets/{id}/slots": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Sheets"],
                "summary": "List slots",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Sheets"],
                "summary": "Create a batch of identical slots",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlotsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid numeric field or batch too large"}
                }
            }
        },
        "/sheets/{id}/export": {
            "get": {
                "tags": ["Sheets"],
                "summary": "Export sheet roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/sheets/{id}/grades": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Grades"],
                "summary": "List grades of a sheet",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Submit or merge a grade on a sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {"200": {"description": "Merged"}, "201": {"description": "Created"}}
            }
        },
        "/sheets/{id}/grades/{memberId}": {
            "delete": {
                "tags": ["Grades"],
                "summary": "Delete a member's grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/slots/{slotId}": {
            "get": {
                "tags": ["Signups"],
                "summary": "Get slot",
                "parameters": [{"name": "slotId", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/slots/{slotId}/signup": {
            "post": {
                "tags": ["Signups"],
                "summary": "Sign a member up for a slot",
                "parameters": [
                    {"name": "slotId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Signed up"},
                    "400": {"description": "Invalid member, already signed up or slot full"},
                    "404": {"description": "Slot not found"}
                }
            }
        },
        "/slots/{slotId}/signup/{memberId}": {
            "delete": {
                "tags": ["Signups"],
                "summary": "Withdraw a member from a slot",
                "parameters": [
                    {"name": "slotId", "in": "path", "required": true, "type": "integer"},
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Withdrawn"}, "404": {"description": "Not signed up"}}
            }
        },
        "/grades": {
            "post": {
                "tags": ["Grades"],
                "summary": "Submit or merge a grade",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {"200": {"description": "Merged"}, "201": {"description": "Created"}}
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "string"},
                "section": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "MemberRequest": {
            "type": "object",
            "required": ["id", "name"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "ta", "instructor"]}
            }
        },
        "AddMembersRequest": {
            "type": "object",
            "properties": {
                "members": {"type": "array", "items": {"$ref": "#/definitions/MemberRequest"}}
            }
        },
        "CreateSheetRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "notBefore": {"type": "string"},
                "notAfter": {"type": "string"}
            }
        },
        "CreateSlotsRequest": {
            "type": "object",
            "required": ["start", "slotDuration", "numSlots", "maxMembers"],
            "properties": {
                "start": {"type": "string"},
                "slotDuration": {"type": "integer"},
                "numSlots": {"type": "integer"},
                "maxMembers": {"type": "integer"}
            }
        },
        "SignupRequest": {
            "type": "object",
            "required": ["memberId"],
            "properties": {
                "memberId": {"type": "string"}
            }
        },
        "GradeRequest": {
            "type": "object",
            "required": ["memberId", "sheetId", "grade"],
            "properties": {
                "memberId": {"type": "string"},
                "sheetId": {"type": "integer"},
                "grade": {"type": "integer", "minimum": 0, "maximum": 100},
                "comment": {"type": "string"}
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
