// Package docs registers the OpenAPI description of the v1 API with swag.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/google": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with Google",
                "security": [],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GoogleSignInDTO"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Session"}},
                    "401": {"description": "Invalid Google token", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}},
                    "403": {"description": "Email not whitelisted or account inactive", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Get the current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}}
            }
        },
        "/rooms": {
            "get": {
                "tags": ["rooms"],
                "summary": "List the landlord's rooms",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.RoomOverview"}}}}
            },
            "post": {
                "tags": ["rooms"],
                "summary": "Create a room",
                "parameters": [{"in": "body", "name": "room", "required": true, "schema": {"$ref": "#/definitions/dto.RoomCreateDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Room"}},
                    "409": {"description": "Room number already exists", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Get a room",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Room"}}}
            },
            "patch": {
                "tags": ["rooms"],
                "summary": "Update a room",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "room", "required": true, "schema": {"$ref": "#/definitions/dto.RoomUpdateDTO"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Room"}}}
            }
        },
        "/rooms/{id}/tenant": {
            "delete": {
                "tags": ["rooms"],
                "summary": "Vacate a room",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/rooms/{id}/meter-readings": {
            "get": {
                "tags": ["meter-readings"],
                "summary": "List a room's meter readings",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.MeterReading"}}}}
            }
        },
        "/meter-readings": {
            "get": {
                "tags": ["meter-readings"],
                "summary": "List recent meter readings",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.MeterReading"}}}}
            },
            "post": {
                "tags": ["meter-readings"],
                "summary": "Record a meter reading",
                "parameters": [{"in": "body", "name": "reading", "required": true, "schema": {"$ref": "#/definitions/dto.MeterReadingCreateDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.ReadingResult"}},
                    "409": {"description": "Reading for this month already exists", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/meter-readings/{id}": {
            "put": {
                "tags": ["meter-readings"],
                "summary": "Correct a meter reading",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "reading", "required": true, "schema": {"$ref": "#/definitions/dto.MeterReadingUpdateDTO"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ReadingResult"}}}
            }
        },
        "/billings": {
            "get": {
                "tags": ["billings"],
                "summary": "List billings",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/service.BillingView"}}}}
            },
            "post": {
                "tags": ["billings"],
                "summary": "Create a billing manually",
                "parameters": [{"in": "body", "name": "billing", "required": true, "schema": {"$ref": "#/definitions/dto.ManualBillingCreateDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Billing"}},
                    "409": {"description": "Billing for this month already exists", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/billings/pending-count": {
            "get": {
                "tags": ["billings"],
                "summary": "Count pending billings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PendingCountDTO"}}}
            }
        },
        "/billings/{id}": {
            "get": {
                "tags": ["billings"],
                "summary": "Get a billing",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.BillingView"}}}
            }
        },
        "/billings/{id}/payment-proofs": {
            "get": {
                "tags": ["payment-proofs"],
                "summary": "List a billing's payment proofs",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PaymentProof"}}}}
            },
            "post": {
                "tags": ["payment-proofs"],
                "summary": "Submit a payment proof",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "proof", "required": true, "schema": {"$ref": "#/definitions/dto.PaymentProofCreateDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.PaymentProof"}},
                    "409": {"description": "Billing verified or a proof is already pending", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/payment-proofs/pending": {
            "get": {
                "tags": ["payment-proofs"],
                "summary": "List proofs awaiting verification",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PaymentProof"}}}}
            }
        },
        "/payment-proofs/{id}": {
            "delete": {
                "tags": ["payment-proofs"],
                "summary": "Reject a payment proof",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Proof already verified", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/payment-proofs/{id}/verify": {
            "post": {
                "tags": ["payment-proofs"],
                "summary": "Verify a payment proof",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PaymentProof"}},
                    "409": {"description": "Already verified", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/payment-proofs/{id}/receipt": {
            "get": {
                "tags": ["payment-proofs"],
                "summary": "Get a download link for a receipt",
                "description": "Returns a presigned URL valid for 15 minutes. Available to the owning landlord and the billed tenant.",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SignedURLDTO"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorDTO"}}
                }
            }
        },
        "/due-date-status": {
            "get": {
                "tags": ["billings"],
                "summary": "Compute a due-date status",
                "parameters": [
                    {"in": "query", "name": "month", "type": "string", "required": true},
                    {"in": "query", "name": "due_day", "type": "integer", "required": true},
                    {"in": "query", "name": "status", "type": "string", "enum": ["PENDING", "PAID", "VERIFIED"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/billing.DueDateStatus"}}}
            }
        },
        "/landlords": {
            "get": {
                "tags": ["accounts"],
                "summary": "List landlords",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.UserSummary"}}}}
            },
            "post": {
                "tags": ["accounts"],
                "summary": "Create a landlord",
                "parameters": [{"in": "body", "name": "landlord", "required": true, "schema": {"$ref": "#/definitions/dto.UserCreateDTO"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.User"}}}
            }
        },
        "/tenants": {
            "get": {
                "tags": ["accounts"],
                "summary": "List the landlord's tenants",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.UserSummary"}}}}
            },
            "post": {
                "tags": ["accounts"],
                "summary": "Create a tenant",
                "parameters": [{"in": "body", "name": "tenant", "required": true, "schema": {"$ref": "#/definitions/dto.TenantCreateDTO"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.User"}}}
            }
        },
        "/uploads/meter-photo": {
            "post": {
                "tags": ["uploads"],
                "summary": "Upload a meter photo",
                "consumes": ["multipart/form-data"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.UploadResponseDTO"}}}
            }
        },
        "/uploads/payment-receipt": {
            "post": {
                "tags": ["uploads"],
                "summary": "Upload a payment receipt",
                "consumes": ["multipart/form-data"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.UploadResponseDTO"}}}
            }
        }
    },
    "definitions": {
        "dto.ErrorDTO": {"type": "object", "properties": {"error": {"type": "string"}}},
        "dto.GoogleSignInDTO": {"type": "object", "required": ["id_token"], "properties": {"id_token": {"type": "string"}}},
        "dto.RoomCreateDTO": {
            "type": "object",
            "required": ["room_number", "monthly_rent", "wifi_fee", "electricity_rate_per_kwh", "billing_due_day"],
            "properties": {
                "room_number": {"type": "string", "maxLength": 20},
                "monthly_rent": {"type": "string", "example": "1500000"},
                "wifi_fee": {"type": "string", "example": "100000"},
                "electricity_rate_per_kwh": {"type": "string", "example": "1444.70"},
                "billing_due_day": {"type": "integer", "minimum": 1, "maximum": 31}
            }
        },
        "dto.RoomUpdateDTO": {
            "type": "object",
            "properties": {
                "monthly_rent": {"type": "string"},
                "wifi_fee": {"type": "string"},
                "electricity_rate_per_kwh": {"type": "string"},
                "billing_due_day": {"type": "integer", "minimum": 1, "maximum": 31}
            }
        },
        "dto.MeterReadingCreateDTO": {
            "type": "object",
            "required": ["room_id", "month", "current_reading", "meter_photo_url"],
            "properties": {
                "room_id": {"type": "string", "format": "uuid"},
                "month": {"type": "string", "example": "2024-02"},
                "current_reading": {"type": "string", "example": "1234.5"},
                "meter_photo_url": {"type": "string"}
            }
        },
        "dto.MeterReadingUpdateDTO": {
            "type": "object",
            "required": ["current_reading"],
            "properties": {"current_reading": {"type": "string"}, "meter_photo_url": {"type": "string"}}
        },
        "dto.ManualBillingCreateDTO": {
            "type": "object",
            "required": ["room_id", "month"],
            "properties": {
                "room_id": {"type": "string", "format": "uuid"},
                "month": {"type": "string", "example": "2024-02"},
                "rent_amount": {"type": "string"},
                "wifi_amount": {"type": "string"},
                "electricity_amount": {"type": "string"}
            }
        },
        "dto.PaymentProofCreateDTO": {
            "type": "object",
            "required": ["payment_method", "receipt_photo_url"],
            "properties": {
                "payment_method": {"type": "string", "enum": ["CASH", "ONLINE"]},
                "receipt_photo_url": {"type": "string"}
            }
        },
        "dto.PendingCountDTO": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "dto.UploadResponseDTO": {"type": "object", "properties": {"url": {"type": "string"}}},
        "dto.SignedURLDTO": {"type": "object", "properties": {"url": {"type": "string"}}},
        "dto.UserCreateDTO": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}}
        },
        "dto.TenantCreateDTO": {
            "type": "object",
            "required": ["name", "email", "password", "room_id", "billing_due_day"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "room_id": {"type": "string", "format": "uuid"},
                "billing_due_day": {"type": "integer", "minimum": 1, "maximum": 31}
            }
        },
        "billing.DueDateStatus": {
            "type": "object",
            "properties": {
                "due_date": {"type": "string", "format": "date-time"},
                "days_until_due": {"type": "integer"},
                "is_past_due": {"type": "boolean"},
                "is_due_soon": {"type": "boolean"},
                "status_text": {"type": "string"},
                "status_color": {"type": "string", "enum": ["green", "yellow", "red", "gray"]}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "LANDLORD", "TENANT"]},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "model.UserSummary": {
            "allOf": [{"$ref": "#/definitions/model.User"}],
            "properties": {"rooms_owned": {"type": "integer"}, "room_number": {"type": "string"}}
        },
        "model.Room": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "landlord_id": {"type": "string"},
                "room_number": {"type": "string"},
                "monthly_rent": {"type": "string"},
                "wifi_fee": {"type": "string"},
                "electricity_rate_per_kwh": {"type": "string"},
                "billing_due_day": {"type": "integer"},
                "tenant_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "model.RoomOverview": {
            "allOf": [{"$ref": "#/definitions/model.Room"}],
            "properties": {
                "tenant_name": {"type": "string"},
                "tenant_email": {"type": "string"},
                "meter_reading_count": {"type": "integer"},
                "billing_count": {"type": "integer"}
            }
        },
        "model.MeterReading": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "room_id": {"type": "string"},
                "month": {"type": "string"},
                "previous_reading": {"type": "string"},
                "current_reading": {"type": "string"},
                "usage": {"type": "string"},
                "meter_photo_url": {"type": "string"},
                "recorded_by": {"type": "string"},
                "room_number": {"type": "string"},
                "tenant_name": {"type": "string"},
                "recorded_by_name": {"type": "string"}
            }
        },
        "model.Billing": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "room_id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "month": {"type": "string"},
                "rent_amount": {"type": "string"},
                "wifi_amount": {"type": "string"},
                "electricity_amount": {"type": "string"},
                "total_amount": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "PAID", "VERIFIED"]},
                "room_number": {"type": "string"},
                "billing_due_day": {"type": "integer"}
            }
        },
        "model.PaymentProof": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "billing_id": {"type": "string"},
                "payment_method": {"type": "string", "enum": ["CASH", "ONLINE"]},
                "receipt_photo_url": {"type": "string"},
                "uploaded_by": {"type": "string"},
                "verified_by": {"type": "string"},
                "verified_at": {"type": "string", "format": "date-time"},
                "uploaded_by_name": {"type": "string"},
                "verified_by_name": {"type": "string"}
            }
        },
        "service.BillingView": {
            "allOf": [{"$ref": "#/definitions/model.Billing"}],
            "properties": {
                "meter_reading": {"$ref": "#/definitions/model.MeterReading"},
                "due_status": {"$ref": "#/definitions/billing.DueDateStatus"}
            }
        },
        "service.ReadingResult": {
            "type": "object",
            "properties": {
                "reading": {"$ref": "#/definitions/model.MeterReading"},
                "billing": {"$ref": "#/definitions/model.Billing"}
            }
        },
        "service.Session": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Boarding House API",
	Description:      "Rooms, meter readings, monthly billings and payment proofs of a boarding house.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
