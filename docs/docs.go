// Package docs is generated by swag from the handler annotations. Regenerate
// with `swag init -g cmd/storefront/main.go`.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/models.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Checkout"],
                "summary": "Start checkout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checkout.State"}},
                    "400": {"description": "Cart is empty", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout/pay": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Checkout"],
                "summary": "Place the order",
                "parameters": [{"in": "body", "name": "payment", "required": true, "schema": {"$ref": "#/definitions/models.PayRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/checkout.Outcome"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/payment.Options"}},
                    "409": {"description": "Payment already in progress", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout/payment/callback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Checkout"],
                "summary": "Report the payment widget result",
                "parameters": [{"in": "body", "name": "result", "required": true, "schema": {"$ref": "#/definitions/models.PaymentCallbackRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checkout.Outcome"}},
                    "400": {"description": "No payment is pending", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout/result": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Checkout"],
                "summary": "Checkout result",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checkout.Outcome"}},
                    "404": {"description": "No checkout result", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "checkout.Outcome": {
            "type": "object",
            "properties": {
                "result": {"type": "string", "enum": ["succeeded", "failed"]},
                "orderId": {"type": "string"},
                "orderAmount": {"type": "number"},
                "paymentMethod": {"type": "string"},
                "error": {"type": "string"},
                "dismissed": {"type": "boolean"}
            }
        },
        "checkout.State": {
            "type": "object",
            "properties": {
                "activeStep": {"type": "integer"},
                "stepName": {"type": "string"},
                "isNewAddress": {"type": "boolean"},
                "placing": {"type": "boolean"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.PayRequest": {
            "type": "object",
            "required": ["paymentMethod"],
            "properties": {"paymentMethod": {"type": "string", "enum": ["cash_on_delivery", "razorpay"]}}
        },
        "models.PaymentCallbackRequest": {
            "type": "object",
            "properties": {
                "razorpay_payment_id": {"type": "string"},
                "razorpay_order_id": {"type": "string"},
                "razorpay_signature": {"type": "string"},
                "dismissed": {"type": "boolean"}
            }
        },
        "models.SignupRequest": {
            "type": "object",
            "required": ["email", "firstName", "lastName", "password"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "phoneNumber": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "payment.Options": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "amount": {"type": "integer"},
                "currency": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "order_id": {"type": "string"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "redirect": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront Session Gateway API",
	Description:      "Session-scoped storefront state, checkout and payment orchestration in front of the store backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
