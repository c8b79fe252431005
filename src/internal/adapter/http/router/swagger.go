package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Account Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Account Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/accounts": {
      "get": {
        "summary": "List accounts",
        "security": [{"BasicAuth": []}],
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      },
      "post": {
        "summary": "Create account",
        "security": [{"BasicAuth": []}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["owner", "currency"], "properties": {"accountId": {"type": "string"}, "owner": {"type": "string"}, "currency": {"type": "string", "minLength": 3, "maxLength": 3}, "initialBalance": {"type": "string"}, "status": {"type": "string", "enum": ["active", "suspended", "closed"]}}}}}},
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "409": {"description": "Account already exists"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}": {
      "get": {
        "summary": "Get account",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      },
      "delete": {
        "summary": "Remove account",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/deposit": {
      "post": {
        "summary": "Deposit funds",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "string"}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/withdraw": {
      "post": {
        "summary": "Withdraw funds",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "string"}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/interest": {
      "post": {
        "summary": "Apply interest",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["ratePercent"], "properties": {"ratePercent": {"type": "string"}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/status": {
      "put": {
        "summary": "Set account status",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["active", "suspended", "closed"]}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/transactions": {
      "get": {
        "summary": "List account transactions",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/holdings": {
      "get": {
        "summary": "Share positions with market value and unrealized profit or loss",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}, "422": {"description": "No price for a held symbol"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/buy": {
      "post": {
        "summary": "Buy shares with account cash",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["symbol", "quantity"], "properties": {"symbol": {"type": "string"}, "quantity": {"type": "integer", "format": "int64", "minimum": 1}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{id}/sell": {
      "post": {
        "summary": "Sell held shares",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["symbol", "quantity"], "properties": {"symbol": {"type": "string"}, "quantity": {"type": "integer", "format": "int64", "minimum": 1}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/transfers": {
      "post": {
        "summary": "Transfer funds",
        "security": [{"BasicAuth": []}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "required": ["fromAccountId", "toAccountId", "amount"], "properties": {"fromAccountId": {"type": "string"}, "toAccountId": {"type": "string"}, "amount": {"type": "string"}}}}}},
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Account not found"}, "422": {"description": "Rejected"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/balances/{currency}": {
      "get": {
        "summary": "Total balance for a currency",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "currency", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}}
      }
    },
    "/healthz": {
      "get": {
        "summary": "Liveness probe",
        "responses": {"200": {"description": "OK"}}
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {"type": "http", "scheme": "basic"}
    }
  }
}`
