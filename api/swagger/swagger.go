package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AulaMarket API",
        "description": "Course marketplace backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Accounts, sessions and password recovery"},
        {"name": "Courses", "description": "Public catalog and instructor course management"},
        {"name": "Enrollments", "description": "Enrollment and lesson progress"},
        {"name": "Payments", "description": "Checkout and gateway confirmation"},
        {"name": "Certificates", "description": "Completion certificates"},
        {"name": "Uploads", "description": "Direct-upload URLs for lesson videos"},
        {"name": "Admin", "description": "Administration panel"}
    ],
    "paths": {
        "/auth/registro": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for a JWT",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Request a password reset token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/auth/reset-password/{token}": {
            "post": {
                "tags": ["Auth"],
                "summary": "Reset the password with a token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Token invalid, used or expired"}
                }
            }
        },
        "/auth/perfil": {
            "get": {
                "tags": ["Auth"],
                "summary": "Read the caller profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Auth"],
                "summary": "Update the caller profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cursos": {
            "get": {
                "tags": ["Courses"],
                "summary": "List published courses",
                "parameters": [
                    {"name": "categoria", "in": "query", "type": "string"},
                    {"name": "buscar", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cursos/mis-cursos": {
            "get": {
                "tags": ["Courses"],
                "summary": "List the caller's own courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cursos/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get a published course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not published or unknown"}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update an owned course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete an owned course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/cursos/{id}/contenido": {
            "get": {
                "tags": ["Courses"],
                "summary": "Full module and lesson tree",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not enrolled and not the owner"}
                }
            }
        },
        "/cursos/{id}/modulos": {
            "post": {
                "tags": ["Courses"],
                "summary": "Add a module to an owned course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateModuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/modulos/{id}": {
            "put": {
                "tags": ["Courses"],
                "summary": "Update a module",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateModuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete a module",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/modulos/{id}/lecciones": {
            "post": {
                "tags": ["Courses"],
                "summary": "Add a lesson to a module",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecciones/{id}": {
            "put": {
                "tags": ["Courses"],
                "summary": "Update a lesson",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete a lesson",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/cursos/{id}/inscripcion": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll in a published course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/usuario/inscripciones": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List the caller's enrollments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cursos/{id}/lecciones/{leccionId}/completar": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Mark a lesson completed",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "leccionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not enrolled"}
                }
            }
        },
        "/pagos/iniciar": {
            "post": {
                "tags": ["Payments"],
                "summary": "Start checkout for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InitiatePaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagos/confirmar": {
            "post": {
                "tags": ["Payments"],
                "summary": "Gateway confirmation webhook",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentWebhookRequest"}}
                ],
                "responses": {
                    "200": {"description": "Acknowledged"},
                    "401": {"description": "Invalid signature"}
                }
            }
        },
        "/usuario/certificados": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List the caller's completed courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificados/{id}/verificar": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Publicly verify a certificate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Course not completed"}
                }
            }
        },
        "/certificados/{id}/pdf": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download the certificate PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/upload/video/presign": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Request a direct-upload URL for a lesson video",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PresignVideoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/upload/imagen/presign": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Request a direct-upload URL for a course cover image",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PresignImageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/estadisticas": {
            "get": {
                "tags": ["Admin"],
                "summary": "Platform dashboard counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/ganancias": {
            "get": {
                "tags": ["Admin"],
                "summary": "Instructor earnings for a month",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "mes", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/usuarios": {
            "get": {
                "tags": ["Admin"],
                "summary": "List all accounts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "buscar", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/usuarios/{id}/rol": {
            "put": {
                "tags": ["Admin"],
                "summary": "Force-change a user's role",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/usuarios/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/cursos": {
            "get": {
                "tags": ["Admin"],
                "summary": "List courses in any state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "estado", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/cursos/{id}/inscripciones": {
            "post": {
                "tags": ["Admin"],
                "summary": "Enroll a named user in a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GrantEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/admin/cursos/{id}/revisar": {
            "put": {
                "tags": ["Admin"],
                "summary": "Resolve a pending course review",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Course is not pending review"}
                }
            }
        },
        "/admin/cursos/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Force-delete any course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/maintenance": {
            "get": {
                "tags": ["Admin"],
                "summary": "Read the maintenance flag",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Toggle the maintenance flag",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MaintenanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["nombre", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "bio": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descripcion": {"type": "string"},
                "categoria": {"type": "string"},
                "precio": {"type": "number"},
                "imagen_url": {"type": "string"}
            },
            "required": ["titulo", "descripcion", "categoria"]
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descripcion": {"type": "string"},
                "categoria": {"type": "string"},
                "precio": {"type": "number"},
                "imagen_url": {"type": "string"}
            }
        },
        "ReviewCourseRequest": {
            "type": "object",
            "properties": {
                "estado": {"type": "string", "enum": ["publicado", "rechazado"]}
            },
            "required": ["estado"]
        },
        "CreateModuleRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "orden": {"type": "integer"}
            },
            "required": ["titulo"]
        },
        "UpdateModuleRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "orden": {"type": "integer"}
            }
        },
        "CreateLessonRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "tipo": {"type": "string", "enum": ["video", "texto", "quiz"]},
                "contenido": {"type": "string"},
                "video_url": {"type": "string"},
                "orden": {"type": "integer"}
            },
            "required": ["titulo", "tipo"]
        },
        "UpdateLessonRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "tipo": {"type": "string", "enum": ["video", "texto", "quiz"]},
                "contenido": {"type": "string"},
                "video_url": {"type": "string"},
                "orden": {"type": "integer"}
            }
        },
        "InitiatePaymentRequest": {
            "type": "object",
            "properties": {
                "curso_id": {"type": "string"}
            },
            "required": ["curso_id"]
        },
        "PaymentWebhookRequest": {
            "type": "object",
            "properties": {
                "referencia": {"type": "string"},
                "estado": {"type": "string", "enum": ["pagado", "fallido", "cancelado"]},
                "monto": {"type": "number"},
                "firma_integridad": {"type": "string"}
            },
            "required": ["referencia", "estado", "monto", "firma_integridad"]
        },
        "PresignVideoRequest": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"}
            },
            "required": ["filename"]
        },
        "PresignImageRequest": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"}
            },
            "required": ["filename"]
        },
        "GrantEnrollmentRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"}
            },
            "required": ["user_id"]
        },
        "ChangeRoleRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["STUDENT", "INSTRUCTOR", "ADMIN", "SUPERADMIN"]}
            },
            "required": ["role"]
        },
        "MaintenanceRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"}
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
