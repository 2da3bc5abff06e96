// Package docs contiene la especificación OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/api/main.go
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
		"/availability": {
			"get": {
				"tags": [
					"availability"
				],
				"summary": "Horas disponibles",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/availability.availabilityResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Fecha YYYY-MM-DD",
						"name": "date",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceId",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "ID del profesional",
						"name": "professionalId",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/availability/occupied": {
			"get": {
				"tags": [
					"availability"
				],
				"summary": "Horas ocupadas",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/availability.occupiedResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Fecha YYYY-MM-DD",
						"name": "date",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceId",
						"in": "query",
						"required": true
					}
				]
			}
		},
		"/services": {
			"get": {
				"tags": [
					"services"
				],
				"summary": "Lista servicios",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/services.serviceResponse"
							}
						}
					}
				}
			},
			"post": {
				"tags": [
					"services"
				],
				"summary": "Crea un servicio",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/services.serviceResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Servicio",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.serviceRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/services/{serviceID}": {
			"get": {
				"tags": [
					"services"
				],
				"summary": "Obtiene un servicio",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.serviceResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceID",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"services"
				],
				"summary": "Actualiza un servicio",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.serviceResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceID",
						"in": "path",
						"required": true
					},
					{
						"description": "Servicio",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.serviceRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"services"
				],
				"summary": "Elimina un servicio",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/professionals": {
			"get": {
				"tags": [
					"professionals"
				],
				"summary": "Profesionales activos",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/professionals.professionalResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Filtra por servicio",
						"name": "serviceId",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"professionals"
				],
				"summary": "Crea un profesional",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/professionals.professionalResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Profesional",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/professionals.professionalRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/professionals/all": {
			"get": {
				"tags": [
					"professionals"
				],
				"summary": "Todos los profesionales",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/professionals.professionalResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Filtra por servicio",
						"name": "serviceId",
						"in": "query",
						"required": false
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/professionals/{professionalID}": {
			"put": {
				"tags": [
					"professionals"
				],
				"summary": "Actualiza un profesional",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/professionals.professionalResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del profesional",
						"name": "professionalID",
						"in": "path",
						"required": true
					},
					{
						"description": "Profesional",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/professionals.professionalRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"professionals"
				],
				"summary": "Desactiva un profesional",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del profesional",
						"name": "professionalID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clients": {
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "Reserva una cita",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/appointments.bookResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Datos del cliente, mascota y hora",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/appointments.bookRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"clients"
				],
				"summary": "Lista clientes",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/clients.clientResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "RUT del cliente",
						"name": "taxId",
						"in": "query",
						"required": false
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clients/{clientID}": {
			"get": {
				"tags": [
					"clients"
				],
				"summary": "Obtiene un cliente",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/clients.clientResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID del cliente",
						"name": "clientID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"clients"
				],
				"summary": "Corrige un cliente",
				"description": "Reemplaza contacto y mascota. El RUT se puede corregir si no pertenece a otro cliente.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID del cliente",
						"name": "clientID",
						"in": "path",
						"required": true
					},
					{
						"description": "Cliente",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/clients.clientRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/clients.clientResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "RUT de otro cliente",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
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
					"clients"
				],
				"summary": "Elimina un cliente",
				"description": "Falla con 409 si el cliente tiene citas.",
				"parameters": [
					{
						"type": "string",
						"description": "ID del cliente",
						"name": "clientID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
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
		"/appointments": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Lista citas",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/appointments.appointmentResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Fecha YYYY-MM-DD",
						"name": "date",
						"in": "query",
						"required": false
					},
					{
						"type": "string",
						"description": "pending | confirmed | cancelled",
						"name": "status",
						"in": "query",
						"required": false
					},
					{
						"type": "string",
						"description": "ID del servicio",
						"name": "serviceId",
						"in": "query",
						"required": false
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/appointments/{appointmentID}": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Obtiene una cita",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/appointments.appointmentResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la cita",
						"name": "appointmentID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"appointments"
				],
				"summary": "Actualiza una cita",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/appointments.appointmentResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la cita",
						"name": "appointmentID",
						"in": "path",
						"required": true
					},
					{
						"description": "Campos a cambiar",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/appointments.updateRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"appointments"
				],
				"summary": "Cancela una cita",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/appointments.appointmentResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la cita",
						"name": "appointmentID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/appointments/{appointmentID}/cancel": {
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "El cliente cancela su cita",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/appointments.appointmentResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la cita",
						"name": "appointmentID",
						"in": "path",
						"required": true
					},
					{
						"description": "RUT del cliente",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/appointments.clientCancelRequest"
						}
					}
				]
			}
		},
		"/admin/login": {
			"post": {
				"tags": [
					"admins"
				],
				"summary": "Login de administrador",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/admins.loginResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Credenciales",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/admins.loginRequest"
						}
					}
				]
			}
		},
		"/admin/me": {
			"get": {
				"tags": [
					"admins"
				],
				"summary": "Administrador autenticado",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/admins.meResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
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
		"/posts": {
			"get": {
				"tags": [
					"posts"
				],
				"summary": "Lista entradas del blog",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/posts.postResponse"
							}
						}
					}
				}
			},
			"post": {
				"tags": [
					"posts"
				],
				"summary": "Crea una entrada",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/posts.postResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Entrada",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/posts.postRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/posts/{postID}": {
			"get": {
				"tags": [
					"posts"
				],
				"summary": "Obtiene una entrada",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/posts.postResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la entrada",
						"name": "postID",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"posts"
				],
				"summary": "Actualiza una entrada",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/posts.postResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la entrada",
						"name": "postID",
						"in": "path",
						"required": true
					},
					{
						"description": "Entrada",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/posts.postRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"posts"
				],
				"summary": "Elimina una entrada",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID de la entrada",
						"name": "postID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/contacts": {
			"post": {
				"tags": [
					"contacts"
				],
				"summary": "Envía un mensaje de contacto",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/httpx.MessageBody"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"description": "Mensaje",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/contacts.contactRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"contacts"
				],
				"summary": "Lista mensajes de contacto",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/contacts.contactResponse"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpx.ErrorBody"
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
		"httpx.ErrorBody": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"httpx.MessageBody": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"availability.availabilityResponse": {
			"type": "object",
			"properties": {
				"date": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"professionalId": {
					"type": "string"
				},
				"availableSlots": {
					"type": "array",
					"items": {
						"type": "string"
					},
					"example": [
						"09:00",
						"09:30"
					]
				}
			}
		},
		"availability.occupiedResponse": {
			"type": "object",
			"properties": {
				"date": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"occupied": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"time": {
								"type": "string",
								"example": "09:00"
							},
							"count": {
								"type": "integer"
							}
						}
					}
				}
			}
		},
		"services.serviceRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"durationMinutes": {
					"type": "integer",
					"enum": [
						30,
						120
					]
				},
				"price": {
					"type": "string",
					"example": "15000.00"
				}
			}
		},
		"services.serviceResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"durationMinutes": {
					"type": "integer"
				},
				"price": {
					"type": "string",
					"example": "15000.00"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"professionals.professionalRequest": {
			"type": "object",
			"properties": {
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"active": {
					"type": "boolean"
				}
			}
		},
		"professionals.professionalResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"active": {
					"type": "boolean"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				},
				"fullName": {
					"type": "string"
				}
			}
		},
		"clients.clientRequest": {
			"type": "object",
			"required": [
				"firstName",
				"lastName",
				"petName",
				"taxId"
			],
			"properties": {
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"taxId": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"petName": {
					"type": "string"
				},
				"petSpecies": {
					"type": "string",
					"enum": [
						"dog",
						"cat",
						"other"
					]
				},
				"petBreed": {
					"type": "string"
				}
			}
		},
		"clients.clientResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"taxId": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"pet": {
					"type": "object",
					"properties": {
						"name": {
							"type": "string"
						},
						"species": {
							"type": "string",
							"enum": [
								"dog",
								"cat",
								"other"
							]
						},
						"breed": {
							"type": "string"
						}
					}
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"appointments.bookRequest": {
			"type": "object",
			"properties": {
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"taxId": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"petName": {
					"type": "string"
				},
				"petSpecies": {
					"type": "string",
					"enum": [
						"dog",
						"cat",
						"other"
					]
				},
				"petBreed": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"professionalId": {
					"type": "string"
				},
				"date": {
					"type": "string",
					"example": "2024-06-10"
				},
				"time": {
					"type": "string",
					"example": "09:30"
				},
				"notes": {
					"type": "string"
				}
			}
		},
		"appointments.bookResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"clientId": {
					"type": "string"
				},
				"appointmentId": {
					"type": "string"
				},
				"status": {
					"type": "string"
				}
			}
		},
		"appointments.updateRequest": {
			"type": "object",
			"properties": {
				"date": {
					"type": "string"
				},
				"time": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"pending",
						"confirmed",
						"cancelled"
					]
				}
			}
		},
		"appointments.clientCancelRequest": {
			"type": "object",
			"properties": {
				"taxId": {
					"type": "string"
				}
			}
		},
		"appointments.appointmentResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"clientId": {
					"type": "string"
				},
				"serviceId": {
					"type": "string"
				},
				"professionalId": {
					"type": "string"
				},
				"date": {
					"type": "string"
				},
				"time": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"clientName": {
					"type": "string"
				},
				"clientTaxId": {
					"type": "string"
				},
				"clientPhone": {
					"type": "string"
				},
				"clientEmail": {
					"type": "string"
				},
				"petName": {
					"type": "string"
				},
				"serviceName": {
					"type": "string"
				},
				"professionalName": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"admins.loginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"admins.loginResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"tokenType": {
					"type": "string",
					"example": "Bearer"
				},
				"expiresAt": {
					"type": "string"
				},
				"username": {
					"type": "string"
				}
			}
		},
		"admins.meResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"expiresAt": {
					"type": "string"
				}
			}
		},
		"posts.postRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"imageUrl": {
					"type": "string"
				},
				"publishedAt": {
					"type": "string"
				}
			}
		},
		"posts.postResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"imageUrl": {
					"type": "string"
				},
				"publishedAt": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"contacts.contactRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"contacts.contactResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Token de administrador: \"Bearer <token>\"",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vet Booking API",
	Description:      "Reserva de horas para la clínica veterinaria: servicios, profesionales, disponibilidad y citas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
