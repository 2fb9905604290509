package root

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	schemaOnce sync.Once
	schemaDoc  gin.H
)

// Schema serves the OpenAPI 3 description of the API. The document is
// static, assembled once and cached by the router.
func Schema(c *gin.Context) {
	schemaOnce.Do(func() {
		schemaDoc = buildSchema()
	})

	c.JSON(http.StatusOK, schemaDoc)
}

func buildSchema() gin.H {
	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":       "Vehicle Catalog API",
			"description": "REST backend for cataloguing vehicles, tags and specifications",
			"version":     "1.0.0",
		},
		"components": gin.H{
			"securitySchemes": gin.H{
				"bearerAuth": gin.H{
					"type":   "http",
					"scheme": "bearer",
				},
			},
			"schemas": gin.H{
				"Error": gin.H{
					"type": "object",
					"properties": gin.H{
						"error":     gin.H{"type": "string"},
						"requestID": gin.H{"type": "string"},
					},
				},
				"User": gin.H{
					"type": "object",
					"properties": gin.H{
						"id":       gin.H{"type": "string"},
						"email":    gin.H{"type": "string", "format": "email"},
						"name":     gin.H{"type": "string"},
						"is_staff": gin.H{"type": "boolean"},
					},
				},
				"Tag":           attrSchema(),
				"Specification": attrSchema(),
				"Vehicle": gin.H{
					"type": "object",
					"properties": gin.H{
						"id":             gin.H{"type": "integer"},
						"title":          gin.H{"type": "string"},
						"year":           gin.H{"type": "integer"},
						"price":          gin.H{"type": "number"},
						"link":           gin.H{"type": "string"},
						"description":    gin.H{"type": "string"},
						"image":          gin.H{"type": "string", "nullable": true},
						"tags":           gin.H{"type": "array", "items": ref("Tag")},
						"specifications": gin.H{"type": "array", "items": ref("Specification")},
					},
					"required": []string{"title", "year", "price"},
				},
			},
		},
		"paths": gin.H{
			"/health-check/": gin.H{
				"get": operation("Liveness probe", false, nil),
			},
			"/schema/": gin.H{
				"get": operation("This document", false, nil),
			},
			"/user/create/": gin.H{
				"post": operation("Register a new user", false, ref("User")),
			},
			"/user/token/": gin.H{
				"post": operation("Issue a bearer token, replacing any previous one", false, nil),
			},
			"/user/me/": gin.H{
				"get":   operation("Fetch own profile", true, ref("User")),
				"put":   operation("Replace own profile", true, ref("User")),
				"patch": operation("Update own profile", true, ref("User")),
			},
			"/vehicle/tags/":                collectionPaths("Tag"),
			"/vehicle/tags/{id}/":           detailPaths("Tag"),
			"/vehicle/specifications/":      collectionPaths("Specification"),
			"/vehicle/specifications/{id}/": detailPaths("Specification"),
			"/vehicle/vehicles/":            collectionPaths("Vehicle"),
			"/vehicle/vehicles/{id}/":       detailPaths("Vehicle"),
			"/vehicle/vehicles/{id}/upload_image/": gin.H{
				"post": operation("Upload an image, replacing the previous one", true, ref("Vehicle")),
			},
		},
	}
}

func attrSchema() gin.H {
	return gin.H{
		"type": "object",
		"properties": gin.H{
			"id":   gin.H{"type": "integer"},
			"name": gin.H{"type": "string"},
		},
		"required": []string{"name"},
	}
}

func ref(name string) gin.H {
	return gin.H{"$ref": "#/components/schemas/" + name}
}

func operation(summary string, authed bool, schema gin.H) gin.H {
	op := gin.H{
		"summary": summary,
		"responses": gin.H{
			"200": response("Success", schema),
			"400": response("Validation failure", ref("Error")),
		},
	}

	if authed {
		op["security"] = []gin.H{{"bearerAuth": []string{}}}
		op["responses"].(gin.H)["401"] = response("Missing or invalid token", ref("Error"))
	}

	return op
}

func response(description string, schema gin.H) gin.H {
	resp := gin.H{"description": description}

	if schema != nil {
		resp["content"] = gin.H{
			"application/json": gin.H{"schema": schema},
		}
	}

	return resp
}

func collectionPaths(entity string) gin.H {
	return gin.H{
		"get":  operation("List own "+entity+" records", true, gin.H{"type": "array", "items": ref(entity)}),
		"post": operation("Create a "+entity, true, ref(entity)),
	}
}

func detailPaths(entity string) gin.H {
	get := operation("Fetch a "+entity, true, ref(entity))
	get["responses"].(gin.H)["404"] = response("Not found or not owned", ref("Error"))

	return gin.H{
		"get":    get,
		"put":    operation("Replace a "+entity, true, ref(entity)),
		"patch":  operation("Update a "+entity, true, ref(entity)),
		"delete": operation("Delete a "+entity, true, nil),
	}
}
