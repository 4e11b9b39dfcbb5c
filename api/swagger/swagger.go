package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Engine API",
        "description": "Constraint-satisfaction timetable generation service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/api/v1/healthz": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus scrape endpoint",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/timetables/generate": {
            "post": {
                "summary": "Generate a conflict-free timetable from a level catalogue",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "No feasible assignment exists"
                    },
                    "422": {
                        "description": "Invalid level catalogue"
                    }
                }
            }
        },
        "/api/v1/timetables/{id}": {
            "get": {
                "summary": "Fetch a previously generated timetable proposal",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Proposal not found or expired"
                    }
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
