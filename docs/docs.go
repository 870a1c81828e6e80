// Package docs registers the OpenAPI document served at /swagger.
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
        "/health": {
            "get": {
                "description": "Reports liveness and the size of the loaded benchmark corpus",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/score": {
            "post": {
                "description": "Computes the PCS, benchmark percentile and risk tier for a feature vector",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Score a protocol",
                "parameters": [
                    {
                        "description": "Protocol feature vector",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.ScoreRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/protocols": {
            "get": {
                "produces": ["application/json"],
                "tags": ["protocols"],
                "summary": "List demo protocols",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/protocols.Protocol"}}}
                }
            }
        },
        "/protocols/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["protocols"],
                "summary": "Get a demo protocol",
                "parameters": [
                    {"type": "string", "description": "Protocol id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/protocols.Protocol"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/protocols/{id}/score": {
            "post": {
                "produces": ["application/json"],
                "tags": ["protocols"],
                "summary": "Score a demo protocol",
                "parameters": [
                    {"type": "string", "description": "Protocol id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScoreResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/benchmark": {
            "get": {
                "description": "Returns the reference corpus with summary statistics",
                "produces": ["application/json"],
                "tags": ["benchmark"],
                "summary": "Benchmark corpus",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BenchmarkResponse"}}
                }
            }
        },
        "/benchmark/phases": {
            "get": {
                "produces": ["application/json"],
                "tags": ["benchmark"],
                "summary": "Compare a score with per-phase corpus means",
                "parameters": [
                    {"type": "number", "description": "Candidate PCS", "name": "score", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.PhaseComparison"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "analysis.BenchmarkRecord": {
            "type": "object",
            "properties": {
                "protocol_id": {"type": "string"},
                "study_type": {"type": "string", "enum": ["Interventional", "Observational"]},
                "phase": {"description": "1-4, or \"N/A\" for observational studies"},
                "final_pcs_score": {"type": "number"}
            }
        },
        "analysis.ComplexityVector": {
            "type": "object",
            "properties": {
                "num_objectives": {"type": "integer"},
                "num_endpoints": {"type": "integer"},
                "num_eligibility_criteria": {"type": "integer"},
                "num_countries": {"type": "integer"}
            }
        },
        "analysis.Contributor": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "contribution": {"type": "number"}
            }
        },
        "analysis.CorpusSummary": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "mean": {"type": "number"},
                "median": {"type": "number"},
                "mad": {"type": "number"}
            }
        },
        "analysis.PatientBurdenVector": {
            "type": "object",
            "properties": {
                "num_visits": {"type": "integer"},
                "num_procedures_per_visit": {"type": "integer"},
                "is_invasive_procedure": {"type": "boolean"},
                "num_patient_reported_outcomes": {"type": "integer"}
            }
        },
        "analysis.PhaseAverage": {
            "type": "object",
            "properties": {
                "phase": {"type": "string"},
                "count": {"type": "integer"},
                "average": {"type": "number"}
            }
        },
        "analysis.PhaseComparison": {
            "type": "object",
            "properties": {
                "phases": {"type": "array", "items": {"$ref": "#/definitions/analysis.PhaseAverage"}},
                "candidate": {"type": "number"},
                "scale": {"type": "number"},
                "corpus_count": {"type": "integer"}
            }
        },
        "analysis.RiskProfile": {
            "type": "object",
            "properties": {
                "level": {"type": "string", "enum": ["Low", "Medium", "Critical"]},
                "label": {"type": "string"},
                "explanation": {"type": "string"}
            }
        },
        "analysis.ScoringResult": {
            "type": "object",
            "properties": {
                "pcsScore": {"type": "number"},
                "benchmarkPercentile": {"type": "integer"},
                "riskProfile": {"$ref": "#/definitions/analysis.RiskProfile"},
                "subScores": {"$ref": "#/definitions/analysis.VectorScores"},
                "contributors": {"type": "array", "items": {"$ref": "#/definitions/analysis.Contributor"}}
            }
        },
        "analysis.SiteBurdenVector": {
            "type": "object",
            "properties": {
                "num_crf_pages": {"type": "integer"},
                "num_data_points": {"type": "integer"},
                "is_specialized_equipment_required": {"type": "boolean"},
                "num_investigators_per_site": {"type": "integer"}
            }
        },
        "analysis.VectorScores": {
            "type": "object",
            "properties": {
                "complexityScore": {"type": "number"},
                "patientBurdenScore": {"type": "number"},
                "siteBurdenScore": {"type": "number"}
            }
        },
        "protocols.Protocol": {
            "type": "object",
            "properties": {
                "protocol_id": {"type": "string"},
                "title": {"type": "string"},
                "sponsor": {"type": "string"},
                "study_type": {"type": "string"},
                "phase": {"description": "1-4, or \"N/A\""},
                "complexity": {"$ref": "#/definitions/analysis.ComplexityVector"},
                "patient_burden": {"$ref": "#/definitions/analysis.PatientBurdenVector"},
                "site_burden": {"$ref": "#/definitions/analysis.SiteBurdenVector"}
            }
        },
        "types.BenchmarkResponse": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"$ref": "#/definitions/analysis.BenchmarkRecord"}},
                "summary": {"$ref": "#/definitions/analysis.CorpusSummary"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "category": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": true},
                        "timestamp": {"type": "string"}
                    }
                }
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "corpusSize": {"type": "integer"},
                "corpusSource": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "types.ScoreRequest": {
            "type": "object",
            "required": ["complexity", "patient_burden", "site_burden"],
            "properties": {
                "complexity": {"$ref": "#/definitions/analysis.ComplexityVector"},
                "patient_burden": {"$ref": "#/definitions/analysis.PatientBurdenVector"},
                "site_burden": {"$ref": "#/definitions/analysis.SiteBurdenVector"}
            }
        },
        "types.ScoreResponse": {
            "type": "object",
            "properties": {
                "requestId": {"type": "string"},
                "protocolId": {"type": "string"},
                "result": {"$ref": "#/definitions/analysis.ScoringResult"},
                "scoredAt": {"type": "string"},
                "cached": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Protocol Complexity Score API",
	Description:      "Scores clinical-trial protocols for operational complexity and benchmarks them against historical protocols.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
