// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/readyz": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/version": {
            "get": {
                "tags": ["health"],
                "summary": "Build version",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/progression/message": {
            "post": {
                "tags": ["progression"],
                "summary": "Award message XP",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/progression/voice": {
            "post": {
                "tags": ["progression"],
                "summary": "Award voice activity",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/progression/image": {
            "post": {
                "tags": ["progression"],
                "summary": "Award image share",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/progression/prestige": {
            "post": {
                "tags": ["progression"],
                "summary": "Prestige",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/progression/account/{userID}": {
            "get": {
                "tags": ["progression"],
                "summary": "Get account",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/progression/leaderboard": {
            "get": {
                "tags": ["progression"],
                "summary": "Leaderboard",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/catalog": {
            "get": {
                "tags": ["investments"],
                "summary": "Property catalog",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/attention": {
            "get": {
                "tags": ["investments"],
                "summary": "Properties needing attention",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/portfolio/{userID}": {
            "get": {
                "tags": ["investments"],
                "summary": "Portfolio",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/purchase": {
            "post": {
                "tags": ["investments"],
                "summary": "Purchase a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/sell": {
            "post": {
                "tags": ["investments"],
                "summary": "Sell a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/maintain": {
            "post": {
                "tags": ["investments"],
                "summary": "Maintain a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/repair": {
            "post": {
                "tags": ["investments"],
                "summary": "Repair a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/collect": {
            "post": {
                "tags": ["investments"],
                "summary": "Collect income",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/collect-all": {
            "post": {
                "tags": ["investments"],
                "summary": "Collect all income",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/investments/maintain-all": {
            "post": {
                "tags": ["investments"],
                "summary": "Maintain all properties",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/coins": {
            "post": {
                "tags": ["admin"],
                "summary": "Adjust coins",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/levels": {
            "post": {
                "tags": ["admin"],
                "summary": "Adjust levels",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/xp-toggle": {
            "post": {
                "tags": ["admin"],
                "summary": "Toggle XP gain",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/settings": {
            "get": {
                "tags": ["admin"],
                "summary": "Get settings",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            },
            "patch": {
                "tags": ["admin"],
                "summary": "Update settings",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/boosts/permanent": {
            "post": {
                "tags": ["admin"],
                "summary": "Grant permanent perk",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/boosts/temporary": {
            "post": {
                "tags": ["admin"],
                "summary": "Grant temporary boost",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/investments/reset-income": {
            "post": {
                "tags": ["admin"],
                "summary": "Reset accumulated income",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/admin/investments/tick": {
            "post": {
                "tags": ["admin"],
                "summary": "Run property tick",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/dashboard/token": {
            "post": {
                "tags": ["dashboard"],
                "summary": "Issue dashboard token",
                "responses": {"200": {"description": "OK"}},
                "security": [{"ApiKeyAuth": []}]
            }
        },
        "/api/v1/dashboard/me": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Current user's dashboard",
                "responses": {"200": {"description": "OK"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/dashboard/events": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Live event stream",
                "responses": {"200": {"description": "OK"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/dashboard/investments/{property}/collect": {
            "post": {
                "tags": ["dashboard"],
                "summary": "Collect from a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/dashboard/investments/{property}/maintain": {
            "post": {
                "tags": ["dashboard"],
                "summary": "Maintain a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/dashboard/investments/{property}/repair": {
            "post": {
                "tags": ["dashboard"],
                "summary": "Repair a property",
                "responses": {"200": {"description": "OK"}},
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"},
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Community Economy API",
	Description:      "XP, prestige and property investments for chat communities.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
