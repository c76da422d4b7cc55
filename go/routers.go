package bodyfatserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	BodyFatAPI        BodyFatAPI
	RecommendationAPI RecommendationAPI
	HealthAPI         HealthAPI
	// RecommendationLimiter guards the outbound recommendation route; nil disables limiting.
	RecommendationLimiter *RateLimiter
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Name == "Recommend" && handleFunctions.RecommendationLimiter != nil {
			handlers = append([]gin.HandlerFunc{handleFunctions.RecommendationLimiter.Middleware()}, handlers...)
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Estimate",
			http.MethodPost,
			"/v1/body-fat/estimate",
			handleFunctions.BodyFatAPI.Estimate,
		},
		{
			"Recommend",
			http.MethodPost,
			"/v1/body-fat/recommendations",
			handleFunctions.RecommendationAPI.Recommend,
		},
		{
			"Health",
			http.MethodGet,
			"/health",
			handleFunctions.HealthAPI.Health,
		},
	}
}
