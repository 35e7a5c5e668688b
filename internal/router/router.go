package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"timesheet/internal/config"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/handler"
	"timesheet/internal/logger"
	"timesheet/internal/service"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Project   *handler.ProjectHandler
	Attribute *handler.AttributeHandler
	Timesheet *handler.TimesheetHandler
	// Seed is optional and never routed in production.
	Seed *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, authService service.AuthService, h Handlers) {
	e.HideBanner = true
	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(logger.EchoRequestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	if h.Seed != nil && !cfg.IsProduction() {
		api.POST("/seed", h.Seed.Seed)
	}

	// Secured routes (require a valid, unrevoked access token)
	secured := api.Group("", Authenticate(authService))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.User.Me)

	secured.GET("/users", h.User.ListUsers)
	secured.GET("/users/:id", h.User.GetUser)

	secured.GET("/projects", h.Project.ListProjects)
	secured.POST("/projects", h.Project.CreateProject)
	secured.GET("/projects/:id", h.Project.GetProject)
	secured.PUT("/projects/:id", h.Project.UpdateProject)
	secured.PATCH("/projects/:id", h.Project.UpdateProject)
	secured.DELETE("/projects/:id", h.Project.DeleteProject)

	secured.GET("/attributes", h.Attribute.ListAttributes)
	secured.POST("/attributes", h.Attribute.CreateAttribute)
	secured.GET("/attributes/:id", h.Attribute.GetAttribute)
	secured.PUT("/attributes/:id", h.Attribute.UpdateAttribute)
	secured.PATCH("/attributes/:id", h.Attribute.UpdateAttribute)
	secured.DELETE("/attributes/:id", h.Attribute.DeleteAttribute)

	secured.GET("/timesheets", h.Timesheet.ListTimesheets)
	secured.POST("/timesheets", h.Timesheet.CreateTimesheet)
	secured.GET("/timesheets/:id", h.Timesheet.GetTimesheet)
	secured.PUT("/timesheets/:id", h.Timesheet.UpdateTimesheet)
	secured.PATCH("/timesheets/:id", h.Timesheet.UpdateTimesheet)
	secured.DELETE("/timesheets/:id", h.Timesheet.DeleteTimesheet)
}

// Authenticate validates the bearer token through the auth service, which also rejects
// revoked tokens, and stores the claims under handler.ContextKeyUser.
func Authenticate(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyUser,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			c.Set(logger.UserIDKey, claims.UserID)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthenticated
		},
	})
}
