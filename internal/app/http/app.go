package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mental_models_hub/internal/domain/models"
	appmiddleware "mental_models_hub/internal/middleware"
	httprouters "mental_models_hub/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m             *http.ServeMux
	log           *slog.Logger
	e             *echo.Echo
	routers       *httprouters.Routers
	host          string
	port          string
	token         string
	sessionSecret string
	uploadsDir    string
}

func New(log *slog.Logger, token, sessionSecret, host, port, uploadsDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:             mux,
		log:           log,
		e:             e,
		routers:       routers,
		host:          host,
		port:          port,
		token:         token,
		sessionSecret: sessionSecret,
		uploadsDir:    uploadsDir,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// editorOnlyMiddleware sits behind the JWT middleware and gates admin
// routes on the role claim.
func (s *Server) editorOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwtlib.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		claims, ok := token.Claims.(jwtlib.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token claims"})
		}

		role, _ := claims["role"].(string)
		if !models.Role(role).CanEdit() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "editor access required"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api/v1")
	{
		api.GET("/library", s.routers.Library)
		api.GET("/models/:slug", s.routers.GetModelBySlug)
		api.POST("/models", s.routers.SubmitModel)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.routers.Login)
			authGroup.POST("/refresh", s.routers.Refresh)
			authGroup.GET("/session", s.routers.SessionInfo)
			authGroup.POST("/logout", s.routers.Logout)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		adminGroup.Use(s.editorOnlyMiddleware)
		{
			adminGroup.GET("/models", s.routers.AdminModels)
			adminGroup.GET("/models/:id", s.routers.AdminGetModel)
			adminGroup.POST("/models", s.routers.CreateModel)
			adminGroup.PUT("/models/:id", s.routers.UpdateModel)
			adminGroup.DELETE("/models/:id", s.routers.DeleteModel)
			adminGroup.POST("/models/:id/narration", s.routers.RequestNarration)

			adminGroup.GET("/categories", s.routers.ListCategories)
			adminGroup.POST("/categories", s.routers.CreateCategory)
			adminGroup.PUT("/categories/:id", s.routers.UpdateCategory)
			adminGroup.DELETE("/categories/:id", s.routers.DeleteCategory)

			adminGroup.GET("/tags", s.routers.ListTags)
			adminGroup.POST("/tags", s.routers.CreateTag)
			adminGroup.PUT("/tags/:id", s.routers.UpdateTag)
			adminGroup.DELETE("/tags/:id", s.routers.DeleteTag)

			adminGroup.POST("/uploads", s.routers.Upload)
		}
	}

	s.e.Static("/uploads", s.uploadsDir)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}
