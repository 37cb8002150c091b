package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/selim/opphub/internal/auth"
	"github.com/selim/opphub/internal/catalog"
	"github.com/selim/opphub/internal/config"
	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

// Server is the catalog gateway: it refreshes one pipeline per catalog
// family against the upstream backend and serves refined, paginated views.
type Server struct {
	Echo      *echo.Echo
	Catalog   *upstream.Client
	Auth      *auth.Service
	pipelines map[models.Kind]*catalog.Pipeline
	pageSize  int
}

// ListResponse is the payload of every list endpoint: the visible page plus
// the active filter chips the client renders above the grid.
type ListResponse struct {
	catalog.Page
	Chips []catalog.Chip `json:"chips,omitempty"`
}

func NewServer(cfg config.Config, client *upstream.Client, authService *auth.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		Echo:     e,
		Catalog:  client,
		Auth:     authService,
		pageSize: cfg.PageSize,
		pipelines: map[models.Kind]*catalog.Pipeline{
			models.KindScholarship: catalog.NewPipeline(models.KindScholarship, client, cfg.PageSize),
			models.KindTraining:    catalog.NewPipeline(models.KindTraining, client, cfg.PageSize),
			models.KindEvent:       catalog.NewPipeline(models.KindEvent, client, cfg.PageSize),
		},
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/scholarships", s.handleList(models.KindScholarship))
	api.GET("/trainings", s.handleList(models.KindTraining))
	api.GET("/events", s.handleList(models.KindEvent))
	api.GET("/opportunities/:id", s.handleGetOpportunity)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	me := api.Group("/me")
	me.Use(auth.Middleware)
	me.GET("", s.handleGetProfile)
	me.PATCH("", s.handleUpdateProfile)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// handleList serves one catalog family. Server-understood filters ride the
// upstream query; category tags and date windows are refined locally after
// normalization.
func (s *Server) handleList(kind models.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		filters := filtersFromRequest(c)
		sortKey := catalog.ParseSortKey(c.QueryParam("sort"))

		page := 1
		if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
			page = p
		}

		items, err := s.pipelines[kind].Refresh(c.Request().Context(), filters)
		if err != nil {
			c.Logger().Errorf("Failed to refresh %s: %v", kind, err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upstream catalog unavailable"})
		}

		view := catalog.View(items, filters, sortKey, s.pageSize, page, time.Now())
		if view.Items == nil {
			view.Items = []models.Opportunity{}
		}
		return c.JSON(http.StatusOK, ListResponse{Page: view, Chips: filters.Chips()})
	}
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id := c.Param("id")
	record, err := s.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to get opportunity %s: %v", id, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upstream catalog unavailable"})
	}
	return c.JSON(http.StatusOK, catalog.Normalize(*record, ""))
}

func filtersFromRequest(c echo.Context) catalog.Filters {
	f := catalog.Filters{
		Search:      strings.TrimSpace(c.QueryParam("search")),
		Location:    strings.TrimSpace(c.QueryParam("location")),
		Level:       strings.TrimSpace(c.QueryParam("level")),
		Price:       c.QueryParam("price"),
		Format:      c.QueryParam("format"),
		DateWindow:  c.QueryParam("date"),
		ClosingSoon: c.QueryParam("closing_soon") == "true",
	}
	if raw := c.QueryParam("categories"); raw != "" {
		known := make(map[string]models.Tag, 5)
		for _, tag := range models.AllTags() {
			known[strings.ToLower(string(tag))] = tag
		}
		// Short aliases the front-end checkboxes historically used.
		known["cs"] = models.TagCS
		for _, part := range strings.Split(raw, ",") {
			if tag, ok := known[strings.ToLower(strings.TrimSpace(part))]; ok {
				f.Categories = append(f.Categories, tag)
			}
		}
	}
	return f
}

// Auth handlers: thin relays to the upstream auth backend, with request
// validation done here so malformed submissions never leave the gateway.

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	resp, err := s.Auth.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("Signup failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Auth backend unavailable"})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	resp, err := s.Auth.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		c.Logger().Errorf("Login failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Auth backend unavailable"})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	user, err := s.Auth.Profile(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		c.Logger().Errorf("Profile fetch failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Auth backend unavailable"})
	}

	return c.JSON(http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var update auth.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := update.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := s.Auth.UpdateProfile(c.Request().Context(), token, update)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		c.Logger().Errorf("Profile update failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Auth backend unavailable"})
	}

	return c.JSON(http.StatusOK, user)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}
