package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"mental_models_hub/internal/catalog"
	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/lib/logger/sl"
	catalogsvc "mental_models_hub/internal/services/catalog_service"
	uploadsvc "mental_models_hub/internal/services/upload_service"
	"mental_models_hub/internal/storage"
	"mental_models_hub/internal/transport/http/dto"
	"mental_models_hub/internal/transport/http/dto/request"
	"mental_models_hub/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "mental_models_hub/docs"
)

type CatalogService interface {
	BrowseLibrary(ctx context.Context, req catalog.FilterRequest) (*catalogsvc.BrowseResult, error)
	BrowseAdmin(ctx context.Context, req catalog.FilterRequest) (*catalogsvc.BrowseResult, error)
}

type ModelService interface {
	CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error)
	SubmitModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error)
	UpdateModel(ctx context.Context, modelID uuid.UUID, req dto.UpdateModelRequest) (*dto.ModelResponse, error)
	GetModelByID(ctx context.Context, modelID uuid.UUID) (*dto.ModelResponse, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*dto.ModelResponse, error)
	DeleteModel(ctx context.Context, modelID uuid.UUID) error
}

type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateTag(ctx context.Context, req dto.CreateTagRequest) (uuid.UUID, error)
	UpdateTag(ctx context.Context, id uuid.UUID, req dto.UpdateTagRequest) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Session(ctx context.Context, accessToken string) (*models.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, kind uploadsvc.UploadKind) (*uploadsvc.UploadResult, error)
}

type AudioService interface {
	RequestNarration(ctx context.Context, modelID uuid.UUID) (string, error)
}

type Routers struct {
	log             *slog.Logger
	CatalogService  CatalogService
	ModelService    ModelService
	TaxonomyService TaxonomyService
	AuthService     AuthService
	UploadService   UploadService
	AudioService    AudioService
}

func NewRouter(
	log *slog.Logger,
	catalogService CatalogService,
	modelService ModelService,
	taxonomyService TaxonomyService,
	authService AuthService,
	uploadService UploadService,
	audioService AudioService,
) *Routers {
	return &Routers{
		log:             log,
		CatalogService:  catalogService,
		ModelService:    modelService,
		TaxonomyService: taxonomyService,
		AuthService:     authService,
		UploadService:   uploadService,
		AudioService:    audioService,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

// Library godoc
// @Summary Browse the public model library
// @Description Paged, filtered window over published mental models with category and tag facets
// @Tags catalog
// @Produce json
// @Param q query string false "Title search term"
// @Param category query string false "Category slug"
// @Param tag query string false "Tag slug (repeatable)"
// @Param sort query string false "Sort order" Enums(recent, oldest)
// @Param page query integer false "Page number (1-based)"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Catalog store unavailable"
// @Router /api/v1/library [get]
func (r *Routers) Library(c echo.Context) error {
	const op = "http.routers.Library"
	log := r.log.With(slog.String("op", op))

	req := catalog.ParseLibraryQuery(c.QueryParams())

	result, err := r.CatalogService.BrowseLibrary(c.Request().Context(), req)
	if err != nil {
		log.Error("library browse failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// GetModelBySlug godoc
// @Summary Get a published model by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Model slug"
// @Success 200 {object} response.Response{data=dto.ModelResponse}
// @Failure 404 {object} response.ErrorResponse "Model not found or not published"
// @Router /api/v1/models/{slug} [get]
func (r *Routers) GetModelBySlug(c echo.Context) error {
	const op = "http.routers.GetModelBySlug"
	log := r.log.With(slog.String("op", op))

	model, err := r.ModelService.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrModelNotFound)
		}
		log.Error("failed to load model", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(model))
}

// SubmitModel godoc
// @Summary Submit a new model to the public catalog
// @Description Creates a published model. Title, summary and body are required; read time is derived from the body.
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateModelRequest true "Model content"
// @Success 201 {object} response.Response{data=dto.ModelResponse}
// @Failure 400 {object} response.ErrorResponse "Missing required fields"
// @Router /api/v1/models [post]
func (r *Routers) SubmitModel(c echo.Context) error {
	const op = "http.routers.SubmitModel"
	log := r.log.With(slog.String("op", op))

	var req dto.CreateModelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	model, err := r.ModelService.SubmitModel(c.Request().Context(), req)
	if err != nil {
		log.Warn("submission rejected", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_submission", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(model))
}

// Login godoc
// @Summary Admin console login
// @Description Verifies credentials and returns a role-claim JWT pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"
	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if sess, err := session.Get("session", c); err == nil {
		sess.Values["user_id"] = pair.UserID.String()
		sess.Save(c.Request(), c.Response())
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 401 {object} response.ErrorResponse "Token invalid or already consumed"
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"
	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Warn("refresh rejected", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// SessionInfo godoc
// @Summary Resolve the current session
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Missing or invalid token"
// @Security ApiKeyAuth
// @Router /api/v1/auth/session [get]
func (r *Routers) SessionInfo(c echo.Context) error {
	const op = "http.routers.SessionInfo"
	log := r.log.With(slog.String("op", op))

	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.AuthService.Session(c.Request().Context(), token)
	if err != nil {
		log.Warn("session probe failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// Logout godoc
// @Summary Revoke the caller's refresh tokens and drop the session
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Missing or invalid token"
// @Security ApiKeyAuth
// @Router /api/v1/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"
	log := r.log.With(slog.String("op", op))

	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.AuthService.Session(c.Request().Context(), token)
	if err != nil {
		log.Warn("logout rejected", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.AuthService.Logout(c.Request().Context(), user.ID); err != nil {
		log.Error("logout failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("logout_failed", err.Error()))
	}

	if sess, err := session.Get("session", c); err == nil {
		sess.Options.MaxAge = -1
		sess.Save(c.Request(), c.Response())
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

// AdminModels godoc
// @Summary Browse models in the admin console
// @Description Same window semantics as the library, without the published-only restriction; includes the distinct status facet
// @Tags admin
// @Produce json
// @Param q query string false "Title search term"
// @Param category query string false "Category slug (repeatable)"
// @Param tag query string false "Tag slug (repeatable)"
// @Param status query string false "Status (repeatable)"
// @Param sort query string false "Sort order" Enums(recent, oldest)
// @Param page query integer false "Page number (1-based)"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Catalog store unavailable"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models [get]
func (r *Routers) AdminModels(c echo.Context) error {
	const op = "http.routers.AdminModels"
	log := r.log.With(slog.String("op", op))

	req := catalog.ParseQuery(c.QueryParams())

	result, err := r.CatalogService.BrowseAdmin(c.Request().Context(), req)
	if err != nil {
		log.Error("admin browse failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// AdminGetModel godoc
// @Summary Get a model by id, drafts included
// @Tags admin
// @Produce json
// @Param id path string true "Model UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.ModelResponse}
// @Failure 404 {object} response.ErrorResponse "Model not found"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models/{id} [get]
func (r *Routers) AdminGetModel(c echo.Context) error {
	const op = "http.routers.AdminGetModel"
	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	model, err := r.ModelService.GetModelByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrModelNotFound)
		}
		log.Error("failed to load model", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(model))
}

// CreateModel godoc
// @Summary Create a model from the admin console
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateModelRequest true "Model content"
// @Success 201 {object} response.Response{data=dto.ModelResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid payload"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models [post]
func (r *Routers) CreateModel(c echo.Context) error {
	const op = "http.routers.CreateModel"
	log := r.log.With(slog.String("op", op))

	var req dto.CreateModelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	model, err := r.ModelService.CreateModel(c.Request().Context(), req)
	if err != nil {
		log.Error("create failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("create_failed", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(model))
}

// UpdateModel godoc
// @Summary Update a model
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Model UUID" format(uuid)
// @Param request body dto.UpdateModelRequest true "Fields to change"
// @Success 200 {object} response.Response{data=dto.ModelResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid payload"
// @Failure 404 {object} response.ErrorResponse "Model not found"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models/{id} [put]
func (r *Routers) UpdateModel(c echo.Context) error {
	const op = "http.routers.UpdateModel"
	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	var req dto.UpdateModelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	model, err := r.ModelService.UpdateModel(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrModelNotFound)
		}
		log.Error("update failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("update_failed", err.Error()))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(model))
}

// DeleteModel godoc
// @Summary Delete a model
// @Tags admin
// @Produce json
// @Param id path string true "Model UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Model not found"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models/{id} [delete]
func (r *Routers) DeleteModel(c echo.Context) error {
	const op = "http.routers.DeleteModel"
	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	if err := r.ModelService.DeleteModel(c.Request().Context(), id); err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrModelNotFound)
		}
		log.Error("delete failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("delete_failed", err.Error()))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "model deleted"})
}

// ListCategories godoc
// @Summary List categories
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Security ApiKeyAuth
// @Router /api/v1/admin/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"
	log := r.log.With(slog.String("op", op))

	categories, err := r.TaxonomyService.ListCategories(c.Request().Context())
	if err != nil {
		log.Error("list categories failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(categories))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid payload"
// @Security ApiKeyAuth
// @Router /api/v1/admin/categories [post]
func (r *Routers) CreateCategory(c echo.Context) error {
	const op = "http.routers.CreateCategory"
	log := r.log.With(slog.String("op", op))

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	id, err := r.TaxonomyService.CreateCategory(c.Request().Context(), req)
	if err != nil {
		log.Error("create category failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("create_failed", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Category UUID" format(uuid)
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/admin/categories/{id} [put]
func (r *Routers) UpdateCategory(c echo.Context) error {
	return r.updateTaxonomy(c, "http.routers.UpdateCategory", func(ctx context.Context, id uuid.UUID) error {
		var req dto.UpdateCategoryRequest
		if err := c.Bind(&req); err != nil {
			return errBadPayload
		}
		return r.TaxonomyService.UpdateCategory(ctx, id, req)
	})
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags admin
// @Produce json
// @Param id path string true "Category UUID" format(uuid)
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/admin/categories/{id} [delete]
func (r *Routers) DeleteCategory(c echo.Context) error {
	return r.updateTaxonomy(c, "http.routers.DeleteCategory", func(ctx context.Context, id uuid.UUID) error {
		return r.TaxonomyService.DeleteCategory(ctx, id)
	})
}

// ListTags godoc
// @Summary List tags
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Tag}
// @Security ApiKeyAuth
// @Router /api/v1/admin/tags [get]
func (r *Routers) ListTags(c echo.Context) error {
	const op = "http.routers.ListTags"
	log := r.log.With(slog.String("op", op))

	tags, err := r.TaxonomyService.ListTags(c.Request().Context())
	if err != nil {
		log.Error("list tags failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrCatalogUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tags))
}

// CreateTag godoc
// @Summary Create a tag
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateTagRequest true "Tag"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid payload"
// @Security ApiKeyAuth
// @Router /api/v1/admin/tags [post]
func (r *Routers) CreateTag(c echo.Context) error {
	const op = "http.routers.CreateTag"
	log := r.log.With(slog.String("op", op))

	var req dto.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	id, err := r.TaxonomyService.CreateTag(c.Request().Context(), req)
	if err != nil {
		log.Error("create tag failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("create_failed", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}

// UpdateTag godoc
// @Summary Update a tag
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Tag UUID" format(uuid)
// @Param request body dto.UpdateTagRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/admin/tags/{id} [put]
func (r *Routers) UpdateTag(c echo.Context) error {
	return r.updateTaxonomy(c, "http.routers.UpdateTag", func(ctx context.Context, id uuid.UUID) error {
		var req dto.UpdateTagRequest
		if err := c.Bind(&req); err != nil {
			return errBadPayload
		}
		return r.TaxonomyService.UpdateTag(ctx, id, req)
	})
}

// DeleteTag godoc
// @Summary Delete a tag
// @Tags admin
// @Produce json
// @Param id path string true "Tag UUID" format(uuid)
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/admin/tags/{id} [delete]
func (r *Routers) DeleteTag(c echo.Context) error {
	return r.updateTaxonomy(c, "http.routers.DeleteTag", func(ctx context.Context, id uuid.UUID) error {
		return r.TaxonomyService.DeleteTag(ctx, id)
	})
}

// Upload godoc
// @Summary Upload a cover image or audio file
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to store"
// @Param kind formData string true "Upload kind" Enums(cover, audio)
// @Success 201 {object} response.Response
// @Failure 413 {object} response.ErrorResponse "File exceeds size limit"
// @Failure 415 {object} response.ErrorResponse "Unsupported file type"
// @Security ApiKeyAuth
// @Router /api/v1/admin/uploads [post]
func (r *Routers) Upload(c echo.Context) error {
	const op = "http.routers.Upload"
	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "file is required"))
	}

	kind := uploadsvc.UploadKind(c.FormValue("kind"))
	if kind == "" {
		kind = uploadsvc.UploadCover
	}

	result, err := r.UploadService.Upload(c.Request().Context(), file, kind)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails("file_too_large", err.Error()))
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusUnsupportedMediaType, response.ErrorResponseWithDetails("invalid_file_type", err.Error()))
		default:
			log.Error("upload failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("upload_failed", err.Error()))
		}
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(result))
}

// RequestNarration godoc
// @Summary Generate narration audio for a model
// @Description Synthesizes the model body via the configured TTS provider and promotes the result to primary audio
// @Tags admin
// @Produce json
// @Param id path string true "Model UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Model not found"
// @Failure 502 {object} response.ErrorResponse "Narration provider failed"
// @Security ApiKeyAuth
// @Router /api/v1/admin/models/{id}/narration [post]
func (r *Routers) RequestNarration(c echo.Context) error {
	const op = "http.routers.RequestNarration"
	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	audioURL, err := r.AudioService.RequestNarration(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrModelNotFound)
		}
		log.Error("narration failed", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrorResponseWithDetails("narration_failed", err.Error()))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{"audio_url": audioURL}))
}

var errBadPayload = errors.New("invalid payload")

func (r *Routers) updateTaxonomy(c echo.Context, op string, fn func(ctx context.Context, id uuid.UUID) error) error {
	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	if err := fn(c.Request().Context(), id); err != nil {
		if errors.Is(err, errBadPayload) {
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}
		log.Error("taxonomy mutation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("mutation_failed", err.Error()))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
