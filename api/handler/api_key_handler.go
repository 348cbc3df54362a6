package handler

import (
	"net/http"

	"verifai/internal/dto"
	"verifai/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type APIKeyHandler struct {
	Service  *service.APIKeyService
	Validate *validator.Validate
}

func NewAPIKeyHandler(svc *service.APIKeyService, validate *validator.Validate) *APIKeyHandler {
	return &APIKeyHandler{Service: svc, Validate: validate}
}

func (h *APIKeyHandler) Create(c echo.Context) error {
	var req dto.CreateAPIKeyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	result, err := h.Service.Create(c.Request().Context(), service.CreateAPIKeyInput{
		Name:          req.Name,
		Company:       req.Company,
		ExpiresInDays: req.ExpiresInDays,
		Permissions:   req.Permissions,
		RateLimit:     req.RateLimit,
		Environment:   req.Environment,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.CreateAPIKeyResponse{
		Message:    "API key created successfully",
		Warning:    "Save this key securely. You won't be able to see it again!",
		Status:     "success",
		APIKey:     result.RawKey,
		APIKeyData: dto.APIKeyResponseFromEntity(result.Key),
	})
}

func (h *APIKeyHandler) List(c echo.Context) error {
	keys, err := h.Service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"apiKeys": dto.APIKeyResponsesFromEntities(keys),
	})
}

func (h *APIKeyHandler) Update(c echo.Context) error {
	var req dto.UpdateAPIKeyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	key, err := h.Service.Update(c.Request().Context(), c.Param("id"), service.UpdateAPIKeyInput{
		Name:        req.Name,
		Active:      req.Active,
		Permissions: req.Permissions,
		RateLimit:   req.RateLimit,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.APIKeyResponseFromEntity(key))
}

func (h *APIKeyHandler) Deactivate(c echo.Context) error {
	if err := h.Service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *APIKeyHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
