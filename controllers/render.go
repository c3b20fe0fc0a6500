package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plumeblog/plume/services"
	"github.com/plumeblog/plume/utils"
)

// responseWrapper mirrors utils.JSONResponse for cached payloads so cache
// hits can be served verbatim.
type responseWrapper struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func wrap(data interface{}) responseWrapper {
	return responseWrapper{Code: 0, Message: "success", Data: data}
}

// serviceError translates service sentinels to the HTTP statuses the API
// contract promises: 400 validation, 404 not found, 401 not owner.
// Anything else is a 500 with the caller-supplied business code.
func serviceError(ctx *gin.Context, err error, internalCode int, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.Error(ctx, http.StatusUnauthorized, 40110, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, internalCode, internalMsg)
	}
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseUintQuery(ctx *gin.Context, name string) uint {
	raw := ctx.Query(name)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
