// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

// respondError maps a service error onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var (
		verrs      validator.ValidationErrors
		statusErr  *services.StatusError
		transition *services.TransitionError
		confirm    *services.ConfirmationRequiredError
	)

	switch {
	case errors.As(err, &verrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(verrs))
	case errors.Is(err, services.ErrInvalidPrice):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductInvalidPrice), nil)
	case errors.Is(err, services.ErrInvalidActorKind):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUserInvalidType), nil)
	case errors.As(err, &statusErr):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS",
			i18n.T(lang, i18n.KeyOrderInvalidStatus, strconv.Quote(statusErr.Status)), nil)

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", i18n.T(lang, i18n.KeyAuthInvalidCredentials), nil)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthLoginFirst))
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")

	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "product")
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "order")

	case errors.Is(err, services.ErrDuplicateUsername):
		utils.ConflictResponse(c, "DUPLICATE_USERNAME", i18n.T(lang, i18n.KeyAuthUserExists), nil)
	case errors.Is(err, services.ErrStatusConflict):
		utils.ConflictResponse(c, "STATUS_CONFLICT", i18n.T(lang, i18n.KeyOrderStatusConflict), nil)
	case errors.As(err, &confirm):
		utils.ConflictResponse(c, "CONFIRMATION_REQUIRED", i18n.T(lang, i18n.KeyAdminConfirmationRequired), confirm)
	case errors.Is(err, services.ErrInvalidConfirmation):
		utils.ConflictResponse(c, "CONFIRMATION_INVALID", i18n.T(lang, i18n.KeyAdminConfirmationInvalid), nil)

	case errors.As(err, &transition):
		utils.UnprocessableResponse(c, "INVALID_TRANSITION",
			i18n.T(lang, i18n.KeyOrderInvalidTransition, transition.From, transition.To),
			gin.H{
				"from":     transition.From,
				"to":       transition.To,
				"allowed":  transition.From.NextStatuses(),
				"terminal": transition.From.Terminal(),
			})

	default:
		_ = c.Error(err)
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.ContextKeyRequestID),
			"path":       c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bind decodes a JSON or form body into req. Field checks happen in the
// services.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return 0, false
	}
	return uint(id), true
}

func currentActor(c *gin.Context) utils.Actor {
	actor, _ := utils.GetActorFromContext(c)
	return actor
}
