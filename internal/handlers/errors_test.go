package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestRespondErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrInvalidPrice, http.StatusBadRequest, ""},
		{&services.StatusError{Status: "Lost"}, http.StatusBadRequest, "INVALID_STATUS"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{services.ErrUnauthenticated, http.StatusUnauthorized, ""},
		{services.ErrForbidden, http.StatusForbidden, ""},
		{services.ErrUserNotFound, http.StatusNotFound, ""},
		{fmt.Errorf("lookup: %w", services.ErrOrderNotFound), http.StatusNotFound, ""},
		{services.ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
		{services.ErrStatusConflict, http.StatusConflict, "STATUS_CONFLICT"},
		{services.ErrInvalidConfirmation, http.StatusConflict, "CONFIRMATION_INVALID"},
		{errors.New("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		w, body := respond(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, false, body["success"], tc.err.Error())
		if tc.code != "" {
			assert.Equal(t, tc.code, errorCode(body), tc.err.Error())
		}
	}
}

func TestRespondErrorTransitionDetails(t *testing.T) {
	w, body := respond(&services.TransitionError{From: models.OrderStatusShipped, To: models.OrderStatusPlaced})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(body))

	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "Shipped", details["from"])
	assert.Equal(t, []interface{}{"Delivered"}, details["allowed"])
	assert.Equal(t, false, details["terminal"])

	_, body = respond(&services.TransitionError{From: models.OrderStatusDelivered, To: models.OrderStatusPlaced})
	details = body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, true, details["terminal"])
	assert.Empty(t, details["allowed"])
}

func TestRespondErrorConfirmationCarriesToken(t *testing.T) {
	w, body := respond(&services.ConfirmationRequiredError{
		Action: services.ActionDeleteProduct,
		Target: "product:4",
		Token:  "tok",
		Impact: &models.DeletionImpact{Orders: 2},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", errorCode(body))

	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "tok", details["confirm_token"])
	assert.Equal(t, "product:4", details["target"])
}

func TestPathIDRejectsZero(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	_, ok := pathID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
