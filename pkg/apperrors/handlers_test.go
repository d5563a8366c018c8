package apperrors

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func handleOnRecorder(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/some/path", nil)
	HandleError(c, err)
	return w
}

func TestHandleErrorEnvelope(t *testing.T) {
	w := handleOnRecorder(NoSuchSlug())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"NoSuchSlug"}`, w.Body.String())
}

func TestHandleErrorWrapsPlainErrors(t *testing.T) {
	w := handleOnRecorder(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"DbError"}`, w.Body.String())
}

func TestHandleErrorClassifiesConnFailures(t *testing.T) {
	for _, cause := range []error{sql.ErrConnDone, driver.ErrBadConn} {
		w := handleOnRecorder(DbError(cause))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, cause)
		assert.JSONEq(t, `{"error":"DbConnAcquire"}`, w.Body.String(), cause)
	}

	// Other database failures stay generic.
	w := handleOnRecorder(DbError(errors.New("syntax error")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"DbError"}`, w.Body.String())
}
