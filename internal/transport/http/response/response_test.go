package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, Status(CodeOK))
	assert.Equal(t, http.StatusForbidden, Status(CodeForbidden))
	assert.Equal(t, http.StatusInternalServerError, Status(42))
}

func TestErrorUsesDefaultMessage(t *testing.T) {
	r := Error(CodeNotFound, "")
	assert.Equal(t, "Not Found", r.Msg)
	assert.Equal(t, struct{}{}, r.Data)

	r = Error(CodeNotFound, "product missing")
	assert.Equal(t, "product missing", r.Msg)
}

func TestAbortWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, CodeUnauthorized, "token not valid")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeUnauthorized, body.Code)
	assert.Equal(t, "token not valid", body.Msg)
}
