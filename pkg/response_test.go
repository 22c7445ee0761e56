package pkg

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWriteResponseBytes(t *testing.T) {
	w := httptest.NewRecorder()

	testJson := `{"acwr":1.04}`
	WriteResponseBytes(w, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.Equal(t, testJson, w.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	w := httptest.NewRecorder()

	WriteTextResponseOK(w, "test text")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.Text, w.Header().Get("Content-Type"))
	assert.Equal(t, "test text", w.Body.String())
}

func TestWriteJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSONResponse(w, map[string]int{"weeklyLoad": 1005}, http.StatusOK)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"weeklyLoad":1005}`, w.Body.String())
}

func TestWriteJSONResponse_MarshalError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSONResponse(w, math.Inf(1), http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ContentType.Text, w.Header().Get("Content-Type"))
}

func TestPathExists(t *testing.T) {
	exists, err := PathExists("/invalid/path/some-dir", true)
	require.NoError(t, err)
	assert.False(t, exists)

	tempDir := t.TempDir()
	exists, err = PathExists(tempDir, true)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = PathExists(tempDir, false)
	require.NoError(t, err)
	assert.False(t, exists)
}
