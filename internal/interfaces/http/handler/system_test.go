package handler

import (
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callSystem(t *testing.T, invoke func(h *SystemHandler, c *gin.Context)) map[string]any {
	t.Helper()
	c, w := newTestContext()
	invoke(NewSystemHandler(), c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	data := callSystem(t, func(h *SystemHandler, c *gin.Context) { h.GetSystemInfo(c) })

	assert.Equal(t, "School ERP Backend API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.Equal(t, runtime.Version(), data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	data := callSystem(t, func(h *SystemHandler, c *gin.Context) { h.Ping(c) })

	assert.Equal(t, "pong", data["message"])

	ts, ok := data["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}
