//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuthFlow 登录、刷新、登出
func TestAuthFlow(t *testing.T) {
	admin := AdminToken(t)
	username := Unique("cashier")
	resp := PostJSON(t, BaseURL+"/users", map[string]string{
		"username": username, "password": "Test12345", "role": "cashier",
	}, admin)
	require.True(t, resp.Success, resp.Message)

	t.Run("错误密码", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"username": username, "password": "Wrong12345",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("刷新并登出", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"username": username, "password": "Test12345",
		}, "")
		require.True(t, resp.Success, resp.Message)
		var login LoginData
		require.NoError(t, json.Unmarshal(resp.Data, &login))

		resp = PostJSON(t, BaseURL+"/auth/refresh", map[string]string{"refresh_token": login.RefreshToken}, "")
		require.True(t, resp.Success, resp.Message)

		resp = GetJSON(t, BaseURL+"/users/me", login.AccessToken)
		require.True(t, resp.Success, resp.Message)

		resp = PostJSON(t, BaseURL+"/auth/logout", nil, login.AccessToken)
		require.True(t, resp.Success, resp.Message)

		resp = GetJSON(t, BaseURL+"/users/me", login.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("收银员不能创建用户", func(t *testing.T) {
		cashier := Login(t, username, "Test12345")
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username": Unique("x"), "password": "Test12345", "role": "cashier",
		}, cashier)
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})
}
