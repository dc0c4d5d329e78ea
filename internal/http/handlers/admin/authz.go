package admin

import (
	"github.com/orbit-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListAuthzRoles 获取角色列表 (Admin)
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"roles": roles})
}

// GetAuthzAdminRoles 查询管理员角色 (Admin)
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}

// SetAuthzAdminRolesRequest 设置管理员角色请求
type SetAuthzAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetAuthzAdminRoles 覆盖设置管理员角色 (Admin)
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}

	var req SetAuthzAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}
