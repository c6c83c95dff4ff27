package handlers

import (
	"net/http"

	"github.com/pratham-8123/vaultbox/internal/utils"
)

// GET /api/v1/users
// ListUsers godoc
// @Summary List all users (admin only)
// @Description Backs the act-as selector in the admin UI.
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/v1/users [get]
func ListUsers(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	users, err := svc.Users.List(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}
