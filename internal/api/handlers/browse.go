package handlers

import (
	"net/http"

	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

// GET /api/v1/browse?parentId=&userId=
// BrowseFolder godoc
// @Summary Browse folder contents
// @Description Returns the current folder, breadcrumb trail and the child folders and files.
// @Tags Browse
// @Produce json
// @Param parentId query string false "Folder ID (empty for root)"
// @Param userId query string false "Target user ID (admin only)"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/v1/browse [get]
func BrowseFolder(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	parentID, err := services.ParseOptionalID(r.URL.Query().Get("parentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := svc.Browse.Browse(r.Context(), c, parentID, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder contents retrieved successfully",
		Data:    resp,
	})
}
