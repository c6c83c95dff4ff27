package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

// POST /api/v1/folders
// CreateFolder godoc
// @Summary Create a folder
// @Description Creates a folder under the given parent (root level when parentId is empty).
// @Tags Folders
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/folders [post]
func CreateFolder(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var input struct {
		Name     string `json:"name"`
		ParentID string `json:"parentId"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	parentID, err := services.ParseOptionalID(input.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	folder, err := svc.Folders.Create(r.Context(), c, input.Name, parentID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder created successfully",
		Data:    folder,
	})
}

// GET /api/v1/folders/{id}
func GetFolder(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	folder, err := svc.Folders.Get(r.Context(), c, id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder retrieved successfully",
		Data:    folder,
	})
}

// GET /api/v1/folders?parentId=&userId=
// ListFolders godoc
// @Summary List folders under a parent
// @Tags Folders
// @Produce json
// @Param parentId query string false "Parent folder ID (empty for root)"
// @Param userId query string false "Target user ID (admin only)"
// @Success 200 {object} utils.Payload
// @Router /api/v1/folders [get]
func ListFolders(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	parentID, err := services.ParseOptionalID(r.URL.Query().Get("parentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	folders, err := svc.Folders.List(r.Context(), c, parentID, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folders retrieved successfully",
		Data:    folders,
	})
}

// PATCH /api/v1/folders/{id}/rename
// RenameFolder godoc
// @Summary Rename a folder
// @Description Renames the folder and rewrites the paths of all descendants.
// @Tags Folders
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/folders/{id}/rename [patch]
func RenameFolder(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	folder, err := svc.Folders.Rename(r.Context(), c, id, input.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder renamed successfully",
		Data:    folder,
	})
}

// DELETE /api/v1/folders/{id}
// DeleteFolder godoc
// @Summary Delete a folder recursively
// @Description Removes the folder, every descendant folder and file, and their blobs.
// @Tags Folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} utils.Payload
// @Router /api/v1/folders/{id} [delete]
func DeleteFolder(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := svc.Folders.Delete(r.Context(), c, id); err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder deleted successfully",
	})
}
