package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

// Multipart form memory ceiling; bigger parts spill to temp files.
const maxMultipartMemory = 32 << 20

// POST /api/v1/files/upload
// UploadFile godoc
// @Summary Upload a file
// @Description Uploads one file into the given folder (root level when parentFolderId is empty).
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param parentFolderId formData string false "Parent folder ID"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/upload [post]
func UploadFile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		badRequest(w, "Invalid file upload form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "No file provided")
		return
	}
	defer file.Close()

	parentID, err := services.ParseOptionalID(r.FormValue("parentFolderId"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := svc.Files.Upload(r.Context(), c, services.UploadInput{
		Name:           header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Size:           header.Size,
		Content:        file,
		ParentFolderID: parentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File uploaded successfully",
		Data:    resp,
	})
}

// GET /api/v1/files
func ListFiles(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	files, err := svc.Files.List(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    files,
	})
}

// GET /api/v1/files/{id}
func GetFile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, err := svc.Files.Get(r.Context(), c, id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File retrieved successfully",
		Data:    file,
	})
}

// GET /api/v1/files/{id}/download
// DownloadFile godoc
// @Summary Download file content
// @Description Streams the stored bytes; viewable types render inline, others attach.
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files/{id}/download [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, content, err := svc.Files.Download(r.Context(), c, id)
	if err != nil {
		writeError(w, err)
		return
	}

	disposition := "attachment"
	if services.IsViewableType(file.ContentType) {
		disposition = "inline"
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.OriginalName))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// GET /api/v1/files/{id}/presign
func PresignDownload(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	url, file, err := svc.Files.PresignDownload(r.Context(), c, id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Presigned download URL generated successfully",
		Data: map[string]any{
			"url":          url,
			"content_type": file.ContentType,
			"filename":     file.OriginalName,
		},
	})
}

// DELETE /api/v1/files/{id}
func DeleteFile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := svc.Files.Delete(r.Context(), c, id); err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted successfully",
	})
}
