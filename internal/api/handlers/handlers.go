package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/api/middleware"
	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

// Services collects everything the handlers call into. Wired once at
// startup via Init.
type Services struct {
	Folders *services.FolderService
	Files   *services.FileService
	Browse  *services.BrowseService
	Search  *services.SearchService
	Users   *services.UserService
	Store   services.UserStore
}

var svc Services

func Init(s Services) { svc = s }

// writeError maps domain error kinds onto HTTP statuses. Anything
// unrecognized is a 500 and the detail stays in the server log.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicateName):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrUploadRejected):
		status = http.StatusBadRequest
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "Internal server error"
	}

	utils.JSONResponse(w, status, utils.Payload{
		Success: false,
		Message: message,
	})
}

// caller pulls the authenticated identity out of the request, replying
// 401 itself when it's missing.
func caller(w http.ResponseWriter, r *http.Request) (services.Caller, bool) {
	c, ok := middleware.CallerFrom(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
	}
	return c, ok
}

// pathID parses a uuid path segment, replying 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}
