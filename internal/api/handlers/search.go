package handlers

import (
	"net/http"
	"strconv"

	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

// GET /api/v1/search?q=&type=&userId=&page=&size=
// SearchItems godoc
// @Summary Search folders and files by name
// @Description Case-insensitive substring match, folders listed before files.
// @Tags Search
// @Produce json
// @Param q query string true "Search query (minimum 2 characters)"
// @Param type query string false "Filter: file, folder or all" default(all)
// @Param userId query string false "Target user ID (admin only)"
// @Param page query int false "Page number, 0-indexed" default(0)
// @Param size query int false "Page size (max 100)" default(20)
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/search [get]
func SearchItems(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	page, err := queryInt(q.Get("page"), 0)
	if err != nil {
		badRequest(w, "Invalid page")
		return
	}
	size, err := queryInt(q.Get("size"), 20)
	if err != nil {
		badRequest(w, "Invalid size")
		return
	}

	resp, err := svc.Search.Search(r.Context(), c, services.SearchParams{
		Query:        q.Get("q"),
		Type:         q.Get("type"),
		TargetUserID: q.Get("userId"),
		Page:         page,
		Size:         size,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Search completed successfully",
		Data:    resp,
	})
}

func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
