package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
	"golang.org/x/sync/errgroup"
)

const maxPageSize = 100

// SearchService matches folders and files by name substring and merges
// the two result streams into one paginated listing.
type SearchService struct {
	folders FolderStore
	files   FileStore
	users   UserStore
	access  *AccessResolver
}

func NewSearchService(folders FolderStore, files FileStore, users UserStore, access *AccessResolver) *SearchService {
	return &SearchService{folders: folders, files: files, users: users, access: access}
}

type SearchParams struct {
	Query        string
	Type         string // "file", "folder" or "all" (blank means all)
	TargetUserID string
	Page         int // 0-indexed
	Size         int
}

// Search runs the per-type sub-queries concurrently, merges them sorted
// folders-first then name ascending case-insensitive, and re-slices the
// merged page window.
//
// Known limitation of the two-collection approach: each sub-query
// is paginated independently, so TotalCount is the sum of both counts
// while the returned window is cut from the already-limited merged slice.
// When both types span multiple pages the window can under-fill relative
// to TotalCount. True merged pagination would need a combined query.
func (s *SearchService) Search(ctx context.Context, caller Caller, params SearchParams) (*SearchResponse, error) {
	if utf8.RuneCountInString(params.Query) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", apperrors.ErrInvalidArgument)
	}

	searchType := strings.ToLower(strings.TrimSpace(params.Type))
	if searchType == "" {
		searchType = "all"
	}
	if err := validation.Validate(searchType, validation.In("all", "folder", "file")); err != nil {
		return nil, fmt.Errorf("%w: type must be one of file, folder, all", apperrors.ErrInvalidArgument)
	}
	if params.Page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", apperrors.ErrInvalidArgument)
	}

	size := params.Size
	if size < 1 {
		size = 1
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	ownerID, err := s.access.ResolveEffectiveOwner(ctx, caller, params.TargetUserID)
	if err != nil {
		return nil, err
	}

	offset := params.Page * size

	var (
		folderMatches []models.Folder
		folderTotal   int64
		fileMatches   []models.File
		fileTotal     int64
	)

	g, gctx := errgroup.WithContext(ctx)
	if searchType == "all" || searchType == "folder" {
		g.Go(func() error {
			var err error
			folderMatches, folderTotal, err = s.folders.SearchByName(gctx, ownerID, params.Query, size, offset)
			return err
		})
	}
	if searchType == "all" || searchType == "file" {
		g.Go(func() error {
			var err error
			fileMatches, fileTotal, err = s.files.SearchByName(gctx, ownerID, params.Query, size, offset)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SearchResultItem, 0, len(folderMatches)+len(fileMatches))
	for i := range folderMatches {
		f := &folderMatches[i]
		results = append(results, SearchResultItem{
			Type:       ItemTypeFolder,
			ID:         f.ID,
			Name:       f.Name,
			Path:       f.Path,
			OwnerID:    f.OwnerID,
			OwnerEmail: ownerEmail(ctx, s.users, f.OwnerID),
			CreatedAt:  f.CreatedAt,
		})
	}
	for i := range fileMatches {
		f := &fileMatches[i]
		size := f.Size
		results = append(results, SearchResultItem{
			Type:        ItemTypeFile,
			ID:          f.ID,
			Name:        f.OriginalName,
			Path:        f.Path,
			OwnerID:     f.OwnerID,
			OwnerEmail:  ownerEmail(ctx, s.users, f.OwnerID),
			CreatedAt:   f.UploadedAt,
			ContentType: f.ContentType,
			Size:        &size,
			Viewable:    IsViewableType(f.ContentType),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Type != results[j].Type {
			return results[i].Type == ItemTypeFolder
		}
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	totalCount := folderTotal + fileTotal

	from := offset
	if from > len(results) {
		from = len(results)
	}
	to := from + size
	if to > len(results) {
		to = len(results)
	}

	return &SearchResponse{
		Results:    results[from:to],
		TotalCount: totalCount,
		Page:       params.Page,
		Size:       size,
		TotalPages: int((totalCount + int64(size) - 1) / int64(size)),
	}, nil
}
