package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/models"
)

func testUploadPolicy() config.UploadConfig {
	return config.UploadConfig{
		MaxSizeMB:    10,
		AllowedTypes: []string{"txt", "json", "pdf", "jpg", "jpeg", "png", "gif", "webp"},
	}
}

// In-memory stores mirroring the repository contracts: listings sorted by
// name ascending, search matching a case-insensitive substring, blob
// deletes idempotent.

type fakeFolderStore struct {
	mu      sync.Mutex
	folders map[uuid.UUID]models.Folder

	// getHook fires once, after the next GetByID snapshots its row but
	// before the caller sees it. Lets a test commit a competing mutation
	// in the window between a service's load and its lock acquisition.
	getHook func(id uuid.UUID)
}

func newFakeFolderStore() *fakeFolderStore {
	return &fakeFolderStore{folders: make(map[uuid.UUID]models.Folder)}
}

func (s *fakeFolderStore) GetByID(_ context.Context, id uuid.UUID) (*models.Folder, error) {
	s.mu.Lock()
	f, ok := s.folders[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, id)
	}
	if hook := s.takeGetHook(); hook != nil {
		hook(id)
	}
	return &f, nil
}

func (s *fakeFolderStore) takeGetHook() func(uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hook := s.getHook
	s.getHook = nil
	return hook
}

func (s *fakeFolderStore) Create(_ context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	s.folders[folder.ID] = *folder
	return nil
}

func (s *fakeFolderStore) Update(_ context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[folder.ID]; !ok {
		return fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, folder.ID)
	}
	s.folders[folder.ID] = *folder
	return nil
}

func (s *fakeFolderStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folders, id)
	return nil
}

func (s *fakeFolderStore) ListByParent(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID && sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (s *fakeFolderStore) ListChildren(_ context.Context, parentID uuid.UUID) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (s *fakeFolderStore) ListByPathPrefix(_ context.Context, ownerID uuid.UUID, prefix string) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID && strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (s *fakeFolderStore) ExistsInParent(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if f.OwnerID == ownerID && sameParent(f.ParentID, parentID) && f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeFolderStore) ExistsInParentExcluding(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if f.ID != excludeID && f.OwnerID == ownerID && sameParent(f.ParentID, parentID) && f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeFolderStore) SearchByName(_ context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.Folder, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID && strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			matches = append(matches, f)
		}
	}
	sortFoldersByName(matches)
	total := int64(len(matches))
	return pageOf(matches, limit, offset), total, nil
}

func (s *fakeFolderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.folders)
}

type fakeFileStore struct {
	mu    sync.Mutex
	files map[uuid.UUID]models.File
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[uuid.UUID]models.File)}
}

func (s *fakeFileStore) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", apperrors.ErrNotFound, id)
	}
	return &f, nil
}

func (s *fakeFileStore) Create(_ context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	s.files[file.ID] = *file
	return nil
}

func (s *fakeFileStore) Update(_ context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[file.ID]; !ok {
		return fmt.Errorf("%w: file %s", apperrors.ErrNotFound, file.ID)
	}
	s.files[file.ID] = *file
	return nil
}

func (s *fakeFileStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, id)
	return nil
}

func (s *fakeFileStore) ListByFolder(_ context.Context, ownerID uuid.UUID, parentFolderID *uuid.UUID) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && sameParent(f.ParentFolderID, parentFolderID) {
			out = append(out, f)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *fakeFileStore) ListByParentFolder(_ context.Context, parentFolderID uuid.UUID) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.File
	for _, f := range s.files {
		if f.ParentFolderID != nil && *f.ParentFolderID == parentFolderID {
			out = append(out, f)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *fakeFileStore) ListByPathPrefix(_ context.Context, ownerID uuid.UUID, prefix string) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *fakeFileStore) ListAll(_ context.Context) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.File
	for _, f := range s.files {
		out = append(out, f)
	}
	sortFilesNewestFirst(out)
	return out, nil
}

func (s *fakeFileStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	sortFilesNewestFirst(out)
	return out, nil
}

func (s *fakeFileStore) SearchByName(_ context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.File, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && strings.Contains(strings.ToLower(f.OriginalName), strings.ToLower(query)) {
			matches = append(matches, f)
		}
	}
	sortFilesByName(matches)
	total := int64(len(matches))
	return pageOf(matches, limit, offset), total, nil
}

func (s *fakeFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]models.User)}
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, email)
}

func (s *fakeUserStore) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failDel map[string]bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		failDel: make(map[string]bool),
	}
}

func (s *fakeObjectStore) Put(_ context.Context, key string, content io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("%w: size mismatch for %s", apperrors.ErrStorageFailure, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: object %s", apperrors.ErrNotFound, key)
	}
	return bytes.Clone(data), nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel[key] {
		return fmt.Errorf("%w: delete refused for %s", apperrors.ErrStorageFailure, key)
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) PresignGet(_ context.Context, key string, expires time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("%w: object %s", apperrors.ErrNotFound, key)
	}
	return "https://blobs.example.com/" + key + "?expires=" + expires.String(), nil
}

func (s *fakeObjectStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortFoldersByName(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
}

func sortFilesByName(files []models.File) {
	sort.Slice(files, func(i, j int) bool { return files[i].OriginalName < files[j].OriginalName })
}

func sortFilesNewestFirst(files []models.File) {
	sort.Slice(files, func(i, j int) bool { return files[i].UploadedAt.After(files[j].UploadedAt) })
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// fixture wires every service against shared fakes and pre-creates one
// regular user and one admin.
type fixture struct {
	folders *fakeFolderStore
	files   *fakeFileStore
	users   *fakeUserStore
	blobs   *fakeObjectStore

	folderSvc *FolderService
	fileSvc   *FileService
	browseSvc *BrowseService
	searchSvc *SearchService
	userSvc   *UserService

	alice Caller
	admin Caller
}

func newFixture() *fixture {
	folders := newFakeFolderStore()
	files := newFakeFileStore()
	users := newFakeUserStore()
	blobs := newFakeObjectStore()
	access := NewAccessResolver(users)

	f := &fixture{
		folders:   folders,
		files:     files,
		users:     users,
		blobs:     blobs,
		folderSvc: NewFolderService(folders, files, users, access, blobs),
		fileSvc:   NewFileService(files, folders, users, access, blobs, testUploadPolicy()),
		browseSvc: NewBrowseService(folders, files, users, access),
		searchSvc: NewSearchService(folders, files, users, access),
		userSvc:   NewUserService(users),
	}

	alice := models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	admin := models.User{Username: "root", Email: "admin@example.com", Role: models.RoleAdmin}
	_ = users.Create(context.Background(), &alice)
	_ = users.Create(context.Background(), &admin)

	f.alice = Caller{ID: alice.ID, Role: alice.Role}
	f.admin = Caller{ID: admin.ID, Role: admin.Role}
	return f
}

func (f *fixture) addUser(username, email string) Caller {
	u := models.User{Username: username, Email: email, Role: models.RoleUser}
	_ = f.users.Create(context.Background(), &u)
	return Caller{ID: u.ID, Role: u.Role}
}

// mustCreateFolder creates a folder or panics; for test setup only.
func (f *fixture) mustCreateFolder(c Caller, name string, parentID *uuid.UUID) *FolderResponse {
	resp, err := f.folderSvc.Create(context.Background(), c, name, parentID)
	if err != nil {
		panic(err)
	}
	return resp
}

func (f *fixture) mustUpload(c Caller, name, contentType string, content []byte, parentID *uuid.UUID) *FileResponse {
	resp, err := f.fileSvc.Upload(context.Background(), c, UploadInput{
		Name:           name,
		ContentType:    contentType,
		Size:           int64(len(content)),
		Content:        bytes.NewReader(content),
		ParentFolderID: parentID,
	})
	if err != nil {
		panic(err)
	}
	return resp
}
