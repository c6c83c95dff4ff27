package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
)

func TestBrowseRoot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.mustCreateFolder(f.alice, "Beta", nil)
	f.mustCreateFolder(f.alice, "Alpha", nil)
	f.mustUpload(f.alice, "b.txt", "text/plain", []byte("b"), nil)
	f.mustUpload(f.alice, "a.txt", "text/plain", []byte("a"), nil)

	resp, err := f.browseSvc.Browse(ctx, f.alice, nil, "")
	if err != nil {
		t.Fatalf("browse root: %v", err)
	}

	if resp.CurrentFolder != nil {
		t.Errorf("current folder = %+v, want nil at root", resp.CurrentFolder)
	}
	if len(resp.Breadcrumb) != 1 || resp.Breadcrumb[0].Name != "Root" || resp.Breadcrumb[0].ID != nil {
		t.Errorf("breadcrumb = %+v, want single synthetic Root entry", resp.Breadcrumb)
	}
	if len(resp.Folders) != 2 || resp.Folders[0].Name != "Alpha" || resp.Folders[1].Name != "Beta" {
		t.Errorf("folders = %v, want [Alpha Beta]", names(resp.Folders))
	}
	if len(resp.Files) != 2 || resp.Files[0].Name != "a.txt" || resp.Files[1].Name != "b.txt" {
		t.Errorf("files not name-sorted: %+v", resp.Files)
	}
}

func TestBrowseBreadcrumbChain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.mustCreateFolder(f.alice, "A", nil)
	b := f.mustCreateFolder(f.alice, "B", &a.ID)
	c := f.mustCreateFolder(f.alice, "C", &b.ID)

	resp, err := f.browseSvc.Browse(ctx, f.alice, &c.ID, "")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}

	want := []string{"Root", "A", "B", "C"}
	if len(resp.Breadcrumb) != len(want) {
		t.Fatalf("breadcrumb length = %d, want %d", len(resp.Breadcrumb), len(want))
	}
	for i, name := range want {
		if resp.Breadcrumb[i].Name != name {
			t.Errorf("breadcrumb[%d] = %q, want %q", i, resp.Breadcrumb[i].Name, name)
		}
	}
	if resp.Breadcrumb[0].ID != nil {
		t.Errorf("root entry has id %v, want nil", resp.Breadcrumb[0].ID)
	}
	if resp.Breadcrumb[3].ID == nil || *resp.Breadcrumb[3].ID != c.ID {
		t.Errorf("leaf entry id mismatch")
	}
	if resp.CurrentFolder == nil || resp.CurrentFolder.ID != c.ID {
		t.Errorf("current folder = %+v, want C", resp.CurrentFolder)
	}
}

func TestBrowseBreadcrumbToleratesBrokenLink(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// An orphaned subtree: parent pointer aims at a row that is gone.
	ghost := uuid.New()
	orphan := models.Folder{Name: "Orphan", ParentID: &ghost, Path: "/Gone/Orphan", OwnerID: f.alice.ID}
	if err := f.folders.Create(ctx, &orphan); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	resp, err := f.browseSvc.Browse(ctx, f.alice, &orphan.ID, "")
	if err != nil {
		t.Fatalf("browse orphan: %v", err)
	}

	if len(resp.Breadcrumb) != 2 || resp.Breadcrumb[0].Name != "Root" || resp.Breadcrumb[1].Name != "Orphan" {
		t.Errorf("breadcrumb = %+v, want [Root Orphan]", resp.Breadcrumb)
	}
}

func TestBrowseBreadcrumbRejectsCycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Corrupted data: two rows whose parent pointers form a cycle. The
	// walk must hit the hop cap and fail instead of looping forever.
	idA, idB := uuid.New(), uuid.New()
	a := models.Folder{ID: idA, Name: "A", ParentID: &idB, Path: "/B/A", OwnerID: f.alice.ID}
	b := models.Folder{ID: idB, Name: "B", ParentID: &idA, Path: "/A/B", OwnerID: f.alice.ID}
	if err := f.folders.Create(ctx, &a); err != nil {
		t.Fatalf("seed a: %v", err)
	}
	if err := f.folders.Create(ctx, &b); err != nil {
		t.Fatalf("seed b: %v", err)
	}

	_, err := f.browseSvc.Browse(ctx, f.alice, &idA, "")
	if !errors.Is(err, apperrors.ErrStorageFailure) {
		t.Errorf("cyclic ancestry: err = %v, want ErrStorageFailure", err)
	}
}

func TestBrowseAccessControl(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	bob := f.addUser("bob", "bob@example.com")
	private := f.mustCreateFolder(bob, "Private", nil)

	if _, err := f.browseSvc.Browse(ctx, f.alice, &private.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign browse: err = %v, want ErrPermissionDenied", err)
	}

	// Admin browsing bob's tree needs the matching userId target.
	if _, err := f.browseSvc.Browse(ctx, f.admin, &private.ID, bob.ID.String()); err != nil {
		t.Errorf("admin browse with target: %v", err)
	}
	if _, err := f.browseSvc.Browse(ctx, f.admin, &private.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin browse without target: err = %v, want ErrPermissionDenied", err)
	}

	unknown := uuid.New()
	if _, err := f.browseSvc.Browse(ctx, f.alice, &unknown, ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing folder: err = %v, want ErrNotFound", err)
	}
}
