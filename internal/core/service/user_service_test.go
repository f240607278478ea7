package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

func newTestUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, domain.DefaultRolePermissions(), zerolog.Nop())
}

func seedUser(t *testing.T, svc *UserService, first, last, email, role string) *domain.User {
	t.Helper()
	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "password1",
		Role:      role,
		SchoolID:  "tenant_1",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	seedUser(t, svc, "Ada", "Lovelace", "ada@example.com", domain.RoleUser)

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		FirstName: "Another",
		LastName:  "Ada",
		Email:     "ada@example.com",
		Password:  "password1",
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "password1",
		Role:      "superuser",
	})
	if err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
}

func TestUserService_Update_RehashOnlyOnPasswordChange(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	user := seedUser(t, svc, "Ada", "Lovelace", "ada@example.com", domain.RoleUser)

	before, _ := repo.FindByID(context.Background(), user.ID)

	// Update without password: hash must be untouched.
	newFirst := "Augusta"
	if _, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{FirstName: &newFirst}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	after, _ := repo.FindByID(context.Background(), user.ID)
	if after.Password != before.Password {
		t.Fatalf("password rehashed without a plaintext change")
	}
	if after.FirstName != "Augusta" {
		t.Fatalf("first name not updated: %s", after.FirstName)
	}

	// Update with password: hash must change and match the new plaintext.
	newPass := "password2"
	if _, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Password: &newPass}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	final, _ := repo.FindByID(context.Background(), user.ID)
	if final.Password == after.Password {
		t.Fatalf("password hash unchanged after plaintext change")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(final.Password), []byte("password2")); err != nil {
		t.Fatalf("new hash does not match new password: %v", err)
	}
}

func TestUserService_Update_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	seedUser(t, svc, "Ada", "Lovelace", "ada@example.com", domain.RoleUser)
	bob := seedUser(t, svc, "Bob", "Babbage", "bob@example.com", domain.RoleUser)

	taken := "ada@example.com"
	if _, err := svc.Update(context.Background(), bob.ID, ports.UpdateUserInput{Email: &taken}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Keeping one's own email is not a conflict.
	own := "bob@example.com"
	if _, err := svc.Update(context.Background(), bob.ID, ports.UpdateUserInput{Email: &own}); err != nil {
		t.Fatalf("updating to own email failed: %v", err)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	if err := svc.Delete(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Query_Pagination(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	seedUser(t, svc, "Ada", "Lovelace", "ada@example.com", domain.RoleUser)
	seedUser(t, svc, "Bob", "Babbage", "bob@example.com", domain.RoleUser)
	seedUser(t, svc, "Cyd", "Charisse", "cyd@example.com", domain.RoleUser)

	page, err := svc.Query(context.Background(), ports.UserFilter{}, ports.PageOptions{Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 result on page 2, got %d", len(page.Results))
	}
	if page.TotalPages != 2 || page.TotalResults != 3 {
		t.Fatalf("unexpected totals: pages=%d results=%d", page.TotalPages, page.TotalResults)
	}
	if page.Page != 2 || page.Limit != 2 {
		t.Fatalf("unexpected page/limit: %d/%d", page.Page, page.Limit)
	}
}

func TestUserService_Query_MultiKeySort(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	seedUser(t, svc, "Zoe", "A", "zoe@example.com", domain.RoleUser)
	seedUser(t, svc, "Amy", "B", "amy@example.com", domain.RoleAdmin)
	seedUser(t, svc, "Bea", "C", "bea@example.com", domain.RoleUser)
	seedUser(t, svc, "Cal", "D", "cal@example.com", domain.RoleAdmin)

	page, err := svc.Query(context.Background(), ports.UserFilter{}, ports.PageOptions{SortBy: "role:desc,firstName:asc"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	got := make([]string, 0, len(page.Results))
	for _, u := range page.Results {
		got = append(got, u.Role+"/"+u.FirstName)
	}
	want := []string{"user/Bea", "user/Zoe", "admin/Amy", "admin/Cal"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
}

func TestUserService_Query_Filter(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	seedUser(t, svc, "Ada", "Lovelace", "ada@example.com", domain.RoleAdmin)
	seedUser(t, svc, "Bob", "Babbage", "bob@example.com", domain.RoleUser)

	page, err := svc.Query(context.Background(), ports.UserFilter{Role: domain.RoleAdmin}, ports.PageOptions{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if page.TotalResults != 1 || page.Results[0].Email != "ada@example.com" {
		t.Fatalf("unexpected filter result: %+v", page.Results)
	}
}
