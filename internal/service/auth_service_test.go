package service

import (
	"net/http"
	"testing"
	"time"

	"vsm-server/internal/apperr"
	"vsm-server/internal/core/auth"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

// fakeUserRepo 内存版 UserRepository，够服务层测试用
type fakeUserRepo struct {
	users map[string]*domain.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(u *domain.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(domain.UserListFilter) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Count() (int64, error) { return int64(len(f.users)), nil }

func (f *fakeUserRepo) Update(u *domain.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Deactivate(id string) error {
	if u, ok := f.users[id]; ok {
		u.IsActive = false
		return nil
	}
	return errNotFoundForTest
}

func (f *fakeUserRepo) HardDelete(id string) error {
	if _, ok := f.users[id]; ok {
		delete(f.users, id)
		return nil
	}
	return errNotFoundForTest
}

var errNotFoundForTest = apperr.NotFound("not found")

func newTestAuthService(repo domain.UserRepository) *AuthService {
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "vsm-test", TTL: time.Hour}
	return NewAuthService(repo, jwter, "@vsm.org.vn")
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if got := apperr.StatusOf(err); got != status {
		t.Fatalf("status: got %d (%v), want %d", got, err, status)
	}
}

func TestRegisterSelfService(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	out, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@vsm.org.vn",
		Password: "secret-pass",
	}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.Token == "" {
		t.Error("expected a token")
	}
	if out.User.Role != domain.RoleUser {
		t.Errorf("Role: got %s, want USER", out.User.Role)
	}
	if !out.User.IsActive {
		t.Error("expected new account to be active")
	}
	if out.User.PasswordHash == "secret-pass" {
		t.Error("password must be hashed before storage")
	}
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(RegisterInput{Email: "alice@gmail.com", Password: "secret-pass"}, nil)
	wantStatus(t, err, http.StatusUnauthorized)

	if n, _ := repo.Count(); n != 0 {
		t.Errorf("no user record may be created on rejection, have %d", n)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(RegisterInput{Email: "alice@vsm.org.vn", Password: "secret-pass"}, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(RegisterInput{Email: "alice@vsm.org.vn", Password: "secret-pass"}, nil)
	wantStatus(t, err, http.StatusConflict)

	if n, _ := repo.Count(); n != 1 {
		t.Errorf("duplicate must not create a second record, have %d", n)
	}
}

func TestRegisterSelfServiceIgnoresSuppliedRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	out, err := svc.Register(RegisterInput{Email: "mallory@vsm.org.vn", Password: "secret-pass", Role: "ADMIN"}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.User.Role != domain.RoleUser {
		t.Errorf("self-service role escalation: got %s, want USER", out.User.Role)
	}
}

func TestRegisterByAdminAssignsRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	admin := &Actor{ID: "admin-1", Role: domain.RoleAdmin}

	out, err := svc.Register(RegisterInput{Email: "bob@vsm.org.vn", Password: "secret-pass", Role: "EDITOR"}, admin)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.User.Role != domain.RoleEditor {
		t.Errorf("Role: got %s, want EDITOR", out.User.Role)
	}
}

func TestRegisterByAdminRejectsUnknownRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	admin := &Actor{ID: "admin-1", Role: domain.RoleAdmin}

	_, err := svc.Register(RegisterInput{Email: "bob@vsm.org.vn", Password: "secret-pass", Role: "OVERLORD"}, admin)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestRegisterByEditorForbidden(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	editor := &Actor{ID: "editor-1", Role: domain.RoleEditor}

	_, err := svc.Register(RegisterInput{Email: "bob@vsm.org.vn", Password: "secret-pass", Role: "EDITOR"}, editor)
	wantStatus(t, err, http.StatusForbidden)

	if n, _ := repo.Count(); n != 0 {
		t.Errorf("no record on forbidden call, have %d", n)
	}
}

func TestRegisterByPlainUserUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	user := &Actor{ID: "user-1", Role: domain.RoleUser}

	_, err := svc.Register(RegisterInput{Email: "bob@vsm.org.vn", Password: "secret-pass", Role: "ADMIN"}, user)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	out, err := svc.Register(RegisterInput{Email: "  Alice@VSM.org.vn ", Password: "secret-pass"}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.User.Email != "alice@vsm.org.vn" {
		t.Errorf("Email: got %q, want normalized lowercase", out.User.Email)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	if _, err := svc.Register(RegisterInput{Email: "alice@vsm.org.vn", Password: "secret-pass"}, nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	out, err := svc.Login("alice@vsm.org.vn", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if out.Token == "" {
		t.Error("expected a token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	if _, err := svc.Register(RegisterInput{Email: "alice@vsm.org.vn", Password: "secret-pass"}, nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login("alice@vsm.org.vn", "wrong-pass")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.Login("ghost@vsm.org.vn", "whatever")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLoginDeactivatedAccountFails(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	u := &domain.User{
		ID:           "u-1",
		Email:        "inactive@vsm.org.vn",
		PasswordHash: utils.HashPassword("secret-pass"),
		Role:         domain.RoleUser,
		IsActive:     false,
	}
	if err := repo.Create(u); err != nil {
		t.Fatal(err)
	}

	// 密码正确也不行
	_, err := svc.Login("inactive@vsm.org.vn", "secret-pass")
	wantStatus(t, err, http.StatusUnauthorized)
}
