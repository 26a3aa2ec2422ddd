package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Pyyho/Technology-MIREA/internal/models"
	"github.com/Pyyho/Technology-MIREA/internal/store"
)

func seededUserService() (*UserService, *store.Store) {
	st := store.New()
	st.Seed()
	return NewUserService(st), st
}

func TestGetByID(t *testing.T) {
	svc, _ := seededUserService()

	u, err := svc.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID(1) error = %v", err)
	}
	if u.Username != "vasya" {
		t.Errorf("username = %q, want vasya", u.Username)
	}

	_, err = svc.GetByID(99)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetByID(99) error = %v, want NotFoundError", err)
	}
	if nf.Key != 99 {
		t.Errorf("NotFoundError.Key = %v, want 99", nf.Key)
	}
}

func TestGetByUsername(t *testing.T) {
	svc, _ := seededUserService()

	u, err := svc.GetByUsername("katya")
	if err != nil || u.ID != 2 {
		t.Fatalf("GetByUsername(katya) = %+v, %v, want id 2", u, err)
	}

	// 精确匹配，大小写不同视为不存在
	if _, err := svc.GetByUsername("KATYA"); err == nil {
		t.Error("GetByUsername(KATYA) error = nil, want NotFoundError")
	}
}

func TestDelete_SecondCallNotFound(t *testing.T) {
	svc, _ := seededUserService()

	if err := svc.Delete(1); err != nil {
		t.Fatalf("first Delete(1) error = %v", err)
	}
	err := svc.Delete(1)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("second Delete(1) error = %v, want NotFoundError", err)
	}
}

func TestCreate_DuplicateEmailConflict(t *testing.T) {
	svc, st := seededUserService()

	req := models.CreateUserRequest{Username: "petya", Email: "petya@example.com", Password: "secret1"}
	if _, err := svc.Create(req); err != nil {
		t.Fatalf("first Create error = %v", err)
	}

	before := st.CountUsers()
	_, err := svc.Create(models.CreateUserRequest{Username: "other", Email: "petya@example.com", Password: "secret2"})
	var cf *ConflictError
	if !errors.As(err, &cf) {
		t.Fatalf("duplicate Create error = %v, want ConflictError", err)
	}
	if st.CountUsers() != before {
		t.Errorf("store size changed by rejected create: %d -> %d", before, st.CountUsers())
	}
}

func TestCreate_EmailComparisonCaseSensitive(t *testing.T) {
	svc, _ := seededUserService()

	// 与源实现一致：唯一性检查区分大小写
	u, err := svc.Create(models.CreateUserRequest{Username: "vasya2", Email: "VASYA@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Create with differently-cased email error = %v, want success", err)
	}
	if !u.IsActive {
		t.Error("new user is_active = false, want true default")
	}
	if u.ID != 3 {
		t.Errorf("new user id = %d, want 3", u.ID)
	}
}

func TestList_Pagination(t *testing.T) {
	st := store.New()
	svc := NewUserService(st)
	for i := 0; i < 12; i++ {
		st.InsertUser(models.User{Username: fmt.Sprintf("user%02d", i), Email: fmt.Sprintf("u%d@example.com", i), IsActive: true})
	}

	got := svc.List(models.ListUsersQuery{Limit: 5, Skip: 10})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Username != "user10" || got[1].Username != "user11" {
		t.Errorf("page = %s, %s, want user10, user11", got[0].Username, got[1].Username)
	}

	if got := svc.List(models.ListUsersQuery{Limit: 5, Skip: 20}); len(got) != 0 {
		t.Errorf("skip beyond end: len = %d, want 0", len(got))
	}
}

func TestList_Filters(t *testing.T) {
	svc, st := seededUserService()
	st.InsertUser(models.User{Username: "vasilisa", Email: "vasilisa@example.com", IsActive: false})

	got := svc.List(models.ListUsersQuery{Limit: 10, ActiveOnly: true})
	if len(got) != 2 {
		t.Errorf("active only: len = %d, want 2", len(got))
	}

	got = svc.List(models.ListUsersQuery{Limit: 10, UsernameContains: "VAS"})
	if len(got) != 2 {
		t.Fatalf("substring filter: len = %d, want 2 (vasya, vasilisa)", len(got))
	}
	if got[0].Username != "vasya" || got[1].Username != "vasilisa" {
		t.Errorf("substring filter order = %s, %s", got[0].Username, got[1].Username)
	}

	got = svc.List(models.ListUsersQuery{Limit: 10, ActiveOnly: true, UsernameContains: "vas"})
	if len(got) != 1 || got[0].Username != "vasya" {
		t.Errorf("combined filters = %+v, want only vasya", got)
	}
}

func TestReplace(t *testing.T) {
	svc, _ := seededUserService()

	orig, _ := svc.GetByID(1)
	u, err := svc.Replace(1, models.CreateUserRequest{Username: "vasiliy", Email: "vasiliy@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Replace error = %v", err)
	}
	if u.Username != "vasiliy" || u.Email != "vasiliy@example.com" {
		t.Errorf("Replace did not overwrite fields: %+v", u)
	}
	if u.ID != 1 || !u.CreatedAt.Equal(orig.CreatedAt) || u.IsActive != orig.IsActive {
		t.Errorf("Replace touched immutable fields: %+v", u)
	}

	if _, err := svc.Replace(99, models.CreateUserRequest{Username: "x3c", Email: "x@example.com", Password: "secret1"}); err == nil {
		t.Error("Replace(99) error = nil, want NotFoundError")
	}
}

func TestPatch_OnlyPresentFieldsApplied(t *testing.T) {
	svc, _ := seededUserService()

	var req models.UpdateUserRequest
	req.IsActive = models.Optional[bool]{Present: true, Value: false}

	u, err := svc.Patch(1, req)
	if err != nil {
		t.Fatalf("Patch error = %v", err)
	}
	if u.IsActive {
		t.Error("is_active = true, want false")
	}
	if u.Username != "vasya" || u.Email != "vasya@example.com" {
		t.Errorf("absent fields changed: %+v", u)
	}
}

func TestPatch_Validation(t *testing.T) {
	svc, _ := seededUserService()

	var req models.UpdateUserRequest
	req.Username = models.Optional[string]{Present: true, Value: "ab"}
	_, err := svc.Patch(1, req)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "username" {
		t.Errorf("short username: error = %v, want ValidationError on username", err)
	}

	req = models.UpdateUserRequest{}
	req.Email = models.Optional[string]{Present: true, Null: true}
	if _, err := svc.Patch(1, req); !errors.As(err, &ve) {
		t.Errorf("null email: error = %v, want ValidationError", err)
	}

	// 校验失败时不应有任何字段被应用
	u, _ := svc.GetByID(1)
	if u.Username != "vasya" || u.Email != "vasya@example.com" {
		t.Errorf("rejected patch partially applied: %+v", u)
	}

	if _, err := svc.Patch(99, models.UpdateUserRequest{}); err == nil {
		t.Error("Patch(99) error = nil, want NotFoundError")
	}
}

func TestPatch_UsernameLengthCountsRunes(t *testing.T) {
	svc, _ := seededUserService()

	// 2 个字符 6 个字节：必须按字符数拒绝
	_, err := svc.Patch(1, models.UpdateUserRequest{
		Username: models.Optional[string]{Present: true, Value: "日本"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "username" {
		t.Errorf("2-rune multibyte username: error = %v, want ValidationError on username", err)
	}

	// 50 个字符 100 个字节：按字符数在上限内
	long := strings.Repeat("ж", 50)
	u, err := svc.Patch(1, models.UpdateUserRequest{
		Username: models.Optional[string]{Present: true, Value: long},
	})
	if err != nil {
		t.Fatalf("50-rune multibyte username: error = %v, want success", err)
	}
	if u.Username != long {
		t.Errorf("username = %q, want %q", u.Username, long)
	}
}

func TestSearch(t *testing.T) {
	svc, st := seededUserService()
	st.InsertUser(models.User{Username: "vasilisa", Email: "lisa@example.com", IsActive: false})

	got := svc.Search(models.SearchUsersQuery{Q: "vasya", Limit: 10})
	if len(got) != 1 || got[0].Username != "vasya" {
		t.Fatalf("Search(vasya) = %+v, want exactly seed user vasya", got)
	}

	// email 侧匹配，大小写不敏感
	got = svc.Search(models.SearchUsersQuery{Q: "EXAMPLE.COM", Limit: 10})
	if len(got) != 2 {
		t.Errorf("Search by email domain: len = %d, want 2 active", len(got))
	}

	got = svc.Search(models.SearchUsersQuery{Q: "vas", Limit: 10, IncludeInactive: true})
	if len(got) != 2 {
		t.Errorf("include_inactive: len = %d, want 2", len(got))
	}

	got = svc.Search(models.SearchUsersQuery{Q: "example", Limit: 1, IncludeInactive: true})
	if len(got) != 1 || got[0].Username != "vasya" {
		t.Errorf("limit truncation: %+v, want first stored match only", got)
	}
}
