package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// --- users ---

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	seq       int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) IsEmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter, opts ports.PageOptions) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.FirstName != "" && u.FirstName != filter.FirstName {
			continue
		}
		if filter.LastName != "" && u.LastName != filter.LastName {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.SchoolID != "" && u.SchoolID != filter.SchoolID {
			continue
		}
		matches = append(matches, cloneUser(u))
	}

	sortUsers(matches, opts.SortBy)

	total := int64(len(matches))
	limit, _ := opts.Normalize()
	skip := opts.Skip()
	if skip >= len(matches) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[skip:end], total, nil
}

// sortUsers applies the multi-key sort expression the way the Mongo query
// builder does, so pagination semantics can be exercised in memory.
func sortUsers(users []*domain.User, sortBy string) {
	keys := ports.ParseSortBy(sortBy)
	if len(keys) == 0 {
		sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
		return
	}
	sort.SliceStable(users, func(i, j int) bool {
		for _, k := range keys {
			a, b := userField(users[i], k.Field), userField(users[j], k.Field)
			if a == b {
				continue
			}
			if k.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func userField(u *domain.User, field string) string {
	switch field {
	case "firstName", "name":
		return u.FirstName
	case "lastName":
		return u.LastName
	case "email":
		return u.Email
	case "role":
		return u.Role
	default:
		return u.ID
	}
}

// --- tokens ---

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
	seq    int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.Token)}
}

func cloneToken(t *domain.Token) *domain.Token {
	clone := *t
	return &clone
}

func (r *stubTokenRepo) Save(_ context.Context, token *domain.Token) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := cloneToken(token)
	clone.ID = fmt.Sprintf("token_%d", r.seq)
	r.tokens[clone.ID] = clone
	return cloneToken(clone), nil
}

func (r *stubTokenRepo) FindActive(_ context.Context, token, tokenType string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token && t.Type == tokenType && !t.Blacklisted {
			return cloneToken(t), nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubTokenRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return domain.ErrTokenNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *stubTokenRepo) DeleteAllForUser(_ context.Context, userID, tokenType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID && t.Type == tokenType {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *stubTokenRepo) count(tokenType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.Type == tokenType {
			n++
		}
	}
	return n
}

// --- schools ---

type stubSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*domain.School
	seq     int
}

func newStubSchoolRepo() *stubSchoolRepo {
	return &stubSchoolRepo{schools: make(map[string]*domain.School)}
}

func cloneSchool(s *domain.School) *domain.School {
	clone := *s
	return &clone
}

func (r *stubSchoolRepo) Create(_ context.Context, school *domain.School) (*domain.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := cloneSchool(school)
	clone.ID = fmt.Sprintf("school_%d", r.seq)
	r.schools[clone.ID] = clone
	return cloneSchool(clone), nil
}

func (r *stubSchoolRepo) FindByID(_ context.Context, id string) (*domain.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schools[id]
	if !ok {
		return nil, domain.ErrSchoolNotFound
	}
	return cloneSchool(s), nil
}

func (r *stubSchoolRepo) FindByTenantID(_ context.Context, tenantID string) (*domain.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schools {
		if s.SchoolID == tenantID {
			return cloneSchool(s), nil
		}
	}
	return nil, domain.ErrSchoolNotFound
}

func (r *stubSchoolRepo) IsEmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.schools {
		if s.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSchoolRepo) Update(_ context.Context, school *domain.School) (*domain.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[school.ID]; !ok {
		return nil, domain.ErrSchoolNotFound
	}
	r.schools[school.ID] = cloneSchool(school)
	return cloneSchool(school), nil
}

func (r *stubSchoolRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[id]; !ok {
		return domain.ErrSchoolNotFound
	}
	delete(r.schools, id)
	return nil
}

func (r *stubSchoolRepo) List(_ context.Context, filter ports.SchoolFilter, opts ports.PageOptions) ([]*domain.School, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]*domain.School, 0, len(r.schools))
	for _, s := range r.schools {
		if filter.Name != "" && s.Name != filter.Name {
			continue
		}
		if filter.Email != "" && s.Email != filter.Email {
			continue
		}
		matches = append(matches, cloneSchool(s))
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := int64(len(matches))
	limit, _ := opts.Normalize()
	skip := opts.Skip()
	if skip >= len(matches) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[skip:end], total, nil
}

// --- students ---

type stubStudentRepo struct {
	mu       sync.Mutex
	students map[string]*domain.Student
	seq      int
}

func newStubStudentRepo() *stubStudentRepo {
	return &stubStudentRepo{students: make(map[string]*domain.Student)}
}

func cloneStudent(s *domain.Student) *domain.Student {
	clone := *s
	return &clone
}

func (r *stubStudentRepo) Create(_ context.Context, student *domain.Student) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := cloneStudent(student)
	clone.ID = fmt.Sprintf("student_%d", r.seq)
	r.students[clone.ID] = clone
	return cloneStudent(clone), nil
}

func (r *stubStudentRepo) FindByID(_ context.Context, id string) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	return cloneStudent(s), nil
}

func (r *stubStudentRepo) IsEmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.students {
		if s.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubStudentRepo) Update(_ context.Context, student *domain.Student) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[student.ID]; !ok {
		return nil, domain.ErrStudentNotFound
	}
	r.students[student.ID] = cloneStudent(student)
	return cloneStudent(student), nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return domain.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *stubStudentRepo) List(_ context.Context, filter ports.StudentFilter, opts ports.PageOptions) ([]*domain.Student, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]*domain.Student, 0, len(r.students))
	for _, s := range r.students {
		if filter.Name != "" && s.Name != filter.Name {
			continue
		}
		if filter.Class != "" && s.Class != filter.Class {
			continue
		}
		if filter.Section != "" && s.Section != filter.Section {
			continue
		}
		if filter.Group != "" && s.Group != filter.Group {
			continue
		}
		if filter.SchoolID != "" && s.SchoolID != filter.SchoolID {
			continue
		}
		matches = append(matches, cloneStudent(s))
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := int64(len(matches))
	limit, _ := opts.Normalize()
	skip := opts.Skip()
	if skip >= len(matches) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[skip:end], total, nil
}

// --- mailer and limiter ---

type stubMailer struct {
	mu      sync.Mutex
	welcome []string
	resets  []string // "to|token"
}

func (m *stubMailer) SendWelcomeEmail(_, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcome = append(m.welcome, to)
}

func (m *stubMailer) SendResetPasswordEmail(_, to, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, to+"|"+token)
}

type stubLimiter struct {
	allow bool
	err   error
	calls int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allow, l.err
}
