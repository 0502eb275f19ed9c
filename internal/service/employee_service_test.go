package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"go-employee-directory/internal/domain"
)

// memRepo 内存版仓库，行为对齐 gorm 实现（大小写不敏感子串过滤、单字段排序、offset/limit）
type memRepo struct {
	rows []domain.Employee
}

func (m *memRepo) Create(_ context.Context, e *domain.Employee) error {
	for _, r := range m.rows {
		if r.Email == e.Email {
			return &domain.ConflictError{Email: e.Email}
		}
	}
	m.rows = append(m.rows, *e)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			e := m.rows[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for i := range m.rows {
		if m.rows[i].Email == email {
			e := m.rows[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memRepo) List(_ context.Context, q domain.ListQuery) ([]domain.Employee, int64, error) {
	var matched []domain.Employee
	for _, r := range m.rows {
		if q.Filter == nil || strings.Contains(
			strings.ToLower(fieldOf(r, q.Filter.Field)),
			strings.ToLower(q.Filter.Value),
		) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := fieldOf(matched[i], q.SortBy), fieldOf(matched[j], q.SortBy)
		if q.Order == domain.OrderDesc {
			return a > b
		}
		return a < b
	})
	total := int64(len(matched))
	off := (q.Page - 1) * q.Limit
	if off >= len(matched) {
		return nil, total, nil
	}
	end := off + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[off:end], total, nil
}

func (m *memRepo) Update(_ context.Context, e *domain.Employee) error {
	for i := range m.rows {
		if m.rows[i].ID == e.ID {
			m.rows[i] = *e
			return nil
		}
	}
	return &domain.NotFoundError{ID: e.ID}
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{ID: id}
}

func fieldOf(e domain.Employee, f domain.Field) string {
	switch f {
	case domain.FieldFirstname:
		return e.Firstname
	case domain.FieldLastname:
		return e.Lastname
	case domain.FieldPosition:
		return e.Position
	case domain.FieldPhone:
		return e.Phone
	case domain.FieldEmail:
		return e.Email
	}
	return ""
}

func seeded(n int) *memRepo {
	m := &memRepo{}
	for i := 1; i <= n; i++ {
		pos := "Developer"
		if i%4 == 0 {
			pos = "Manager"
		}
		m.rows = append(m.rows, domain.Employee{
			ID:        fmt.Sprintf("id-%02d", i),
			Firstname: fmt.Sprintf("Name%02d", i),
			Lastname:  fmt.Sprintf("Last%02d", i),
			Position:  pos,
			Phone:     fmt.Sprintf("555-%04d", i),
			Email:     fmt.Sprintf("user%02d@example.com", i),
		})
	}
	return m
}

func validInput() CreateInput {
	return CreateInput{
		Firstname: "John", Lastname: "Doe", Position: "Developer",
		Phone: "123456789", Email: "john@example.com",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and persists", func(t *testing.T) {
		svc := NewEmployeeService(&memRepo{})
		e, err := svc.Create(ctx, validInput())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if e.ID == "" {
			t.Fatal("expected assigned id")
		}
		got, err := svc.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if got.Email != "john@example.com" {
			t.Fatalf("read back email = %q", got.Email)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc := NewEmployeeService(&memRepo{})
		if _, err := svc.Create(ctx, validInput()); err != nil {
			t.Fatalf("first create: %v", err)
		}
		in := validInput()
		in.Firstname = "Jane"
		_, err := svc.Create(ctx, in)
		if !domain.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		svc := NewEmployeeService(&memRepo{})
		cases := []func(*CreateInput){
			func(in *CreateInput) { in.Firstname = "" },
			func(in *CreateInput) { in.Lastname = " " },
			func(in *CreateInput) { in.Position = "" },
			func(in *CreateInput) { in.Phone = "" },
			func(in *CreateInput) { in.Email = "" },
			func(in *CreateInput) { in.Email = "not-an-email" },
			func(in *CreateInput) { in.Email = "half@done" },
		}
		for i, mutate := range cases {
			in := validInput()
			mutate(&in)
			if _, err := svc.Create(ctx, in); !domain.IsValidation(err) {
				t.Errorf("case %d: expected validation error, got %v", i, err)
			}
		}
	})
}

func TestGet(t *testing.T) {
	svc := NewEmployeeService(seeded(3))
	if _, err := svc.Get(context.Background(), "nope"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	e, err := svc.Get(context.Background(), "id-02")
	if err != nil || e.Firstname != "Name02" {
		t.Fatalf("get: %v %+v", err, e)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }

	t.Run("unknown id", func(t *testing.T) {
		svc := NewEmployeeService(seeded(2))
		_, err := svc.Update(ctx, "ghost", UpdateInput{Firstname: str("X")})
		if !domain.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		svc := NewEmployeeService(seeded(2))
		e, err := svc.Update(ctx, "id-01", UpdateInput{Position: str("CTO")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if e.Position != "CTO" || e.Firstname != "Name01" {
			t.Fatalf("got %+v", e)
		}
	})

	t.Run("supplied fields validated", func(t *testing.T) {
		svc := NewEmployeeService(seeded(2))
		if _, err := svc.Update(ctx, "id-01", UpdateInput{Phone: str("")}); !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, err := svc.Update(ctx, "id-01", UpdateInput{Email: str("broken")}); !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("email conflict with other record", func(t *testing.T) {
		svc := NewEmployeeService(seeded(2))
		_, err := svc.Update(ctx, "id-01", UpdateInput{Email: str("user02@example.com")})
		if !domain.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
		// 改回自己的邮箱不算冲突
		if _, err := svc.Update(ctx, "id-01", UpdateInput{Email: str("user01@example.com")}); err != nil {
			t.Fatalf("self email: %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	svc := NewEmployeeService(seeded(2))
	if err := svc.Delete(context.Background(), "ghost"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), "id-01"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "id-01"); !domain.IsNotFound(err) {
		t.Fatalf("expected gone, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("page 2 of 12 with limit 5", func(t *testing.T) {
		svc := NewEmployeeService(seeded(12))
		p, err := svc.List(ctx, ListInput{Page: 2, Limit: 5})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if p.TotalPages != 3 || p.CurrentPage != 2 || len(p.Data) != 5 {
			t.Fatalf("got totalPages=%d currentPage=%d len=%d", p.TotalPages, p.CurrentPage, len(p.Data))
		}
		if p.Data[0].Firstname != "Name06" || p.Data[4].Firstname != "Name10" {
			t.Fatalf("wrong slice: %s .. %s", p.Data[0].Firstname, p.Data[4].Firstname)
		}
	})

	t.Run("filter narrows the page count", func(t *testing.T) {
		svc := NewEmployeeService(seeded(12)) // 3 of 12 are Manager
		p, err := svc.List(ctx, ListInput{Page: 1, Limit: 5, FilterField: "position", FilterValue: "manager"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if p.TotalPages != 1 || len(p.Data) != 3 {
			t.Fatalf("got totalPages=%d len=%d", p.TotalPages, len(p.Data))
		}
	})

	t.Run("unknown sort field falls back to firstname", func(t *testing.T) {
		svc := NewEmployeeService(seeded(7))
		base, err := svc.List(ctx, ListInput{Page: 1, Limit: 10, SortBy: "firstname"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		odd, err := svc.List(ctx, ListInput{Page: 1, Limit: 10, SortBy: "salary; DROP TABLE"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for i := range base.Data {
			if base.Data[i].ID != odd.Data[i].ID {
				t.Fatalf("row %d differs: %s vs %s", i, base.Data[i].ID, odd.Data[i].ID)
			}
		}
	})

	t.Run("descending order", func(t *testing.T) {
		svc := NewEmployeeService(seeded(3))
		p, err := svc.List(ctx, ListInput{Page: 1, Limit: 10, Order: "desc"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if p.Data[0].Firstname != "Name03" {
			t.Fatalf("expected Name03 first, got %s", p.Data[0].Firstname)
		}
	})

	t.Run("page past the end is empty but counted", func(t *testing.T) {
		svc := NewEmployeeService(seeded(4))
		p, err := svc.List(ctx, ListInput{Page: 9, Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(p.Data) != 0 || p.TotalPages != 2 {
			t.Fatalf("got len=%d totalPages=%d", len(p.Data), p.TotalPages)
		}
	})

	t.Run("non-positive limit rejected", func(t *testing.T) {
		svc := NewEmployeeService(seeded(4))
		for _, limit := range []int{0, -1} {
			if _, err := svc.List(ctx, ListInput{Page: 1, Limit: limit}); !domain.IsValidation(err) {
				t.Errorf("limit %d: expected validation error, got %v", limit, err)
			}
		}
	})

	t.Run("unknown filter field rejected", func(t *testing.T) {
		svc := NewEmployeeService(seeded(4))
		_, err := svc.List(ctx, ListInput{Page: 1, Limit: 5, FilterField: "salary", FilterValue: "x"})
		if !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
