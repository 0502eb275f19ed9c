package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go-employee-directory/internal/core/cache"
	"go-employee-directory/internal/domain"
	"go-employee-directory/pkg/utils"
)

// 与前端一致的宽松邮箱格式
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	defaultPage = 1
	cacheTTL    = 5 * time.Minute
)

type EmployeeService struct {
	repo  domain.EmployeeRepository
	cache *cache.Cache // 可为 nil（未配置 redis 时直连 DB）
}

func NewEmployeeService(repo domain.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) WithCache(c *cache.Cache) *EmployeeService {
	s.cache = c
	return s
}

// CreateInput 五个字段全部必填
type CreateInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Position  string `json:"position"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// UpdateInput 任意子集；nil 表示该字段不改
type UpdateInput struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Position  *string `json:"position"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// ListInput 未归一化的列表参数（handler 直接透传）
type ListInput struct {
	FilterField string
	FilterValue string
	SortBy      string
	Order       string
	Page        int
	Limit       int
}

func (s *EmployeeService) Create(ctx context.Context, in CreateInput) (*domain.Employee, error) {
	e := domain.Employee{
		ID:        utils.NewID(),
		Firstname: strings.TrimSpace(in.Firstname),
		Lastname:  strings.TrimSpace(in.Lastname),
		Position:  strings.TrimSpace(in.Position),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}
	if err := validateRequired(domain.FieldFirstname, e.Firstname); err != nil {
		return nil, err
	}
	if err := validateRequired(domain.FieldLastname, e.Lastname); err != nil {
		return nil, err
	}
	if err := validateRequired(domain.FieldPosition, e.Position); err != nil {
		return nil, err
	}
	if err := validateRequired(domain.FieldPhone, e.Phone); err != nil {
		return nil, err
	}
	if err := validateEmail(e.Email); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, e.Email, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if s.cache != nil {
		e, err := cache.GetOrLoadJSON[domain.Employee](s.cache, ctx, cacheKey(id), cacheTTL,
			func(ctx context.Context) (*domain.Employee, error) {
				return s.repo.FindByID(ctx, id)
			})
		if err == nil && e == nil {
			return nil, &domain.NotFoundError{ID: id}
		}
		if err == nil {
			return e, nil
		}
		// 缓存故障时退回直连
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, in UpdateInput) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	apply := func(dst *string, field domain.Field, v *string) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if err := validateRequired(field, t); err != nil {
			return err
		}
		*dst = t
		return nil
	}
	if err := apply(&e.Firstname, domain.FieldFirstname, in.Firstname); err != nil {
		return nil, err
	}
	if err := apply(&e.Lastname, domain.FieldLastname, in.Lastname); err != nil {
		return nil, err
	}
	if err := apply(&e.Position, domain.FieldPosition, in.Position); err != nil {
		return nil, err
	}
	if err := apply(&e.Phone, domain.FieldPhone, in.Phone); err != nil {
		return nil, err
	}
	if in.Email != nil {
		t := strings.TrimSpace(*in.Email)
		if err := validateEmail(t); err != nil {
			return nil, err
		}
		if err := s.checkEmailFree(ctx, t, id); err != nil {
			return nil, err
		}
		e.Email = t
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// List 归一化分页/排序/过滤后查询；totalPages = ceil(过滤后总数 / limit)。
// 超出范围的 page 返回空列表，totalPages 照常计算。
func (s *EmployeeService) List(ctx context.Context, in ListInput) (*domain.Page, error) {
	q := domain.ListQuery{
		SortBy: domain.FieldFirstname,
		Order:  domain.OrderAsc,
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		// 0 或负的页大小不做静默兜底，显式拒绝
		return nil, domain.Invalid("limit", "must be >= 1")
	}

	// 排序白名单外的字段静默回落（有意保留的默认行为）
	for _, f := range domain.SortFields {
		if string(f) == in.SortBy {
			q.SortBy = f
			break
		}
	}
	if in.Order == domain.OrderDesc {
		q.Order = domain.OrderDesc
	}

	if in.FilterField != "" {
		f := domain.Field(in.FilterField)
		if !domain.IsFilterField(f) {
			return nil, domain.Invalid(f, "unknown filter field")
		}
		q.Filter = &domain.Filter{Field: f, Value: in.FilterValue}
	}

	data, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if data == nil {
		data = []domain.Employee{}
	}
	return &domain.Page{Data: data, CurrentPage: q.Page, TotalPages: totalPages}, nil
}

func (s *EmployeeService) checkEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return &domain.ConflictError{Email: email}
	}
	return nil
}

func (s *EmployeeService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKey(id))
	}
}

func cacheKey(id string) string { return "employee:" + id }

func validateRequired(f domain.Field, v string) error {
	if v == "" {
		return domain.Invalid(f, "required")
	}
	return nil
}

func validateEmail(v string) error {
	if v == "" {
		return domain.Invalid(domain.FieldEmail, "required")
	}
	if !emailPattern.MatchString(v) {
		return domain.Invalid(domain.FieldEmail, "invalid format")
	}
	return nil
}
