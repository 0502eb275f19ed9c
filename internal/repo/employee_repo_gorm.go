package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-employee-directory/internal/domain"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if err != nil && isDupKey(err) {
		return &domain.ConflictError{Email: e.Email}
	}
	return err
}

func (r *EmployeeRepo) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &e, err
}

func (r *EmployeeRepo) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &e, err
}

// List 过滤 + 单字段排序 + 分页；total 按过滤后的全集计数，与 limit/offset 无关。
// 排序同值时顺序由存储决定（无次级排序键）。
func (r *EmployeeRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Employee{})
	if q.Filter != nil {
		tx = tx.Where(r.patternCond(q.Filter.Field), q.Filter.Value)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := fmt.Sprintf("%s %s", q.SortBy, strings.ToUpper(q.Order))
	offset := (q.Page - 1) * q.Limit

	var out []domain.Employee
	if err := tx.Order(order).Limit(q.Limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	err := r.db.WithContext(ctx).Save(e).Error
	if err != nil && isDupKey(err) {
		return &domain.ConflictError{Email: e.Email}
	}
	return err
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}

// patternCond 大小写不敏感的模式匹配，按方言选语法
func (r *EmployeeRepo) patternCond(field domain.Field) string {
	switch r.db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("%s ~* ?", field)
	case "mysql":
		return fmt.Sprintf("%s REGEXP ?", field) // utf8mb4 默认排序规则不区分大小写
	default:
		return fmt.Sprintf("LOWER(%s) LIKE CONCAT('%%', LOWER(?), '%%')", field)
	}
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免版本差异导致“undefined”
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
