package domain

import (
	"context"
	"time"
)

// Employee 员工档案（email 全局唯一）
type Employee struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Firstname string    `gorm:"size:64;not null" json:"firstname"`
	Lastname  string    `gorm:"size:64;not null" json:"lastname"`
	Position  string    `gorm:"size:64;not null" json:"position"`
	Phone     string    `gorm:"size:32;not null" json:"phone"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Employee) TableName() string { return "employees" }

// Field 可过滤/可编辑的列
type Field string

const (
	FieldFirstname Field = "firstname"
	FieldLastname  Field = "lastname"
	FieldPosition  Field = "position"
	FieldPhone     Field = "phone"
	FieldEmail     Field = "email"
)

// FilterFields 过滤字段白名单（进入存储层前校验）
var FilterFields = []Field{FieldFirstname, FieldLastname, FieldPosition, FieldPhone, FieldEmail}

func IsFilterField(f Field) bool {
	for _, v := range FilterFields {
		if v == f {
			return true
		}
	}
	return false
}

// SortFields 排序白名单；不在其中的字段静默回落到 firstname
var SortFields = []Field{FieldFirstname, FieldLastname, FieldPosition}

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter 单字段模式过滤（大小写不敏感子串匹配）
type Filter struct {
	Field Field
	Value string
}

// ListQuery 列表查询参数（已经过 service 层归一化）
type ListQuery struct {
	Filter *Filter
	SortBy Field
	Order  string
	Page   int
	Limit  int
}

// Page 一页结果 + 页数元数据
type Page struct {
	Data        []Employee
	CurrentPage int
	TotalPages  int
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context, q ListQuery) ([]Employee, int64, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
}
