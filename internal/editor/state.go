package editor

import (
	"fmt"
	"regexp"

	"go-employee-directory/internal/domain"
	"go-employee-directory/pkg/utils"
)

// 表格内联编辑的状态机。每个单元格 Idle → Editing → Idle(dirty)；
// 编辑缓冲按 (行 id, 字段) 建键，行间互不串值。
// 所有脏标记/待删集合在 Load 加载新一页时整体清空。

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CellKey 单元格坐标
type CellKey struct {
	ID    string
	Field domain.Field
}

// EmailStatus 邮箱单元格的展示状态
type EmailStatus int

const (
	EmailUntouched EmailStatus = iota // 未改动，无标记
	EmailValid                        // 未保存且合法，绿标
	EmailInvalid                      // 未保存且非法，红标
)

type State struct {
	rows    []domain.Employee
	editing *CellKey
	buffers map[CellKey]string
	dirty   map[CellKey]struct{}
	deletes map[string]struct{}
	tempSeq int
}

func NewState() *State {
	s := &State{}
	s.reset(nil)
	return s
}

func (s *State) reset(rows []domain.Employee) {
	s.rows = rows
	s.editing = nil
	s.buffers = make(map[CellKey]string)
	s.dirty = make(map[CellKey]struct{})
	s.deletes = make(map[string]struct{})
}

// Load 服务端来了新的一页：替换本地副本并清掉全部编辑痕迹
func (s *State) Load(rows []domain.Employee) {
	copied := make([]domain.Employee, len(rows))
	copy(copied, rows)
	s.reset(copied)
}

// Rows 当前本地副本（含未保存的改动）
func (s *State) Rows() []domain.Employee {
	out := make([]domain.Employee, len(s.rows))
	copy(out, s.rows)
	return out
}

// AddNew 在表头插入一行空记录，返回分配的临时 id
func (s *State) AddNew() string {
	id := fmt.Sprintf("%s%d", utils.TempIDPrefix, s.tempSeq)
	s.tempSeq++
	s.rows = append([]domain.Employee{{ID: id}}, s.rows...)
	return id
}

// BeginEdit 进入编辑；上一个未提交的单元格先被隐式提交
func (s *State) BeginEdit(id string, field domain.Field) bool {
	row := s.find(id)
	if row == nil {
		return false
	}
	if s.editing != nil {
		s.Commit()
	}
	key := CellKey{ID: id, Field: field}
	s.editing = &key
	s.buffers[key] = fieldValue(row, field)
	return true
}

// SetBuffer 编辑中的键入
func (s *State) SetBuffer(v string) {
	if s.editing == nil {
		return
	}
	s.buffers[*s.editing] = v
}

// Commit 失焦提交：缓冲写回本地副本并打脏标记
func (s *State) Commit() {
	if s.editing == nil {
		return
	}
	key := *s.editing
	s.editing = nil
	row := s.find(key.ID)
	if row == nil {
		return
	}
	v := s.buffers[key]
	if v == fieldValue(row, key.Field) {
		return // 值没变不算脏
	}
	setFieldValue(row, key.Field, v)
	s.dirty[key] = struct{}{}
}

// Editing 当前处于编辑态的单元格（无则 nil）
func (s *State) Editing() *CellKey {
	if s.editing == nil {
		return nil
	}
	k := *s.editing
	return &k
}

func (s *State) Buffer() string {
	if s.editing == nil {
		return ""
	}
	return s.buffers[*s.editing]
}

func (s *State) IsDirty(id string, field domain.Field) bool {
	_, ok := s.dirty[CellKey{ID: id, Field: field}]
	return ok
}

// DirtyRows 至少有一个脏单元格的行（批量保存的输入）
func (s *State) DirtyRows() []domain.Employee {
	seen := make(map[string]struct{})
	var out []domain.Employee
	for _, row := range s.rows {
		if _, done := seen[row.ID]; done {
			continue
		}
		for key := range s.dirty {
			if key.ID == row.ID {
				out = append(out, row)
				seen[row.ID] = struct{}{}
				break
			}
		}
	}
	return out
}

// ToggleDelete 勾选/取消勾选待删行，返回当前完整集合
func (s *State) ToggleDelete(id string) []string {
	if _, ok := s.deletes[id]; ok {
		delete(s.deletes, id)
	} else {
		s.deletes[id] = struct{}{}
	}
	return s.PendingDeletes()
}

func (s *State) PendingDeletes() []string {
	out := make([]string, 0, len(s.deletes))
	for _, row := range s.rows { // 按表格顺序返回
		if _, ok := s.deletes[row.ID]; ok {
			out = append(out, row.ID)
		}
	}
	return out
}

// EmailState 邮箱单元格的校验状态。编辑中实时求值，提交后只对脏单元格求值；
// 空、格式不符、或与其他已加载行重复都算非法（页内近似，非全局保证）。
func (s *State) EmailState(id string) EmailStatus {
	key := CellKey{ID: id, Field: domain.FieldEmail}
	editingThis := s.editing != nil && *s.editing == key
	_, isDirty := s.dirty[key]
	if !editingThis && !isDirty {
		return EmailUntouched
	}

	v := s.buffers[key]
	if !editingThis {
		if row := s.find(id); row != nil {
			v = row.Email
		}
	}
	if v == "" || !emailPattern.MatchString(v) {
		return EmailInvalid
	}
	for i := range s.rows {
		if s.rows[i].ID != id && s.rows[i].Email == v {
			return EmailInvalid
		}
	}
	return EmailValid
}

// clearDeletes 批量删除成功后由 controller 调用（随后会重新 Load）
func (s *State) clearDeletes() {
	s.deletes = make(map[string]struct{})
}

func (s *State) find(id string) *domain.Employee {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i]
		}
	}
	return nil
}

func fieldValue(e *domain.Employee, f domain.Field) string {
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

func setFieldValue(e *domain.Employee, f domain.Field, v string) {
	switch f {
	case domain.FieldFirstname:
		e.Firstname = v
	case domain.FieldLastname:
		e.Lastname = v
	case domain.FieldPosition:
		e.Position = v
	case domain.FieldPhone:
		e.Phone = v
	case domain.FieldEmail:
		e.Email = v
	}
}
