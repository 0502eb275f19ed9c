package editor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go-employee-directory/internal/client"
	"go-employee-directory/internal/domain"
	"go-employee-directory/internal/service"
	"go-employee-directory/pkg/utils"
)

// Backend 编辑端需要的服务能力（client.Client 即实现）
type Backend interface {
	List(ctx context.Context, p client.ListParams) (*domain.Page, error)
	Create(ctx context.Context, in service.CreateInput) (*domain.Employee, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

// RowOutcome 批量操作的逐行结果；失败不回滚其他行
type RowOutcome struct {
	ID  string
	Err error
}

// Controller 把状态机和数据层拼在一起：保存/删除成功后重拉当前页
type Controller struct {
	State   *State
	Query   client.ListParams
	MaxPage int

	api Backend
}

func NewController(api Backend) *Controller {
	return &Controller{
		State: NewState(),
		Query: client.ListParams{
			Page:   1,
			Limit:  10,
			SortBy: string(domain.FieldFirstname),
			Order:  domain.OrderAsc,
		},
		api: api,
	}
}

// Refresh 按当前查询状态拉取一页并重置编辑状态
func (c *Controller) Refresh(ctx context.Context) error {
	p, err := c.api.List(ctx, c.Query)
	if err != nil {
		return err
	}
	c.MaxPage = p.TotalPages
	c.State.Load(p.Data)
	return nil
}

// SaveAll 把所有脏行并发落库：临时 id 走 create，其余走 update。
// 全部成功才重拉当前页；有失败时返回逐行结果，本地状态保持不动。
func (c *Controller) SaveAll(ctx context.Context) ([]RowOutcome, error) {
	rows := c.State.DirtyRows()
	if len(rows) == 0 {
		return nil, nil // 没有脏行不发任何请求
	}

	outcomes := make([]RowOutcome, len(rows))
	var g errgroup.Group
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			outcomes[i] = RowOutcome{ID: row.ID, Err: c.saveRow(ctx, row)}
			return nil
		})
	}
	_ = g.Wait()

	if failed(outcomes) {
		return outcomes, nil
	}
	return outcomes, c.Refresh(ctx)
}

func (c *Controller) saveRow(ctx context.Context, row domain.Employee) error {
	if utils.IsTempID(row.ID) {
		_, err := c.api.Create(ctx, service.CreateInput{
			Firstname: row.Firstname,
			Lastname:  row.Lastname,
			Position:  row.Position,
			Phone:     row.Phone,
			Email:     row.Email,
		})
		return err
	}
	// 与原行为一致：整行字段全量提交
	_, err := c.api.Update(ctx, row.ID, service.UpdateInput{
		Firstname: &row.Firstname,
		Lastname:  &row.Lastname,
		Position:  &row.Position,
		Phone:     &row.Phone,
		Email:     &row.Email,
	})
	return err
}

// DeleteAll 并发删除勾选的行；全部成功后清空集合并重拉当前页
func (c *Controller) DeleteAll(ctx context.Context) ([]RowOutcome, error) {
	ids := c.State.PendingDeletes()
	if len(ids) == 0 {
		return nil, nil
	}

	outcomes := make([]RowOutcome, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			outcomes[i] = RowOutcome{ID: id, Err: c.api.Delete(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	if failed(outcomes) {
		return outcomes, nil
	}
	c.State.clearDeletes()
	return outcomes, c.Refresh(ctx)
}

func failed(outcomes []RowOutcome) bool {
	for _, o := range outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}
