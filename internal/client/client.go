package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-employee-directory/internal/domain"
	"go-employee-directory/internal/service"
)

// Client /employees 接口的类型化封装，供表格编辑端使用
type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ListParams 当前的过滤/排序/分页状态
type ListParams struct {
	Page        int
	Limit       int
	SortBy      string
	Order       string
	FilterField domain.Field
	FilterValue string
}

// envelope 服务端信封；Data 延迟解码
type envelope struct {
	StatusCode  int             `json:"statusCode"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
	CurrentPage *int            `json:"currentPage"`
	TotalPages  *int            `json:"totalPages"`
}

func (c *Client) List(ctx context.Context, p ListParams) (*domain.Page, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.FilterField != "" && p.FilterValue != "" {
		q.Set(string(p.FilterField), p.FilterValue)
	}

	env, err := c.do(ctx, http.MethodGet, "/employees?"+q.Encode(), nil)
	if err != nil {
		return nil, asDomainErr(err, "", "")
	}
	var data []domain.Employee
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	page := &domain.Page{Data: data, CurrentPage: p.Page, TotalPages: 0}
	if env.CurrentPage != nil {
		page.CurrentPage = *env.CurrentPage
	}
	if env.TotalPages != nil {
		page.TotalPages = *env.TotalPages
	}
	return page, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Employee, error) {
	env, err := c.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, asDomainErr(err, id, "")
	}
	return decodeEmployee(env)
}

func (c *Client) Create(ctx context.Context, in service.CreateInput) (*domain.Employee, error) {
	env, err := c.do(ctx, http.MethodPost, "/employees", in)
	if err != nil {
		return nil, asDomainErr(err, "", in.Email)
	}
	return decodeEmployee(env)
}

func (c *Client) Update(ctx context.Context, id string, in service.UpdateInput) (*domain.Employee, error) {
	env, err := c.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), in)
	if err != nil {
		email := ""
		if in.Email != nil {
			email = *in.Email
		}
		return nil, asDomainErr(err, id, email)
	}
	return decodeEmployee(env)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil); err != nil {
		return asDomainErr(err, id, "")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: status %d, bad envelope: %w", method, path, res.StatusCode, err)
	}
	if res.StatusCode >= 400 {
		return nil, &statusError{status: res.StatusCode, msg: env.Message}
	}
	return &env, nil
}

type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return fmt.Sprintf("server error (%d): %s", e.status, e.msg) }

func decodeEmployee(env *envelope) (*domain.Employee, error) {
	var e domain.Employee
	if err := json.Unmarshal(env.Data, &e); err != nil {
		return nil, fmt.Errorf("decode employee: %w", err)
	}
	return &e, nil
}

// asDomainErr 把 HTTP 状态还原成领域错误分类，编辑端按类处理
func asDomainErr(err error, id, email string) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.status {
	case http.StatusBadRequest:
		return &domain.ValidationError{Msg: se.msg}
	case http.StatusNotFound:
		return &domain.NotFoundError{ID: id}
	case http.StatusConflict:
		return &domain.ConflictError{Email: email}
	default:
		return se
	}
}
