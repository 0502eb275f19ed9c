package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-employee-directory/internal/domain"
	"go-employee-directory/internal/service"
	resp "go-employee-directory/internal/transport/http/response"
)

// EmployeeService handler 只依赖这组能力，方便测试替身
type EmployeeService interface {
	Create(ctx context.Context, in service.CreateInput) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, in service.ListInput) (*domain.Page, error)
}

type EmployeeHandler struct {
	svc EmployeeService
}

func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) Mount(rg *gin.RouterGroup) {
	g := rg.Group("/employees")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

func (h *EmployeeHandler) create(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	e, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, resp.Created("Employee created successfully", e))
}

func (h *EmployeeHandler) list(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 10)
	if !ok {
		return
	}

	in := service.ListInput{
		SortBy: c.DefaultQuery("sortBy", string(domain.FieldFirstname)),
		Order:  c.DefaultQuery("order", domain.OrderAsc),
		Page:   page,
		Limit:  limit,
	}
	// 过滤键按白名单扫描；其余查询参数一概不进存储层
	for _, f := range domain.FilterFields {
		if v, present := c.GetQuery(string(f)); present {
			in.FilterField, in.FilterValue = string(f), v
			break
		}
	}

	p, err := h.svc.List(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err, "Failed to retrieve employees")
		return
	}
	c.JSON(http.StatusOK,
		resp.Page("Employees retrieved successfully", p.Data, p.CurrentPage, p.TotalPages))
}

func (h *EmployeeHandler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err, "Failed to retrieve employee")
		return
	}
	c.JSON(http.StatusOK, resp.OK("Employee retrieved successfully", e))
}

func (h *EmployeeHandler) update(c *gin.Context) {
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeErr(c, err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, resp.OK("Employee updated successfully", e))
}

func (h *EmployeeHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err, "Failed to remove employee")
		return
	}
	c.JSON(http.StatusOK, resp.OK("Employee removed successfully", nil))
}

// writeErr 按错误分类映射 400/404/409，其余 500
func writeErr(c *gin.Context, err error, prefix string) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, err.Error()))
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, resp.Error(resp.CodeConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError,
			resp.Error(resp.CodeServerError, prefix+": "+err.Error()))
	}
}

func intQuery(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, key+" must be an integer"))
		return 0, false
	}
	return v, true
}
