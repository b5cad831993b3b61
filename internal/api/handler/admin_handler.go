package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alumnihub/alumni-network/internal/api/metrics"
	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
	Count int            `json:"count"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ListUsers returns a filtered, paginated account listing. Secret fields
// never serialize (they are json:"-" on the domain type).
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role         query     string  false  "Filter by role"
// @Param        is_approved  query     bool    false  "Filter by approval flag"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size"
// @Success      200  {object}  listUsersResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	filter := ports.UserFilter{Role: c.QueryParam("role")}
	if raw := c.QueryParam("is_approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "is_approved must be a boolean"})
		}
		filter.IsApproved = &approved
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.adminService.ListUsers(c.Request().Context(), filter, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Users: result.Users,
		Count: len(result.Users),
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// ApproveUser grants administrative sign-off on a verified account.
//
// @Summary      Approve a pending account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/approve [put]
func (h *AdminHandler) ApproveUser(c echo.Context) error {
	user, err := h.adminService.ApproveUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.ApprovalsTotal.Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "user approved successfully",
		"user":    user,
	})
}

// DashboardStats returns aggregate platform counters.
//
// @Summary      Admin dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Router       /api/admin/dashboard-stats [get]
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	stats, err := h.adminService.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
