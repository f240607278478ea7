package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zabilal/sims-api/internal/api/metrics"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// SchoolHandler handles HTTP requests for school tenant management.
type SchoolHandler struct {
	service ports.SchoolService
}

func NewSchoolHandler(service ports.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: service}
}

type registerSchoolRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	PrePrimary string `json:"prePrimary"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`

	AdminFirstName string `json:"adminFirstName" validate:"required"`
	AdminLastName  string `json:"adminLastName"`
	AdminEmail     string `json:"adminEmail" validate:"required,email"`
	AdminPassword  string `json:"adminPassword" validate:"required,min=8"`
}

type updateSchoolRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	PrePrimary *string `json:"prePrimary"`
	Primary    *string `json:"primary"`
	Secondary  *string `json:"secondary"`
}

// Register creates a school tenant together with its admin account.
//
// @Summary      Register a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerSchoolRequest  true  "School and admin details"
// @Success      201   {object}  ports.RegisteredSchool
// @Failure      400   {object}  map[string]interface{}
// @Router       /v1/schools [post]
func (h *SchoolHandler) Register(c echo.Context) error {
	var req registerSchoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	registered, err := h.service.Register(c.Request().Context(), ports.RegisterSchoolInput{
		Name:           req.Name,
		Email:          req.Email,
		Address:        req.Address,
		Phone:          req.Phone,
		PrePrimary:     req.PrePrimary,
		Primary:        req.Primary,
		Secondary:      req.Secondary,
		AdminFirstName: req.AdminFirstName,
		AdminLastName:  req.AdminLastName,
		AdminEmail:     req.AdminEmail,
		AdminPassword:  req.AdminPassword,
	})
	if err != nil {
		return err
	}
	metrics.SchoolsRegisteredTotal.Inc()

	return c.JSON(http.StatusCreated, registered)
}

// List returns one page of schools matching the query filters.
//
// @Summary      List schools
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Param        name    query     string  false  "Filter by name"
// @Param        email   query     string  false  "Filter by email"
// @Param        sortBy  query     string  false  "Sort keys, e.g. name:asc"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Success      200     {object}  ports.Page[domain.School]
// @Router       /v1/schools [get]
func (h *SchoolHandler) List(c echo.Context) error {
	filter := ports.SchoolFilter{
		Name:  c.QueryParam("name"),
		Email: c.QueryParam("email"),
	}

	page, err := h.service.Query(c.Request().Context(), filter, bindPageOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns a single school by id.
//
// @Summary      Get a school
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Param        schoolId  path      string  true  "School id"
// @Success      200       {object}  domain.School
// @Failure      404       {object}  map[string]interface{}
// @Router       /v1/schools/{schoolId} [get]
func (h *SchoolHandler) Get(c echo.Context) error {
	school, err := h.service.GetByID(c.Request().Context(), c.Param("schoolId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, school)
}

// GetByTenant returns a single school by its tenant identifier.
//
// @Summary      Get a school by tenant id
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId  path      string  true  "Tenant id"
// @Success      200       {object}  domain.School
// @Failure      404       {object}  map[string]interface{}
// @Router       /v1/schools/tenant/{tenantId} [get]
func (h *SchoolHandler) GetByTenant(c echo.Context) error {
	school, err := h.service.GetByTenantID(c.Request().Context(), c.Param("tenantId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, school)
}

// Update applies a partial update to a school. The tenant id never changes.
//
// @Summary      Update a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        schoolId  path      string               true  "School id"
// @Param        body      body      updateSchoolRequest  true  "Fields to change"
// @Success      200       {object}  domain.School
// @Failure      404       {object}  map[string]interface{}
// @Router       /v1/schools/{schoolId} [patch]
func (h *SchoolHandler) Update(c echo.Context) error {
	var req updateSchoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	school, err := h.service.Update(c.Request().Context(), c.Param("schoolId"), ports.UpdateSchoolInput{
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		Phone:      req.Phone,
		PrePrimary: req.PrePrimary,
		Primary:    req.Primary,
		Secondary:  req.Secondary,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, school)
}

// Delete removes a school.
//
// @Summary      Delete a school
// @Tags         schools
// @Security     BearerAuth
// @Param        schoolId  path  string  true  "School id"
// @Success      204
// @Failure      404  {object}  map[string]interface{}
// @Router       /v1/schools/{schoolId} [delete]
func (h *SchoolHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("schoolId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
