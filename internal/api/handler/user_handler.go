package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zabilal/sims-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user account management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=user admin"`
	SchoolID  string `json:"schoolId"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Role      *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Create adds a user account with an explicit role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		SchoolID:  req.SchoolID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns one page of users matching the query filters.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        firstName  query     string  false  "Filter by first name"
// @Param        lastName   query     string  false  "Filter by last name"
// @Param        role       query     string  false  "Filter by role"
// @Param        schoolId   query     string  false  "Filter by school tenant id"
// @Param        sortBy     query     string  false  "Sort keys, e.g. role:desc,firstName:asc"
// @Param        limit      query     int     false  "Page size (default 10)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Success      200        {object}  ports.Page[domain.User]
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.UserFilter{
		FirstName: c.QueryParam("firstName"),
		LastName:  c.QueryParam("lastName"),
		Role:      c.QueryParam("role"),
		SchoolID:  c.QueryParam("schoolId"),
	}

	page, err := h.service.Query(c.Request().Context(), filter, bindPageOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  map[string]interface{}
// @Router       /v1/users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial update to a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User id"
// @Param        body    body      updateUserRequest  true  "Fields to change"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  map[string]interface{}
// @Router       /v1/users/{userId} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("userId"), ports.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        userId  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]interface{}
// @Router       /v1/users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
