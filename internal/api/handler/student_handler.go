package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zabilal/sims-api/internal/api/metrics"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// StudentHandler handles HTTP requests for student record management.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

type createStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	Guardian   string `json:"guardian"`
	DOB        string `json:"dob"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Religion   string `json:"religion"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Class      string `json:"class" validate:"required"`
	Section    string `json:"section"`
	Group      string `json:"group"`
	StudentNo  string `json:"studentNo"`
	RollNo     string `json:"rollNo"`
	Picture    string `json:"picture"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required,min=8"`
	SchoolID   string `json:"schoolId" validate:"required"`
}

type updateStudentRequest struct {
	Name     *string `json:"name"`
	Guardian *string `json:"guardian"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	State    *string `json:"state"`
	Country  *string `json:"country"`
	Class    *string `json:"class"`
	Section  *string `json:"section"`
	Group    *string `json:"group"`
	RollNo   *string `json:"rollNo"`
	Picture  *string `json:"picture"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// Create onboards a student into a school tenant.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStudentRequest  true  "Student details"
// @Success      201   {object}  domain.Student
// @Failure      400   {object}  map[string]interface{}
// @Router       /v1/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req createStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.service.Create(c.Request().Context(), ports.CreateStudentInput{
		Name:       req.Name,
		Guardian:   req.Guardian,
		DOB:        req.DOB,
		Gender:     req.Gender,
		BloodGroup: req.BloodGroup,
		Religion:   req.Religion,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		State:      req.State,
		Country:    req.Country,
		Class:      req.Class,
		Section:    req.Section,
		Group:      req.Group,
		StudentNo:  req.StudentNo,
		RollNo:     req.RollNo,
		Picture:    req.Picture,
		Username:   req.Username,
		Password:   req.Password,
		SchoolID:   req.SchoolID,
	})
	if err != nil {
		return err
	}
	metrics.StudentsOnboardedTotal.Inc()

	return c.JSON(http.StatusCreated, student)
}

// List returns one page of students matching the query filters.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        name      query     string  false  "Filter by name"
// @Param        class     query     string  false  "Filter by class"
// @Param        section   query     string  false  "Filter by section"
// @Param        group     query     string  false  "Filter by group"
// @Param        schoolId  query     string  false  "Filter by school tenant id (defaults to the caller's school)"
// @Param        sortBy    query     string  false  "Sort keys, e.g. class:asc,rollNo:asc"
// @Param        limit     query     int     false  "Page size (default 10)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Success      200       {object}  ports.Page[domain.Student]
// @Router       /v1/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	filter := ports.StudentFilter{
		Name:     c.QueryParam("name"),
		Class:    c.QueryParam("class"),
		Section:  c.QueryParam("section"),
		Group:    c.QueryParam("group"),
		SchoolID: c.QueryParam("schoolId"),
	}
	if filter.SchoolID == "" {
		// Callers scoped to a school see their own tenant unless they ask
		// for another one explicitly.
		caller, err := currentUser(c)
		if err != nil {
			return err
		}
		filter.SchoolID = caller.SchoolID
	}

	page, err := h.service.Query(c.Request().Context(), filter, bindPageOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns a single student by id.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        studentId  path      string  true  "Student id"
// @Success      200        {object}  domain.Student
// @Failure      404        {object}  map[string]interface{}
// @Router       /v1/students/{studentId} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.service.GetByID(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Update applies a partial update to a student.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        studentId  path      string                true  "Student id"
// @Param        body       body      updateStudentRequest  true  "Fields to change"
// @Success      200        {object}  domain.Student
// @Failure      404        {object}  map[string]interface{}
// @Router       /v1/students/{studentId} [patch]
func (h *StudentHandler) Update(c echo.Context) error {
	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.service.Update(c.Request().Context(), c.Param("studentId"), ports.UpdateStudentInput{
		Name:     req.Name,
		Guardian: req.Guardian,
		Phone:    req.Phone,
		Address:  req.Address,
		State:    req.State,
		Country:  req.Country,
		Class:    req.Class,
		Section:  req.Section,
		Group:    req.Group,
		RollNo:   req.RollNo,
		Picture:  req.Picture,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Delete removes a student record.
//
// @Summary      Delete a student
// @Tags         students
// @Security     BearerAuth
// @Param        studentId  path  string  true  "Student id"
// @Success      204
// @Failure      404  {object}  map[string]interface{}
// @Router       /v1/students/{studentId} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("studentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
