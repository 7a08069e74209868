package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	request "catering_admin/internal/adapter/http/dto/request"
	response "catering_admin/internal/adapter/http/dto/response"
	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase"
	"catering_admin/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	errInvalidBudgetPayload = pkg.NewDomainErrorSimple("INVALID_BUDGET_INPUT", "Invalid budget payload", http.StatusBadRequest)
	errInvalidItemIndex     = pkg.NewDomainErrorSimple("INVALID_ITEM_INDEX", "Item index must be an integer", http.StatusBadRequest)
	errInvalidVersion       = pkg.NewDomainErrorSimple("INVALID_VERSION", "Version must be a non-negative integer", http.StatusBadRequest)
)

// BudgetHandler handles HTTP requests for catering budgets.
//
// Every write answers with the recomputed budget and its visible material
// items, so the editor never computes totals on its own.
type BudgetHandler struct {
	usecase usecase.IBudgetUseCase
	logger  *logrus.Logger
}

func NewBudgetHandler(uc usecase.IBudgetUseCase, logger *logrus.Logger) *BudgetHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &BudgetHandler{usecase: uc, logger: logger}
}

// CreateBudget godoc
// @Summary      Create a draft budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        body body request.CreateBudgetRequest true "Request body"
// @Success      201 {object} response.BudgetResponse "Created"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var payload request.CreateBudgetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.CreateBudget(c.Request.Context(), payload.ClientInfo.ToEntity(), payload.Menu.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromBudget(b))
}

// ListBudgets godoc
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Success      200 {array} response.BudgetSummaryResponse "OK"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.usecase.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBudgetList(budgets))
}

// GetBudget godoc
// @Summary      Get a budget
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	b, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBudget(b))
}

// UpdateField godoc
// @Summary      Set one field by dotted path
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        body body request.UpdateFieldRequest true "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/fields [patch]
func (h *BudgetHandler) UpdateField(c *gin.Context) {
	var payload request.UpdateFieldRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.UpdateField(c.Request.Context(), c.Param("id"), payload.Version, payload.Path, payload.Value)
	h.respond(c, b, err)
}

// UpdateClientInfo godoc
// @Summary      Replace client information
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        body body request.UpdateClientRequest true "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/client [put]
func (h *BudgetHandler) UpdateClientInfo(c *gin.Context) {
	var payload request.UpdateClientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.UpdateClientInfo(c.Request.Context(), c.Param("id"), payload.Version, payload.ClientInfo.ToEntity())
	h.respond(c, b, err)
}

// AddSection godoc
// @Summary      Add an optional section
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        section path string true "Section name" Enums(service, material, deplacement)
// @Param        body body request.AddSectionRequest false "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/sections/{section} [post]
func (h *BudgetHandler) AddSection(c *gin.Context) {
	var payload request.AddSectionRequest
	if err := bindOptionalJSON(c, &payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.AddSection(c.Request.Context(), c.Param("id"), payload.Version, c.Param("section"), payload.Defaults)
	h.respond(c, b, err)
}

// RemoveSection godoc
// @Summary      Remove a section
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        section path string true "Section name" Enums(service, material, deplacement)
// @Param        version query int false "Expected budget version"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/sections/{section} [delete]
func (h *BudgetHandler) RemoveSection(c *gin.Context) {
	version, ok := versionQuery(c)
	if !ok {
		return
	}

	b, err := h.usecase.RemoveSection(c.Request.Context(), c.Param("id"), version, c.Param("section"))
	h.respond(c, b, err)
}

// AddMaterialItem godoc
// @Summary      Add a material item
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        body body request.MaterialItemRequest true "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/material/items [post]
func (h *BudgetHandler) AddMaterialItem(c *gin.Context) {
	var payload request.MaterialItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.AddMaterialItem(c.Request.Context(), c.Param("id"), payload.Version, payload.ToEntity())
	h.respond(c, b, err)
}

// UpdateMaterialItem godoc
// @Summary      Update a visible material item
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        index path int true "Visible material item index"
// @Param        body body request.MaterialItemPatchRequest true "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/material/items/{index} [patch]
func (h *BudgetHandler) UpdateMaterialItem(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var payload request.MaterialItemPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.UpdateMaterialItem(c.Request.Context(), c.Param("id"), payload.Version, index, payload.ToPatch())
	h.respond(c, b, err)
}

// RemoveMaterialItem godoc
// @Summary      Remove a visible material item
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        index path int true "Visible material item index"
// @Param        version query int false "Expected budget version"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/material/items/{index} [delete]
func (h *BudgetHandler) RemoveMaterialItem(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	version, ok := versionQuery(c)
	if !ok {
		return
	}

	b, err := h.usecase.RemoveMaterialItem(c.Request.Context(), c.Param("id"), version, index)
	h.respond(c, b, err)
}

// SubmitBudget godoc
// @Summary      Submit a draft for review
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/submit [post]
func (h *BudgetHandler) SubmitBudget(c *gin.Context) {
	b, err := h.usecase.SubmitForReview(c.Request.Context(), c.Param("id"))
	h.respond(c, b, err)
}

// ApproveBudget godoc
// @Summary      Approve a budget under review
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/approve [post]
func (h *BudgetHandler) ApproveBudget(c *gin.Context) {
	b, err := h.usecase.Approve(c.Request.Context(), c.Param("id"))
	h.respond(c, b, err)
}

// RejectBudget godoc
// @Summary      Reject a budget under review
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/reject [post]
func (h *BudgetHandler) RejectBudget(c *gin.Context) {
	b, err := h.usecase.Reject(c.Request.Context(), c.Param("id"))
	h.respond(c, b, err)
}

// SendBudget godoc
// @Summary      Mark an approved budget as sent
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        body body request.SendBudgetRequest false "Request body"
// @Success      200 {object} response.BudgetResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/send [post]
func (h *BudgetHandler) SendBudget(c *gin.Context) {
	var payload request.SendBudgetRequest
	if err := bindOptionalJSON(c, &payload); err != nil {
		h.badRequest(c, err)
		return
	}

	b, err := h.usecase.MarkSent(c.Request.Context(), c.Param("id"), payload.PDFURL)
	h.respond(c, b, err)
}

// ExportBudget godoc
// @Summary      Download the budget as xlsx
// @Tags         budgets
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Budget ID"
// @Success      200 {file} file "xlsx document"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /budgets/{id}/export [get]
func (h *BudgetHandler) ExportBudget(c *gin.Context) {
	exported, err := h.usecase.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exported.FileName))
	c.Data(http.StatusOK, exported.ContentType, exported.Content)
}

func (h *BudgetHandler) respond(c *gin.Context, b entities.Budget, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBudget(b))
}

func (h *BudgetHandler) fail(c *gin.Context, err error) {
	appErr := mapBudgetError(err)
	entry := h.logger.WithFields(logrus.Fields{"module": "budget.handler", "path": c.FullPath(), "budget_id": c.Param("id"), "code": appErr.Code})
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		entry.WithError(err).Error("[budget][handler] request failed")
	} else {
		entry.WithError(err).Info("[budget][handler] request refused")
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func (h *BudgetHandler) badRequest(c *gin.Context, err error) {
	appErr := errInvalidBudgetPayload
	if details := bindingErrorDetails(err); details != nil {
		appErr = appErr.WithDetails(details)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapBudgetError(err error) *pkg.AppError {
	var ve *budget.ValidationError
	switch {
	case errors.As(err, &ve):
		appErr := pkg.NewDomainError("INVALID_BUDGET_INPUT", "Invalid budget input", err, http.StatusBadRequest)
		return appErr.WithDetails(map[string]string{"field": ve.Field, "reason": ve.Reason})
	case errors.Is(err, budget.ErrNotFound):
		return pkg.NewDomainError("BUDGET_ELEMENT_NOT_FOUND", err.Error(), err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidBudgetID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrBudgetNotFound):
		return pkg.NewDomainErrorSimple("BUDGET_NOT_FOUND", "Budget not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBudgetAlreadyExists):
		return pkg.NewDomainErrorSimple("BUDGET_ALREADY_EXISTS", "Budget already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrBudgetVersionConflict):
		return pkg.NewDomainErrorSimple("BUDGET_VERSION_CONFLICT", "Budget was modified by someone else, reload and retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrBudgetLocked):
		return pkg.NewDomainErrorSimple("BUDGET_LOCKED", "Budget can only be edited as draft or rejected", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainError("INVALID_STATUS_TRANSITION", "Status transition not allowed", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// bindingErrorDetails maps each failed struct field to the rule it broke.
func bindingErrorDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(c.Param("index")))
	if err != nil {
		c.JSON(errInvalidItemIndex.HTTPStatus, errInvalidItemIndex.ToHTTPError())
		return 0, false
	}
	return index, true
}

func versionQuery(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("version"))
	if raw == "" {
		return 0, true
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 0 {
		c.JSON(errInvalidVersion.HTTPStatus, errInvalidVersion.ToHTTPError())
		return 0, false
	}
	return version, true
}
