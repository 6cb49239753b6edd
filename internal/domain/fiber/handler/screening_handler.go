package handler

import (
	"time"

	"github.com/fadilmartias/recruitai/internal/dto"
	"github.com/fadilmartias/recruitai/internal/middleware"
	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/fadilmartias/recruitai/internal/response"
	"github.com/fadilmartias/recruitai/internal/usecase"
	"github.com/fadilmartias/recruitai/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScreeningHandler struct {
	uc *usecase.ScreeningUsecase
}

func NewScreeningHandler(uc *usecase.ScreeningUsecase) *ScreeningHandler {
	return &ScreeningHandler{uc: uc}
}

func (h *ScreeningHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/screenings", middleware.RateLimiter(10, time.Minute), h.Submit)

	api.Get("/candidates", h.ListCandidates)
	api.Get("/candidates/:id", h.GetCandidate)
	api.Post("/candidates/:id/invite", h.Invite)
	api.Post("/candidates/:id/reject", h.Reject)

	api.Get("/action-items", h.ListActionItems)
	api.Delete("/action-items/:id", h.ResolveActionItem)
	api.Post("/action-items/:id/retry", h.RetryActionItem)

	api.Get("/stats", h.Stats)
}

func (h *ScreeningHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitScreeningRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	fields, err := req.Validate()
	if err != nil {
		return respondError(c, util.NewFormError("invalid screening request", fields), "invalid screening request")
	}

	in := usecase.SubmitInput{
		Name:           req.Name,
		Email:          req.Email,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		ResumeText:     req.ResumeText,
	}
	if req.CandidateID != nil {
		in.CandidateID = *req.CandidateID
	}

	res, err := h.uc.SubmitForScreening(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, "failed to screen candidate")
	}

	data := dto.ScreeningResponse{
		Candidate:            dto.NewCandidateDTO(res.Candidate),
		RequiresManualAction: res.RequiresManualAction,
		ActionItems:          dto.NewActionItemDTOs(res.ActionItems),
	}
	message := "Candidate screened"
	if res.Warning != nil {
		data.Warning = res.Warning.Error()
		message = "Candidate screened, notification failed"
	}
	code := fiber.StatusOK
	if in.CandidateID == uuid.Nil {
		code = fiber.StatusCreated
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func (h *ScreeningHandler) ListCandidates(c *fiber.Ctx) error {
	filter := repository.CandidateFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseCandidateStatus(raw)
		if !ok {
			return respondError(c, util.NewFormError("invalid status filter", map[string]string{"status": "is invalid"}), "")
		}
		filter.Status = status
	}
	if raw := c.Query("fit_category"); raw != "" {
		category, ok := model.ParseFitCategory(raw)
		if !ok {
			return respondError(c, util.NewFormError("invalid fit category filter", map[string]string{"fit_category": "is invalid"}), "")
		}
		filter.FitCategory = category
	}
	filter.Search = c.Query("q")

	page, err := h.uc.ListCandidates(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "failed to list candidates")
	}
	pagination := response.NewPagination(page.Page, page.PageSize, page.Total, len(page.Candidates))
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get candidates",
		Data:       dto.NewCandidateDTOs(page.Candidates),
		Pagination: &pagination,
	})
}

func (h *ScreeningHandler) GetCandidate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	detail, err := h.uc.GetCandidate(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "failed to get candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate",
		Data:    dto.NewCandidateDetailDTO(detail.Candidate, detail.ActionItems),
	})
}

func (h *ScreeningHandler) Invite(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	candidate, err := h.uc.ResolveManualInvite(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "failed to invite candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate invited",
		Data:    dto.NewCandidateDTO(candidate),
	})
}

func (h *ScreeningHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	candidate, err := h.uc.ResolveManualReject(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "failed to reject candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate rejected",
		Data:    dto.NewCandidateDTO(candidate),
	})
}

func (h *ScreeningHandler) ListActionItems(c *fiber.Ctx) error {
	filter := repository.ActionItemFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if raw := c.Query("type"); raw != "" {
		t, ok := model.ParseActionItemType(raw)
		if !ok {
			return respondError(c, util.NewFormError("invalid type filter", map[string]string{"type": "is invalid"}), "")
		}
		filter.Type = t
	}
	if raw := c.Query("candidate_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, util.NewFormError("invalid candidate filter", map[string]string{"candidate_id": "must be a uuid"}), "")
		}
		filter.CandidateID = id
	}

	page, err := h.uc.ListActionItems(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "failed to list action items")
	}
	pagination := response.NewPagination(page.Page, page.PageSize, page.Total, len(page.ActionItems))
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get action items",
		Data:       dto.NewActionItemDTOs(page.ActionItems),
		Pagination: &pagination,
	})
}

func (h *ScreeningHandler) ResolveActionItem(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.uc.ResolveGeneric(c.UserContext(), id); err != nil {
		return respondError(c, err, "failed to resolve action item")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Action item resolved",
	})
}

func (h *ScreeningHandler) RetryActionItem(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.uc.RetryNotification(c.UserContext(), id); err != nil {
		return respondError(c, err, "failed to retry notification")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Notification sent",
	})
}

func (h *ScreeningHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, "failed to get stats")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get stats",
		Data:    dto.NewStatsDTO(stats.ByStatus, stats.ByFitCategory, stats.ByActionItemType, stats.TotalCandidates, stats.TotalActionItems),
	})
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, util.NewFormError("invalid id", map[string]string{"id": "must be a uuid"})
	}
	return id, nil
}
