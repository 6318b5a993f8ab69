package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"violation-ledger/internal/http/middleware"
	"violation-ledger/internal/lifecycle"
	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
	"violation-ledger/internal/service"
)

type Handler struct {
	violationService *service.ViolationService
	complaintService *service.ComplaintService
	visitorService   *service.VisitorService
	vehicleService   *service.VehicleService
	warningWindow    int
	repeatMin        int
	log              zerolog.Logger
}

func NewHandler(
	violationService *service.ViolationService,
	complaintService *service.ComplaintService,
	visitorService *service.VisitorService,
	vehicleService *service.VehicleService,
	warningWindow int,
	repeatMin int,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		violationService: violationService,
		complaintService: complaintService,
		visitorService:   visitorService,
		vehicleService:   vehicleService,
		warningWindow:    warningWindow,
		repeatMin:        repeatMin,
		log:              log,
	}
}

func (h *Handler) listViolations(c *gin.Context) {
	filter, err := parseViolationQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	violations, err := h.violationService.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": violations}))
}

func (h *Handler) getViolation(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	violation, err := h.violationService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(violation))
}

func (h *Handler) createViolation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		PlateNumber   string `json:"plate_number" binding:"required"`
		Location      string `json:"location" binding:"required"`
		ViolationType string `json:"violation_type"`
		GpsID         string `json:"gps_id"`
		GeofenceZone  string `json:"geofence_zone"`
		HostID        string `json:"host_id"`
		HostName      string `json:"host_name"`
		HostPhone     string `json:"host_phone"`
		PhotoURL      string `json:"photo_url"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	violation, err := h.violationService.Create(c.Request.Context(), principal, service.CreateViolationInput{
		PlateNumber:   req.PlateNumber,
		Location:      req.Location,
		ViolationType: req.ViolationType,
		GpsID:         req.GpsID,
		GeofenceZone:  req.GeofenceZone,
		HostID:        req.HostID,
		HostName:      req.HostName,
		HostPhone:     req.HostPhone,
		PhotoURL:      req.PhotoURL,
		Notes:         req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(violation))
}

func (h *Handler) updateViolationStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	var req struct {
		Status       string  `json:"status" binding:"required"`
		TicketIssued *bool   `json:"ticket_issued"`
		Notes        *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	extra := map[string]interface{}{}
	if req.TicketIssued != nil {
		extra["ticket_issued"] = *req.TicketIssued
	}
	if req.Notes != nil {
		extra["notes"] = *req.Notes
	}

	status := model.ViolationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := h.violationService.UpdateStatus(c.Request.Context(), principal, id, status, extra); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) activeAlerts(c *gin.Context) {
	alerts, err := h.violationService.ActiveAlerts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(alerts))
	for _, v := range alerts {
		items = append(items, gin.H{
			"violation": v,
			"elapsed":   lifecycle.Elapsed(v.DetectedAt, now),
		})
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": items, "count": len(alerts)}))
}

// liveBoard groups the non-terminal violations into dashboard sections,
// annotating warned entries with the minutes left in their warning window.
func (h *Handler) liveBoard(c *gin.Context) {
	sections, err := h.violationService.LiveBoard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	now := time.Now()
	out := make([]gin.H, 0, len(sections))
	for _, section := range sections {
		items := make([]gin.H, 0, len(section.Violations))
		for _, v := range section.Violations {
			item := gin.H{
				"violation": v,
				"elapsed":   lifecycle.Elapsed(v.DetectedAt, now),
			}
			if v.WarningSentAt != nil {
				if left, ok := lifecycle.RemainingMinutes(*v.WarningSentAt, h.warningWindow, now); ok {
					item["warning_minutes_left"] = left
				}
			}
			items = append(items, item)
		}
		out = append(out, gin.H{
			"status": section.Status,
			"title":  section.Title,
			"items":  items,
		})
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"sections": out}))
}

func (h *Handler) repeatOffenders(c *gin.Context) {
	minCount := h.repeatMin
	if raw := strings.TrimSpace(c.Query("min")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			minCount = v
		}
	}

	offenders, err := h.violationService.RepeatOffenders(c.Request.Context(), minCount)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]gin.H, 0, len(offenders))
	for plate, violations := range offenders {
		items = append(items, gin.H{
			"plate_number": plate,
			"count":        len(violations),
			"violations":   violations,
		})
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": items}))
}

func (h *Handler) listComplaints(c *gin.Context) {
	var status *model.ComplaintStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := model.ComplaintStatus(strings.ToLower(raw))
		if !parsed.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse("invalid complaint status"))
			return
		}
		status = &parsed
	}

	complaints, err := h.complaintService.List(c.Request.Context(), status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": complaints}))
}

func (h *Handler) getComplaint(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid complaint id"))
		return
	}

	complaint, err := h.complaintService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) createComplaint(c *gin.Context) {
	principal, _ := middleware.MustPrincipal(c)

	var req struct {
		Title         string `json:"title" binding:"required"`
		Description   string `json:"description" binding:"required"`
		ReporterName  string `json:"reporter_name"`
		ReporterPhone string `json:"reporter_phone"`
		Location      string `json:"location"`
		PlateNumber   string `json:"plate_number"`
		ViolationID   string `json:"violation_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.CreateComplaintInput{
		Title:         req.Title,
		Description:   req.Description,
		ReporterName:  req.ReporterName,
		ReporterPhone: req.ReporterPhone,
		Location:      req.Location,
		PlateNumber:   req.PlateNumber,
	}
	if raw := strings.TrimSpace(req.ViolationID); raw != "" {
		violationID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid violation_id"))
			return
		}
		input.ViolationID = &violationID
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(complaint))
}

func (h *Handler) updateComplaintStatus(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid complaint id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.ComplaintStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := h.complaintService.UpdateStatus(c.Request.Context(), id, status, nil); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) createVisitor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Name            string `json:"name" binding:"required"`
		HostID          string `json:"host_id" binding:"required"`
		HostName        string `json:"host_name"`
		PlateNumber     string `json:"plate_number" binding:"required"`
		VehicleCategory string `json:"vehicle_category"`
		GpsID           string `json:"gps_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	visitor, err := h.visitorService.Create(c.Request.Context(), principal, service.CreateVisitorInput{
		Name:            req.Name,
		HostID:          req.HostID,
		HostName:        req.HostName,
		PlateNumber:     req.PlateNumber,
		VehicleCategory: req.VehicleCategory,
		GpsID:           req.GpsID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(visitor))
}

func (h *Handler) listHosts(c *gin.Context) {
	var (
		hosts []model.Host
		err   error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		hosts, err = h.vehicleService.SearchHosts(c.Request.Context(), q)
	} else {
		hosts, err = h.vehicleService.ListHosts(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": hosts}))
}

func (h *Handler) searchVehicle(c *gin.Context) {
	plate := strings.TrimSpace(c.Param("plate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, errorResponse("plate is required"))
		return
	}

	info, err := h.vehicleService.SearchByPlate(c.Request.Context(), plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(info))
}

func (h *Handler) vehicleHost(c *gin.Context) {
	plate := strings.TrimSpace(c.Param("plate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, errorResponse("plate is required"))
		return
	}

	contact, err := h.vehicleService.HostByPlate(c.Request.Context(), plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(contact))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseViolationQuery(c *gin.Context) (repository.ViolationFilter, error) {
	var filter repository.ViolationFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			filter.Statuses = append(filter.Statuses, model.ViolationStatus(strings.ToLower(val)))
		}
	}
	filter.PlateNumber = c.Query("plate")
	filter.LocationPrefix = c.Query("location")

	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &ts
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filter.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			filter.Offset = v
		}
	}

	return filter, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
