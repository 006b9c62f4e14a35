package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// uploadSource marks load failures of uploaded workbooks as client errors.
type uploadSource struct {
	ingest.Source
}

func (u uploadSource) Load(ctx context.Context) (ingest.Table, error) {
	table, err := u.Source.Load(ctx)
	if err != nil && !errors.Is(err, ingest.ErrEmptySheet) && ctx.Err() == nil {
		return table, fmt.Errorf("%w: %w", errInvalidUpload, err)
	}

	return table, err
}

func (h *Handler) matches(c *gin.Context) {
	var req matchesRequest
	if !h.bind(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	snap, ok := h.snapshot(ctx, c)
	if !ok {
		return
	}
	snap = snap.Filter(service.Filter{Customers: req.Customers, Units: req.Units, Technicians: req.Technicians})

	results, err := h.svc.Matches(ctx, snap, h.speed(req.SpeedKmh))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{"data": results})
}

func (h *Handler) exportMatches(c *gin.Context) {
	var req matchesRequest
	if !h.bind(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	snap, ok := h.snapshot(ctx, c)
	if !ok {
		return
	}
	snap = snap.Filter(service.Filter{Customers: req.Customers, Units: req.Units, Technicians: req.Technicians})

	results, err := h.svc.Matches(ctx, snap, h.speed(req.SpeedKmh))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err = ingest.WriteMatches(&buf, snap.Customers, results); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="matches.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) coverage(c *gin.Context) {
	var req coverageRequest
	if !h.bind(c, &req) {
		return
	}

	radius := h.opts.RadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	snap, ok := h.snapshot(ctx, c)
	if !ok {
		return
	}
	snap = snap.Filter(service.Filter{Customers: req.Customers, Units: req.Units})

	result, err := h.svc.Coverage(ctx, snap, req.Technician, radius)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{"data": result})
}

func (h *Handler) summary(c *gin.Context) {
	var req selectionRequest
	if !h.bind(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	snap, ok := h.snapshot(ctx, c)
	if !ok {
		return
	}
	snap = snap.Filter(service.Filter{Customers: req.Customers, Units: req.Units, Technicians: req.Technicians})

	c.JSON(http.StatusOK, envelope{"data": h.svc.Summary(snap)})
}

func (h *Handler) points(c *gin.Context) {
	var req selectionRequest
	if !h.bind(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	snap, ok := h.snapshot(ctx, c)
	if !ok {
		return
	}
	snap = snap.Filter(service.Filter{Customers: req.Customers, Units: req.Units, Technicians: req.Technicians})

	c.JSON(http.StatusOK, envelope{"data": h.svc.Points(snap)})
}

// bind reads the query parameters into req and validates them. It writes
// the error response itself and reports whether the handler may go on.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return false
	}
	if err := h.validator.check(req); err != nil {
		h.respondError(c, err)
		return false
	}

	return true
}

// snapshot loads the datasets, preferring workbooks uploaded with the request.
func (h *Handler) snapshot(ctx context.Context, c *gin.Context) (*service.Snapshot, bool) {
	customers, err := h.source(c, ingest.DatasetCustomers, h.opts.Customers)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	technicians, err := h.source(c, ingest.DatasetTechnicians, h.opts.Technicians)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	snap, err := h.svc.LoadSnapshot(ctx, customers, technicians)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	return snap, true
}

// source returns the uploaded workbook for field, or fallback when the
// request carries none.
func (h *Handler) source(c *gin.Context, field string, fallback ingest.Source) (ingest.Source, error) {
	if c.Request.Method != http.MethodPost {
		return fallback, nil
	}

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidUpload, field, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidUpload, field, err)
	}
	defer file.Close()

	src, err := ingest.NewExcelReaderSource(header.Filename, file, h.opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidUpload, field, err)
	}

	h.log.DebugContext(c.Request.Context(), "Using uploaded workbook", "field", field, "file", header.Filename)

	return uploadSource{Source: src}, nil
}

func (h *Handler) speed(requested *float64) *float64 {
	if requested != nil {
		return requested
	}
	speed := h.opts.SpeedKmh

	return &speed
}
