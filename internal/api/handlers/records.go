package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/cid/internal/api/ws"
	"github.com/your-org/cid/internal/models"
	"github.com/your-org/cid/internal/store"
	"github.com/your-org/cid/pkg/dto"
)

type RecordHandler struct {
	store *store.RecordStore
	hub   *ws.Hub
}

func NewRecordHandler(s *store.RecordStore, hub *ws.Hub) *RecordHandler {
	return &RecordHandler{store: s, hub: hub}
}

func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := createFields(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := h.store.Add(fields)
	resp := dto.NewRecordResponse(rec)
	h.hub.BroadcastRecordChange("record_added", resp)

	c.JSON(http.StatusCreated, resp)
}

// List returns all records, filtered by the q query when present.
func (h *RecordHandler) List(c *gin.Context) {
	recs := h.store.Search(c.Query("q"))

	resp := make([]dto.RecordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, dto.NewRecordResponse(rec))
	}

	c.JSON(http.StatusOK, dto.RecordListResponse{Records: resp, Total: len(resp)})
}

func (h *RecordHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	rec, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordResponse(rec))
}

func (h *RecordHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := updateFields(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.store.Update(id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.NewRecordResponse(rec)
	h.hub.BroadcastRecordChange("record_updated", resp)

	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	h.store.Remove(id)
	h.hub.BroadcastRecordChange("record_removed", gin.H{"id": id})

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func createFields(req dto.CreateRecordRequest) (store.Fields, error) {
	f := store.Fields{
		Name:    &req.Name,
		Offense: &req.Offense,
	}
	if req.Severity != "" {
		sev := models.Severity(req.Severity)
		if !sev.Valid() {
			return store.Fields{}, errors.New("invalid severity")
		}
		f.Severity = &sev
	}
	if req.Status != "" {
		st := models.Status(req.Status)
		if !st.Valid() {
			return store.Fields{}, errors.New("invalid status")
		}
		f.Status = &st
	}
	if req.PortraitURL != "" {
		f.PortraitURL = &req.PortraitURL
	}
	if req.LastSeen != "" {
		f.LastSeen = &req.LastSeen
	}
	if req.Age != "" {
		f.Age = &req.Age
	}
	if req.Height != "" {
		f.Height = &req.Height
	}
	if req.Description != "" {
		f.Description = &req.Description
	}
	return f, nil
}

func updateFields(req dto.UpdateRecordRequest) (store.Fields, error) {
	f := store.Fields{
		Name:        req.Name,
		Offense:     req.Offense,
		PortraitURL: req.PortraitURL,
		LastSeen:    req.LastSeen,
		Age:         req.Age,
		Height:      req.Height,
		Description: req.Description,
	}
	if req.Severity != nil {
		sev := models.Severity(*req.Severity)
		if !sev.Valid() {
			return store.Fields{}, errors.New("invalid severity")
		}
		f.Severity = &sev
	}
	if req.Status != nil {
		st := models.Status(*req.Status)
		if !st.Valid() {
			return store.Fields{}, errors.New("invalid status")
		}
		f.Status = &st
	}
	return f, nil
}
