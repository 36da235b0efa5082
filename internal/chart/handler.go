package chart

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"numerology/internal/numerology"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/systems", h.systems)
	rg.POST("/charts", h.create)
	rg.GET("/charts", h.list)
	rg.GET("/charts/:id", h.getByID)
}

type systemInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) systems(c *gin.Context) {
	out := make([]systemInfo, 0, 3)
	for _, v := range numerology.Systems() {
		out = append(out, systemInfo{Name: v.Name, Title: v.Title, Description: v.Description})
	}
	c.JSON(http.StatusOK, gin.H{"systems": out})
}

type createReq struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Birthdate string   `json:"birthdate"`
	Systems   []string `json:"systems"`
	Locale    string   `json:"locale"`
	Save      *bool    `json:"save"`
	Interpret *bool    `json:"interpret"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var variants []*numerology.Variant
	if len(req.Systems) > 0 {
		var err error
		variants, err = numerology.ParseSystems(strings.Join(req.Systems, ","))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" && h.Service.Catalog != nil {
		if al := c.GetHeader("Accept-Language"); al != "" {
			locale = h.Service.Catalog.MatchAcceptLanguage(al)
		}
	}

	results, err := h.Service.Compute(c.Request.Context(), Request{
		Person: numerology.Person{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Birthdate: strings.TrimSpace(req.Birthdate),
		},
		Systems:   variants,
		Locale:    locale,
		Interpret: boolOr(req.Interpret, true),
		Save:      boolOr(req.Save, true),
	})
	if err != nil {
		if numerology.IsInvalidInput(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": numerology.ErrInvalidInput.Error()})
			return
		}
		h.Service.logger().Error("compute chart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compute failed"})
		return
	}

	status := http.StatusOK
	for _, r := range results {
		if r.ChartID != "" {
			status = http.StatusCreated
			break
		}
	}
	c.JSON(status, gin.H{"results": results})
}

func (h *Handler) list(c *gin.Context) {
	if h.Service.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage disabled"})
		return
	}
	q := ListQuery{
		Q:      c.Query("q"),
		System: c.Query("system"),
		Limit:  clampLimit(parseInt(c.Query("limit"), 20)),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	total, err := h.Service.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Service.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	if h.Service.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage disabled"})
		return
	}
	ch, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
