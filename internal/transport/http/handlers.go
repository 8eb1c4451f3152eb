package adminhttp

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"optix/internal/fusion"
	"optix/internal/llm"
	"optix/internal/logger"
	"optix/internal/store/auditlog"
	"optix/internal/store/decisionlog"
	"optix/internal/tuning"
)

type handler struct {
	engine    *fusion.Engine
	decisions *decisionlog.Store
	audit     *auditlog.Store
	profiles  *tuning.Registry
}

func (h *handler) register(api *gin.RouterGroup) {
	api.GET("/decisions", h.listDecisions)
	api.GET("/decisions/:trade_id", h.decisionsByTrade)

	api.GET("/overrides/weights/:trade_id", h.weightOverrideStatus)
	api.POST("/overrides/weights", h.setWeightOverride)
	api.DELETE("/overrides/weights/:trade_id", h.clearWeightOverride)

	api.POST("/overrides/decision", h.setDecisionOverride)
	api.DELETE("/overrides/decision/:trade_id", h.clearDecisionOverride)
	api.GET("/overrides/audit", h.overrideAudit)

	api.GET("/profiles", h.listProfiles)
}

func (h *handler) listDecisions(c *gin.Context) {
	if h.decisions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "决策日志未启用"})
		return
	}
	rows, err := h.decisions.Recent(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": rows})
}

func (h *handler) decisionsByTrade(c *gin.Context) {
	if h.decisions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "决策日志未启用"})
		return
	}
	tradeID := strings.TrimSpace(c.Param("trade_id"))
	rows, err := h.decisions.ByTradeID(c.Request.Context(), tradeID, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade_id": tradeID, "decisions": rows})
}

type weightOverrideRequest struct {
	TradeID     string  `json:"trade_id"`
	QuantWeight float64 `json:"quant_weight" binding:"required"`
	LLMWeight   float64 `json:"llm_weight" binding:"required"`
	Reason      string  `json:"reason"`
	TTLSeconds  int64   `json:"ttl_seconds"`
	Operator    string  `json:"operator"`
}

func (h *handler) setWeightOverride(c *gin.Context) {
	var req weightOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := h.engine.SetWeightOverride(req.TradeID, req.QuantWeight, req.LLMWeight, req.Reason, ttl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.recordAudit(c, auditlog.Entry{
		TradeID:  overrideTradeID(req.TradeID),
		Kind:     "weight",
		Action:   "set",
		Detail:   strconv.FormatFloat(req.QuantWeight, 'f', 2, 64) + "/" + strconv.FormatFloat(req.LLMWeight, 'f', 2, 64),
		Reason:   req.Reason,
		ExpireAt: time.Now().Add(ttl),
		Operator: req.Operator,
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) clearWeightOverride(c *gin.Context) {
	tradeID := strings.TrimSpace(c.Param("trade_id"))
	h.engine.ClearWeightOverride(tradeID)
	h.recordAudit(c, auditlog.Entry{TradeID: overrideTradeID(tradeID), Kind: "weight", Action: "clear"})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) weightOverrideStatus(c *gin.Context) {
	tradeID := strings.TrimSpace(c.Param("trade_id"))
	c.JSON(http.StatusOK, h.engine.WeightOverrideStatus(tradeID))
}

type decisionOverrideRequest struct {
	TradeID    string `json:"trade_id"`
	Decision   string `json:"decision" binding:"required"`
	Reason     string `json:"reason"`
	TTLSeconds int64  `json:"ttl_seconds"`
	Operator   string `json:"operator"`
}

func (h *handler) setDecisionOverride(c *gin.Context) {
	var req decisionOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	decision := llm.Action(strings.ToUpper(strings.TrimSpace(req.Decision)))
	if err := h.engine.SetDecisionOverride(req.TradeID, decision, req.Reason, ttl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.recordAudit(c, auditlog.Entry{
		TradeID:  overrideTradeID(req.TradeID),
		Kind:     "decision",
		Action:   "set",
		Detail:   string(decision),
		Reason:   req.Reason,
		ExpireAt: time.Now().Add(ttl),
		Operator: req.Operator,
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) clearDecisionOverride(c *gin.Context) {
	tradeID := strings.TrimSpace(c.Param("trade_id"))
	h.engine.ClearDecisionOverride(tradeID)
	h.recordAudit(c, auditlog.Entry{TradeID: overrideTradeID(tradeID), Kind: "decision", Action: "clear"})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) overrideAudit(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "覆盖审计未启用"})
		return
	}
	entries, err := h.audit.Recent(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *handler) listProfiles(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "参数档案未启用"})
		return
	}
	snap := h.profiles.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"version":   snap.Version,
		"loaded_at": snap.LoadedAt,
		"profiles":  snap.Profiles,
	})
}

// recordAudit 审计失败只记日志，不影响覆盖操作本身。
func (h *handler) recordAudit(c *gin.Context, e auditlog.Entry) {
	if h.audit == nil {
		return
	}
	if err := h.audit.Append(c.Request.Context(), e); err != nil {
		logger.Warnf("覆盖审计写入失败: %v", err)
	}
}

func overrideTradeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return fusion.GlobalKey
	}
	return id
}

func queryLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
