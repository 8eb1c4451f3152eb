package decisionlog

// 中文说明：
// 融合决策持久化：SQLite + GORM，热字段落列，明细落 JSON 列，
// 方便后续排查与回测复盘。写路径永不阻塞决策主流程之外的逻辑。

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"optix/internal/fusion"
)

// DecisionModel 单条融合决策记录。
type DecisionModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TradeID   string `gorm:"column:trade_id;index;size:64" json:"trade_id"`
	TraceID   string `gorm:"column:trace_id;uniqueIndex;size:64" json:"trace_id"`
	Timestamp int64  `gorm:"column:ts;index" json:"ts"`

	Recommendation  string  `gorm:"column:recommendation;size:16" json:"recommendation"`
	CompositeScore  float64 `gorm:"column:composite_score" json:"composite_score"`
	Category        string  `gorm:"column:category;size:16" json:"category"`
	ConfidenceLevel string  `gorm:"column:confidence_level;size:8" json:"confidence_level"`
	QuantWeight     float64 `gorm:"column:quant_weight" json:"quant_weight"`
	LLMWeight       float64 `gorm:"column:llm_weight" json:"llm_weight"`

	BreakdownJSON datatypes.JSON `gorm:"column:breakdown_json;type:TEXT" json:"breakdown"`
	FactorsJSON   datatypes.JSON `gorm:"column:factors_json;type:TEXT" json:"factors"`
	WarningsJSON  datatypes.JSON `gorm:"column:warnings_json;type:TEXT" json:"warnings"`
	OverrideJSON  datatypes.JSON `gorm:"column:override_json;type:TEXT" json:"override,omitempty"`

	ProcessingUS int64     `gorm:"column:processing_us" json:"processing_us"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DecisionModel) TableName() string { return "decision_results" }

// Store SQLite 决策日志存储。
type Store struct {
	db *gorm.DB
}

// NewStore 打开（或创建）存储文件并迁移 schema。
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("decision log 路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DecisionModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL：留一点并行度给 HTTP 读，同时压低锁竞争
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Append 落一条融合结果。
func (s *Store) Append(ctx context.Context, r *fusion.Result) error {
	if r == nil {
		return fmt.Errorf("结果不能为空")
	}
	model, err := toModel(r)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(model).Error
}

// Recent 返回最近 limit 条记录，时间倒序。
func (s *Store) Recent(ctx context.Context, limit int) ([]DecisionModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []DecisionModel
	err := s.db.WithContext(ctx).
		Order("ts DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ByTradeID 返回指定 trade 的记录，时间倒序。
func (s *Store) ByTradeID(ctx context.Context, tradeID string, limit int) ([]DecisionModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []DecisionModel
	err := s.db.WithContext(ctx).
		Where("trade_id = ?", strings.TrimSpace(tradeID)).
		Order("ts DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func toModel(r *fusion.Result) (*DecisionModel, error) {
	breakdown, err := json.Marshal(map[string]any{
		"quant": r.QuantScore,
		"llm":   r.LLMScore,
	})
	if err != nil {
		return nil, err
	}
	factors, err := json.Marshal(r.DecisionFactors)
	if err != nil {
		return nil, err
	}
	warnings, err := json.Marshal(r.RiskWarnings)
	if err != nil {
		return nil, err
	}
	model := &DecisionModel{
		TradeID:         r.TradeID,
		TraceID:         r.TraceID,
		Timestamp:       r.Timestamp.UnixMilli(),
		Recommendation:  string(r.FinalRecommendation),
		CompositeScore:  r.CompositeScore,
		Category:        string(r.DecisionCategory),
		ConfidenceLevel: string(r.ConfidenceLevel),
		QuantWeight:     r.QuantWeight,
		LLMWeight:       r.LLMWeight,
		BreakdownJSON:   breakdown,
		FactorsJSON:     factors,
		WarningsJSON:    warnings,
		ProcessingUS:    r.ProcessingTime.Microseconds(),
	}
	if r.Override != nil {
		raw, err := json.Marshal(r.Override)
		if err != nil {
			return nil, err
		}
		model.OverrideJSON = raw
	}
	return model, nil
}
