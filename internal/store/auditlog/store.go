package auditlog

// 中文说明：
// 覆盖操作审计：谁在什么时候对哪个 trade 设置/清除了什么覆盖。
// 独立 SQLite 文件 + database/sql，与决策日志互不锁冲突。

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// Entry 一条覆盖操作记录。
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp int64     `json:"ts"`
	TradeID   string    `json:"trade_id"`
	Kind      string    `json:"kind"`   // weight / decision
	Action    string    `json:"action"` // set / clear
	Detail    string    `json:"detail"`
	Reason    string    `json:"reason"`
	ExpireAt  time.Time `json:"expire_at,omitempty"`
	Operator  string    `json:"operator,omitempty"`
}

// Store 覆盖审计存储。
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore 打开审计库。
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("audit log 路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS override_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		trade_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		action TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		expire_at INTEGER NOT NULL DEFAULT 0,
		operator TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_override_audit_trade ON override_audit(trade_id, ts);`)
	return err
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Append 追加一条审计记录。
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("audit log 已关闭")
	}
	ts := e.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	var expire int64
	if !e.ExpireAt.IsZero() {
		expire = e.ExpireAt.UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO override_audit (ts, trade_id, kind, action, detail, reason, expire_at, operator)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts, e.TradeID, e.Kind, e.Action, e.Detail, e.Reason, expire, e.Operator)
	return err
}

// Recent 返回最近 limit 条记录，时间倒序。
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("audit log 已关闭")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, trade_id, kind, action, detail, reason, expire_at, operator
		 FROM override_audit ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var expire int64
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.TradeID, &e.Kind, &e.Action, &e.Detail, &e.Reason, &expire, &e.Operator); err != nil {
			return nil, err
		}
		if expire > 0 {
			e.ExpireAt = time.UnixMilli(expire)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
