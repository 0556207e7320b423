package game

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gonewx/sentakki/pkg/events"
	"github.com/gonewx/sentakki/pkg/scoring"
	_ "github.com/mattn/go-sqlite3"
)

// SlideRecord 一条滑条判定记录
type SlideRecord struct {
	Session  string
	Body     int64
	Result   scoring.HitResult
	Time     float64 // 判定时的游戏时钟（毫秒）
	Break    bool
	PlayedAt time.Time
}

// ScoreHistory 滑条判定历史（SQLite）
//
// 每个本体判定写入一行；撤销时删除同一会话中该本体的记录。
// 实体 ID 只在一次会话内有效，所以所有查询都带会话标识。
type ScoreHistory struct {
	db      *sql.DB
	session string
}

const scoreHistorySchema = `
create table if not exists slide_results
  (
	  id integer not null primary key,
	  session text not null,
	  body integer not null,
	  result text not null,
	  time real not null,
	  is_break integer not null,
	  played_at integer not null
  );
create index if not exists slide_results_session on slide_results(session, body);
`

// OpenScoreHistory 打开（必要时创建）历史数据库
//
// 参数：
//   - path: 数据库文件路径，":memory:" 表示内存库
//   - session: 本次会话标识，为空时使用当前时间
func OpenScoreHistory(path, session string) (*ScoreHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score history %s: %w", path, err)
	}
	// 内存库每个连接是独立的数据库
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(scoreHistorySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init score history schema: %w", err)
	}
	if session == "" {
		session = time.Now().UTC().Format(time.RFC3339Nano)
	}
	log.Printf("[ScoreHistory] Opened %s (session %s)", path, session)
	return &ScoreHistory{db: db, session: session}, nil
}

// Close 关闭数据库
func (h *ScoreHistory) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Session 当前会话标识
func (h *ScoreHistory) Session() string {
	return h.session
}

// OnSlideJudged 写入一条记录，失败只记录日志
func (h *ScoreHistory) OnSlideJudged(e events.JudgementEvent) {
	if err := h.Record(e); err != nil {
		log.Printf("[ScoreHistory] Warning: %v", err)
	}
}

// OnSlideReverted 删除该本体在本会话中的记录
func (h *ScoreHistory) OnSlideReverted(e events.JudgementEvent) {
	if _, err := h.db.Exec("delete from slide_results where session = ? and body = ?", h.session, int64(e.Body)); err != nil {
		log.Printf("[ScoreHistory] Warning: unable to revert slide %d: %v", e.Body, err)
	}
}

// Record 写入一条本体判定
func (h *ScoreHistory) Record(e events.JudgementEvent) error {
	isBreak := 0
	if e.Break {
		isBreak = 1
	}
	_, err := h.db.Exec(
		"insert into slide_results(session, body, result, time, is_break, played_at) values(?, ?, ?, ?, ?, ?)",
		h.session, int64(e.Body), e.Result.String(), e.Time, isBreak, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("unable to record slide %d: %w", e.Body, err)
	}
	return nil
}

// Records 返回指定会话的所有记录，按判定时间排序
func (h *ScoreHistory) Records(session string) ([]SlideRecord, error) {
	rows, err := h.db.Query(
		"select session, body, result, time, is_break, played_at from slide_results where session = ? order by time, id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load records: %w", err)
	}
	defer rows.Close()

	var records []SlideRecord
	for rows.Next() {
		var (
			r        SlideRecord
			result   string
			isBreak  int
			playedAt int64
		)
		if err := rows.Scan(&r.Session, &r.Body, &result, &r.Time, &isBreak, &playedAt); err != nil {
			return nil, fmt.Errorf("unable to scan record: %w", err)
		}
		r.Result = scoring.ParseHitResult(result)
		r.Break = isBreak != 0
		r.PlayedAt = time.Unix(playedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Summary 统计指定会话中各判定结果的数量
func (h *ScoreHistory) Summary(session string) (map[scoring.HitResult]int, error) {
	rows, err := h.db.Query("select result, count(*) from slide_results where session = ? group by result", session)
	if err != nil {
		return nil, fmt.Errorf("unable to summarize session %s: %w", session, err)
	}
	defer rows.Close()

	summary := make(map[scoring.HitResult]int)
	for rows.Next() {
		var (
			result string
			count  int
		)
		if err := rows.Scan(&result, &count); err != nil {
			return nil, fmt.Errorf("unable to scan summary: %w", err)
		}
		summary[scoring.ParseHitResult(result)] = count
	}
	return summary, rows.Err()
}
