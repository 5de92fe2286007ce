package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

var dbLog = log.With().Str("module", "store").Logger()

const createFrameTableSQL = `CREATE TABLE IF NOT EXISTS frame_status (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run VARCHAR(64) NOT NULL,
	frame_name VARCHAR(255),
	ts BIGINT NOT NULL,
	joystick_angle DOUBLE NULL,
	spell1_cd INT, spell2_cd INT, spell3_cd INT,
	skill1_cd INT, skill2_cd INT, skill3_cd INT, skill4_cd INT,
	money INT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	INDEX idx_run_ts (run, ts)
)`

const createHeroTableSQL = `CREATE TABLE IF NOT EXISTS hero_status (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	frame_id BIGINT NOT NULL,
	hero_id INT NOT NULL,
	level INT NOT NULL,
	x INT NOT NULL,
	y INT NOT NULL,
	FOREIGN KEY (frame_id) REFERENCES frame_status(id) ON DELETE CASCADE
)`

const insertFrameSQL = `INSERT INTO frame_status (run, frame_name, ts, joystick_angle,
	spell1_cd, spell2_cd, spell3_cd, skill1_cd, skill2_cd, skill3_cd, skill4_cd, money)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertHeroSQL = `INSERT INTO hero_status (frame_id, hero_id, level, x, y) VALUES (?, ?, ?, ?, ?)`

// MySQLSink stores every frame record and its heroes in one transaction.
type MySQLSink struct {
	db  *sql.DB
	run string
}

// NormalizeDSN checks dsn and enables the options the sink relies on.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

// OpenMySQL connects to dsn and creates the tables if needed. Records are tagged with run.
func OpenMySQL(ctx context.Context, dsn, run string) (*MySQLSink, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach mysql: %w", err)
	}
	for _, stmt := range []string{createFrameTableSQL, createHeroTableSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	dbLog.Info().Str("run", run).Msg("mysql sink ready")
	return &MySQLSink{db: db, run: run}, nil
}

// frameArgs returns the insertFrameSQL arguments of fs.
func frameArgs(run, name string, fs status.FrameStatus) []any {
	var angle sql.NullFloat64
	if fs.JoystickDetected {
		angle = sql.NullFloat64{Float64: fs.JoystickAngle, Valid: true}
	}
	return []any{
		run, name, fs.Timestamp, angle,
		fs.SpellCooldowns[0], fs.SpellCooldowns[1], fs.SpellCooldowns[2],
		fs.SkillCooldowns[0], fs.SkillCooldowns[1], fs.SkillCooldowns[2], fs.SkillCooldowns[3],
		fs.Money,
	}
}

// WriteFrame inserts fs and its heroes.
func (s *MySQLSink) WriteFrame(ctx context.Context, f framesource.Frame, fs status.FrameStatus) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, insertFrameSQL, frameArgs(s.run, f.Name, fs)...)
	if err != nil {
		return fmt.Errorf("failed to insert frame: %w", err)
	}
	frameID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(fs.Heroes) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx, insertHeroSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare hero insert: %w", err)
		}
		defer stmt.Close()
		for _, h := range fs.Heroes {
			if _, err = stmt.ExecContext(ctx, frameID, h.ID, h.Level, h.Position.X, h.Position.Y); err != nil {
				return fmt.Errorf("failed to insert hero %d: %w", h.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit frame: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *MySQLSink) Close() error {
	return s.db.Close()
}
