package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SessionRepo tracks admin console sessions. Mini-App callers identify
// themselves per request and never get a session row; only an admin who
// passed the password check is bound here.
type SessionRepo struct{ DB *sqlx.DB }

// OpenDB opens the relational side of the store (admin sessions live next
// to the document table but in their own schema).
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	schema := `
CREATE TABLE IF NOT EXISTS admin_sessions(
  id         TEXT PRIMARY KEY,  -- same value as the 'sid' cookie
  admin_id   TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

func (r *SessionRepo) Bind(sid, adminID string) error {
	_, err := r.DB.Exec(`INSERT INTO admin_sessions(id,admin_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET admin_id=excluded.admin_id,last_seen=CURRENT_TIMESTAMP`,
		sid, adminID)
	return err
}

// AdminID resolves a session cookie to the admin's Telegram id, or ""
// when the session is unknown.
func (r *SessionRepo) AdminID(sid string) (string, error) {
	var id string
	err := r.DB.Get(&id, `SELECT admin_id FROM admin_sessions WHERE id=?`, sid)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	_, _ = r.DB.Exec(`UPDATE admin_sessions SET last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return id, nil
}

func (r *SessionRepo) Unbind(sid string) error {
	_, err := r.DB.Exec(`DELETE FROM admin_sessions WHERE id=?`, sid)
	return err
}
