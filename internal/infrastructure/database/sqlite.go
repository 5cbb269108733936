package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteClient ローカル永続化用のSQLiteクライアント
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLiteClient 新しいSQLiteクライアントを作成し、接続を確認する
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("SQLite接続の初期化に失敗: %w", err)
	}

	// 並行アクセスに強いWALモードを有効化
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("WALモードの有効化に失敗: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("SQLiteへの接続に失敗: %w", err)
	}

	return &SQLiteClient{DB: db}, nil
}

// Close データベース接続を閉じる
func (sc *SQLiteClient) Close() error {
	if sc.DB != nil {
		return sc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (sc *SQLiteClient) HealthCheck() error {
	if sc.DB == nil {
		return fmt.Errorf("SQLiteクライアントが初期化されていません")
	}
	return sc.DB.Ping()
}
