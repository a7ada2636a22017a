// Package migration は golang-migrate を用いたスキーマ管理を提供します。
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Source はマイグレーションファイルの取得元です。
type Source struct {
	fsys fs.FS
	dir  string
	path string
}

// EmbeddedSource はバイナリに埋め込まれたマイグレーションを利用します。
func EmbeddedSource(fsys fs.FS, dir string) Source {
	return Source{fsys: fsys, dir: dir}
}

// DirSource はファイルシステム上のディレクトリを利用します。
func DirSource(dir string) Source {
	return Source{path: dir}
}

// Migrator は 1 つのデータベースに対するマイグレーション操作をまとめます。
type Migrator struct {
	source Source
	dsn    string
}

// New は Migrator を生成します。接続は各操作ごとに確立されます。
func New(source Source, dsn string) *Migrator {
	return &Migrator{source: source, dsn: dsn}
}

// Up は未適用のマイグレーションをすべて適用します。
func (m *Migrator) Up() error {
	return m.with(func(mg *migrate.Migrate) error {
		return ignoreNoChange(mg.Up())
	})
}

// Down は適用済みのマイグレーションをすべて取り消します。
func (m *Migrator) Down() error {
	return m.with(func(mg *migrate.Migrate) error {
		return ignoreNoChange(mg.Down())
	})
}

// Drop はデータベース内のテーブルをすべて削除します。
func (m *Migrator) Drop() error {
	return m.with(func(mg *migrate.Migrate) error {
		return mg.Drop()
	})
}

// Reset はスキーマを破棄して作り直します。シード投入前に利用します。
func (m *Migrator) Reset() error {
	return m.with(func(mg *migrate.Migrate) error {
		if err := ignoreNoChange(mg.Down()); err != nil {
			return fmt.Errorf("down: %w", err)
		}
		if err := ignoreNoChange(mg.Up()); err != nil {
			return fmt.Errorf("up: %w", err)
		}
		return nil
	})
}

// Version は現在のバージョンを返します。未適用の場合 applied は false です。
func (m *Migrator) Version() (version uint, dirty bool, applied bool, err error) {
	err = m.with(func(mg *migrate.Migrate) error {
		v, d, verr := mg.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return verr
		}
		version, dirty, applied = v, d, true
		return nil
	})
	return version, dirty, applied, err
}

func (m *Migrator) with(fn func(*migrate.Migrate) error) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := fn(mg); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	return nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	if m.source.fsys != nil {
		driver, err := iofs.New(m.source.fsys, m.source.dir)
		if err != nil {
			return nil, fmt.Errorf("migration: open embedded source: %w", err)
		}
		mg, err := migrate.NewWithSourceInstance("iofs", driver, m.dsn)
		if err != nil {
			return nil, fmt.Errorf("migration: create migrate instance: %w", err)
		}
		return mg, nil
	}

	absDir, err := filepath.Abs(m.source.path)
	if err != nil {
		return nil, fmt.Errorf("migration: resolve path for %s: %w", m.source.path, err)
	}

	mg, err := migrate.New("file://"+filepath.ToSlash(absDir), m.dsn)
	if err != nil {
		return nil, fmt.Errorf("migration: create migrate instance: %w", err)
	}
	return mg, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
