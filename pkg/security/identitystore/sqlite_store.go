package identitystore

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// schema mirrors the teacher's sqlite-pib three-table shape
// (identities/keys/certificates, each with an is_default flag), narrowed
// to name columns only -- no key_bits column, since raw key material is
// the PrivateKeyStore's concern, not this store's (spec.md §1).
const schema = `
CREATE TABLE IF NOT EXISTS identities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS keys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	identity_id INTEGER NOT NULL REFERENCES identities(id),
	name TEXT UNIQUE NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS certificates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key_id INTEGER NOT NULL REFERENCES keys(id),
	name TEXT UNIQUE NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0
);
`

// SqliteStore is a Store backed by a sqlite database file.
type SqliteStore struct {
	db *sql.DB
}

// OpenSqliteStore opens (creating if absent) a sqlite-backed Store at
// path.
func OpenSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) AddIdentity(identityName name.Name) error {
	isDefault := 0
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM identities").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		isDefault = 1
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO identities (name, is_default) VALUES (?, ?)",
		identityName.String(), isDefault,
	)
	return err
}

func (s *SqliteStore) identityID(identityName name.Name) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM identities WHERE name=?", identityName.String()).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ndn.ErrNotFound
	}
	return id, err
}

func (s *SqliteStore) keyID(keyName name.Name) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM keys WHERE name=?", keyName.String()).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ndn.ErrNotFound
	}
	return id, err
}

func (s *SqliteStore) AddKey(identityName, keyName name.Name) error {
	idID, err := s.identityID(identityName)
	if err != nil {
		return err
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM keys WHERE identity_id=?", idID).Scan(&count); err != nil {
		return err
	}
	isDefault := 0
	if count == 0 {
		isDefault = 1
	}
	_, err = s.db.Exec(
		"INSERT OR IGNORE INTO keys (identity_id, name, is_default) VALUES (?, ?, ?)",
		idID, keyName.String(), isDefault,
	)
	return err
}

func (s *SqliteStore) AddCertificate(keyName, certName name.Name) error {
	keyID, err := s.keyID(keyName)
	if err != nil {
		return err
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM certificates WHERE key_id=?", keyID).Scan(&count); err != nil {
		return err
	}
	isDefault := 0
	if count == 0 {
		isDefault = 1
	}
	_, err = s.db.Exec(
		"INSERT OR IGNORE INTO certificates (key_id, name, is_default) VALUES (?, ?, ?)",
		keyID, certName.String(), isDefault,
	)
	return err
}

func (s *SqliteStore) SetDefaultIdentity(identityName name.Name) error {
	if _, err := s.identityID(identityName); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE identities SET is_default=0"); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("UPDATE identities SET is_default=1 WHERE name=?", identityName.String()); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) SetDefaultKey(identityName, keyName name.Name) error {
	idID, err := s.identityID(identityName)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE keys SET is_default=0 WHERE identity_id=?", idID); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.Exec("UPDATE keys SET is_default=1 WHERE identity_id=? AND name=?", idID, keyName.String())
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ndn.ErrNotFound
	}
	return tx.Commit()
}

func (s *SqliteStore) SetDefaultCertificate(keyName, certName name.Name) error {
	keyID, err := s.keyID(keyName)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE certificates SET is_default=0 WHERE key_id=?", keyID); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.Exec("UPDATE certificates SET is_default=1 WHERE key_id=? AND name=?", keyID, certName.String())
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ndn.ErrNotFound
	}
	return tx.Commit()
}

func (s *SqliteStore) DefaultIdentity() (name.Name, bool) {
	var uri string
	err := s.db.QueryRow("SELECT name FROM identities WHERE is_default=1").Scan(&uri)
	if err != nil {
		return nil, false
	}
	n, err := name.FromURI(uri)
	if err != nil {
		return nil, false
	}
	return n, true
}

func (s *SqliteStore) DefaultKeyForIdentity(identityName name.Name) (name.Name, bool) {
	idID, err := s.identityID(identityName)
	if err != nil {
		return nil, false
	}
	var uri string
	err = s.db.QueryRow("SELECT name FROM keys WHERE identity_id=? AND is_default=1", idID).Scan(&uri)
	if err != nil {
		return nil, false
	}
	n, err := name.FromURI(uri)
	if err != nil {
		return nil, false
	}
	return n, true
}

func (s *SqliteStore) DefaultCertificateForKey(keyName name.Name) (name.Name, bool) {
	keyID, err := s.keyID(keyName)
	if err != nil {
		return nil, false
	}
	var uri string
	err = s.db.QueryRow("SELECT name FROM certificates WHERE key_id=? AND is_default=1", keyID).Scan(&uri)
	if err != nil {
		return nil, false
	}
	n, err := name.FromURI(uri)
	if err != nil {
		return nil, false
	}
	return n, true
}

func (s *SqliteStore) KeysForIdentity(identityName name.Name) []name.Name {
	idID, err := s.identityID(identityName)
	if err != nil {
		return nil
	}
	rows, err := s.db.Query("SELECT name FROM keys WHERE identity_id=?", idID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []name.Name
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			continue
		}
		if n, err := name.FromURI(uri); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func (s *SqliteStore) CertificatesForKey(keyName name.Name) []name.Name {
	keyID, err := s.keyID(keyName)
	if err != nil {
		return nil
	}
	rows, err := s.db.Query("SELECT name FROM certificates WHERE key_id=?", keyID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []name.Name
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			continue
		}
		if n, err := name.FromURI(uri); err == nil {
			out = append(out, n)
		}
	}
	return out
}
