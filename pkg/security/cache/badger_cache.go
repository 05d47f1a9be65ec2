package cache

import (
	"bytes"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security"
	"github.com/ndnxgo/ndnx/pkg/wire/der"
)

// BadgerCache is a persistent Cache backed by badger, keyed by a
// certificate name's URI form so prefix scans (for the unversioned
// lookup) are a plain badger prefix iteration.
type BadgerCache struct {
	db *badger.DB
}

// OpenBadgerCache opens (creating if absent) a badger database at dir.
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db}, nil
}

func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func (c *BadgerCache) InsertCertificate(certName name.Name, cert *security.Certificate) {
	if !isCurrentlyValid(cert) {
		return
	}
	buf := &bytes.Buffer{}
	if err := cert.ToDER().Encode(buf); err != nil {
		return
	}
	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(certName.ToURI()), buf.Bytes())
	})
}

func (c *BadgerCache) GetCertificate(certName name.Name, hasVersion bool) (*security.Certificate, bool) {
	if hasVersion {
		var raw []byte
		err := c.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(certName.ToURI()))
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				raw = append([]byte(nil), val...)
				return nil
			})
		})
		if err != nil {
			return nil, false
		}
		return parseCertDER(raw)
	}

	var entries []entry
	prefix := []byte(certName.ToURI())
	if !strings.HasSuffix(string(prefix), "/") {
		prefix = append(prefix, '/')
	}
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())
			n, err := name.FromURI(key)
			if err != nil {
				continue
			}
			var raw []byte
			if err := item.Value(func(val []byte) error {
				raw = append([]byte(nil), val...)
				return nil
			}); err != nil {
				continue
			}
			cert, ok := parseCertDER(raw)
			if !ok {
				continue
			}
			entries = append(entries, entry{name: n, cert: cert})
		}
		return nil
	})
	return latestVersioned(entries, certName)
}

func parseCertDER(raw []byte) (*security.Certificate, bool) {
	node, _, err := der.ParseNode(raw, 0)
	if err != nil {
		return nil, false
	}
	cert, err := security.CertificateFromDER(node)
	if err != nil {
		return nil, false
	}
	return cert, true
}
