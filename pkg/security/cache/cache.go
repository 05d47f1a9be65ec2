// Package cache implements the CertificateCache (spec.md §4.6): a shared
// Name → Certificate map that rejects out-of-window inserts and resolves
// unversioned lookups to the latest installed version.
package cache

import (
	"time"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security"
)

// Cache is the CertificateCache contract: insert only currently-valid
// certificates, and resolve a name (optionally already carrying a
// version) to the Certificate it names.
type Cache interface {
	// InsertCertificate stores cert under certName (which must carry a
	// version component, spec.md §4.1's AppendVersion) if cert is
	// currently valid; otherwise it is a silent no-op (spec.md §4.6).
	InsertCertificate(certName name.Name, cert *security.Certificate)
	// GetCertificate resolves certName to a Certificate. If hasVersion is
	// false, certName is treated as a prefix and the latest installed
	// version under it is returned; otherwise certName must match exactly.
	GetCertificate(certName name.Name, hasVersion bool) (*security.Certificate, bool)
}

// Clock is overridable in tests so validity checks are deterministic.
var Clock = func() time.Time { return time.Now().UTC() }

// isCurrentlyValid reports cert.NotBefore <= now <= cert.NotAfter.
func isCurrentlyValid(cert *security.Certificate) bool {
	now := Clock()
	return cert.IsValidAt(now)
}

// latestVersioned scans entries for the greatest-versioned name whose
// prefix (all but the final, version component) equals prefix.
func latestVersioned(entries []entry, prefix name.Name) (*security.Certificate, bool) {
	var best *entry
	var bestVersion uint64
	for _, e := range entries {
		if e.name.Len() != prefix.Len()+1 {
			continue
		}
		if !prefix.Equal(e.name.Prefix(prefix.Len())) {
			continue
		}
		last := e.name.At(e.name.Len() - 1)
		if !last.IsVersion() {
			continue
		}
		version, err := name.AsNumberWithMarker(last, name.VersionMarker)
		if err != nil {
			continue
		}
		if best == nil || version > bestVersion {
			ec := e
			best = &ec
			bestVersion = version
		}
	}
	if best == nil {
		return nil, false
	}
	return best.cert, true
}

type entry struct {
	name name.Name
	cert *security.Certificate
}
