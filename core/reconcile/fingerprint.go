package reconcile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// versionDomain separates entity fingerprints from any other hash in the system.
const versionDomain = "commerce-sync/entity-version/v1"

// Fingerprint returns a deterministic digest of v.
// The value is normalized through JSON so map ordering and struct-vs-map
// representation do not change the result.
func Fingerprint(v any) string {
	canonical, err := canonicalJSON(v)
	if err != nil {
		canonical = []byte(fmt.Sprintf("%#v", v))
	}
	return hashWithDomain(versionDomain, canonical)
}

// canonicalJSON re-encodes v as generic JSON. encoding/json sorts map keys,
// and json.Number keeps numeric literals exactly as they were produced.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
