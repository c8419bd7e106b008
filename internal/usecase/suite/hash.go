package suite

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// InputHash computes the SHA-256 digest of the canonical JSON encoding
// of a calculation request. Struct field order makes the encoding
// deterministic, so identical inputs always produce the identical hash
// and a persisted run can be checked against its lineage byte for byte.
func InputHash(req *domain.CalculationRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request for hashing: %w", err)
	}
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:]), nil
}
