package domain

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Revision returns a short content hash of v. encoding/json sorts map keys,
// so equal values always hash the same.
func Revision(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
