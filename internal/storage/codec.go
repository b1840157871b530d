// Package storage provides the cache value codec.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// codecVersion is bumped together with the key prefix version.
const codecVersion = 1

// cachedAcquisitions is the stored form of an acquisition map.
type cachedAcquisitions struct {
	Version  int                   `json:"v"`
	StoredAt int64                 `json:"stored_at"`
	Records  domain.AcquisitionMap `json:"records"`
}

func encodeAcquisitions(m domain.AcquisitionMap, now time.Time) ([]byte, error) {
	if m == nil {
		m = domain.AcquisitionMap{}
	}
	return json.Marshal(cachedAcquisitions{
		Version:  codecVersion,
		StoredAt: now.UnixMilli(),
		Records:  m,
	})
}

func decodeAcquisitions(data []byte) (domain.AcquisitionMap, error) {
	var v cachedAcquisitions
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode cached acquisitions: %w", err)
	}
	if v.Version != codecVersion {
		return nil, fmt.Errorf("decode cached acquisitions: unsupported version %d", v.Version)
	}
	if v.Records == nil {
		v.Records = domain.AcquisitionMap{}
	}
	return v.Records, nil
}
