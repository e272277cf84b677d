// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package Cache

import (
	"sync"
	"time"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/db"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
)

const (
	MinSize    = 100
	DefaultAge = 6 * time.Hour
)

// PayloadCache
// remembers payload bodies already stored in the database
type PayloadCache interface {
	GetPayloadId(body []byte) (string, error)
	StoredCount() int
}

type payloadCacheImpl struct {
	instance libcache.Cache
	db       db.Connection
	mutex    sync.Mutex
	stored   int
}

func NewPayloadCache(db db.Connection) PayloadCache {
	nc := payloadCacheImpl{instance: libcache.LRU.New(MinSize), db: db}
	nc.instance.SetTTL(DefaultAge)
	return &nc
}

// GetPayloadId
// content address of the body, the body is written once per cache lifetime
func (p *payloadCacheImpl) GetPayloadId(body []byte) (string, error) {
	payloadId := entities.ComputePayloadId(body)
	if _, loaded := p.instance.Load(payloadId); loaded {
		return payloadId, nil
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	inserted, err := p.db.StorePayloadBody(payloadId, body)
	if err != nil {
		log.Errorf("error storing payload %s: %v", payloadId, err)
		return "", err
	}
	if inserted {
		p.stored++
	}
	p.instance.Store(payloadId, len(body))
	return payloadId, nil
}

// StoredCount
// bodies inserted through this cache
func (p *payloadCacheImpl) StoredCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.stored
}
