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

package disk_cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/utils"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	"github.com/akrylysov/pogreb"
	log "github.com/sirupsen/logrus"
)

const (
	ErrorCacheIsNil           = "current cache for %s is nil"
	ErrorCacheStore           = "cache %s failed to store item under key %s. Error %v"
	ErrorIteratorIsNil        = "returned cache %s iterator is nil"
	ErrorCurrentIteratorIsNil = "current cache %s iterator is nil"
	ErrorCacheKeyNotInvalid   = "invalid cache key for %s"
)

type DiskCache interface {
	Iterate() (*pogreb.ItemIterator, error)
	IterateItemBytes(iterator *pogreb.ItemIterator) (string, []byte, error)
	StoreItem(cacheKey string, value []byte) error
	Sync() int
	Count() int
	GetItem(cacheKey string) ([]byte, error)
	GetItemAsString(cacheKey string) (string, error)
	Path() string
	Close() error
	NilIteratorError() error
}

// diskCache
// implementation for public interface
type diskCache struct {
	db               *pogreb.DB
	cacheName        string
	cacheDir         string
	persistent       bool
	nilIteratorError error
}

// NewDiskCache
// creates a new instance. A persistent cache lives at cacheDir/cacheName and survives Close,
// other caches get a unique directory which is removed on Close
func NewDiskCache(cacheName string, cacheDir string, persistent bool) (DiskCache, error) {
	if cacheDir == view.EmptyString {
		cacheDir = os.TempDir()
	}
	dirName := cacheName
	if !persistent {
		dirName += utils.MakeUniqueId()
	}
	cachePath := filepath.Join(cacheDir, dirName)
	cacheInstance, err := pogreb.Open(cachePath, nil)
	if err != nil {
		return nil, err
	}
	return &diskCache{
		db:               cacheInstance,
		cacheName:        cacheName,
		cacheDir:         cachePath,
		persistent:       persistent,
		nilIteratorError: fmt.Errorf(ErrorCurrentIteratorIsNil, cacheName),
	}, nil
}

// Iterate
// opens an iterator over the cache
func (cache *diskCache) Iterate() (*pogreb.ItemIterator, error) {
	if cache != nil && cache.db != nil {
		iterator := cache.db.Items()
		if iterator == nil {
			return iterator, fmt.Errorf(ErrorIteratorIsNil, cache.cacheName)
		}
		return iterator, nil
	}
	return nil, fmt.Errorf(ErrorCacheIsNil, "")
}

// IterateItemBytes
// move to the next iterated item, pogreb.ErrIterationDone marks the end
func (cache *diskCache) IterateItemBytes(iterator *pogreb.ItemIterator) (string, []byte, error) {
	if iterator != nil {
		key, val, err := iterator.Next()
		return string(key), val, err
	}
	return view.EmptyString, nil, cache.nilIteratorError
}

// StoreItem
// store item in cache, an existing value is replaced
func (cache *diskCache) StoreItem(cacheKey string, value []byte) error {
	if cache == nil || cache.db == nil {
		return fmt.Errorf(ErrorCacheIsNil, cacheKey)
	}
	if len(cacheKey) < 1 {
		return fmt.Errorf(ErrorCacheKeyNotInvalid, cache.cacheName)
	}
	if err := cache.db.Put([]byte(cacheKey), value); err != nil {
		return fmt.Errorf(ErrorCacheStore, cache.cacheName, cacheKey, err)
	}
	return nil
}

// Sync
// flush cache data on disk
func (cache *diskCache) Sync() int {
	if cache.db != nil {
		if cache.db.Sync() == nil {
			return int(cache.db.Count())
		}
	}
	return -1
}

// Count
// returns cached item count
func (cache *diskCache) Count() int {
	if cache.db != nil {
		return int(cache.db.Count())
	}
	return -1
}

// GetItem
// returns item value as byte array, nil when the key is absent
func (cache *diskCache) GetItem(cacheKey string) ([]byte, error) {
	if cache.db == nil {
		return nil, fmt.Errorf(ErrorCacheIsNil, cache.cacheName)
	}
	if cacheKey == view.EmptyString {
		return nil, fmt.Errorf(ErrorCacheKeyNotInvalid, cache.cacheName)
	}
	return cache.db.Get([]byte(cacheKey))
}

// GetItemAsString
// returns item value as string
func (cache *diskCache) GetItemAsString(cacheKey string) (string, error) {
	val, err := cache.GetItem(cacheKey)
	if err == nil && val != nil {
		return string(val), err
	}
	return view.EmptyString, err
}

func (cache *diskCache) Path() string {
	return cache.cacheDir
}

// Close
// dispose cache, files of a non persistent cache are removed
func (cache *diskCache) Close() error {
	if cache.db == nil {
		return fmt.Errorf(ErrorCacheIsNil, cache.cacheName)
	}
	recCnt := cache.db.Count()
	if err := cache.db.Close(); err != nil {
		return err
	}
	log.Debugf("Cache %s closed (%d)", cache.cacheName, recCnt)
	cache.db = nil
	if cache.persistent {
		return nil
	}
	_, err := os.Stat(cache.cacheDir)
	if err == nil {
		if err = os.RemoveAll(cache.cacheDir); err != nil {
			return fmt.Errorf("unable to delete cache files at '%s'. Error: %v", cache.cacheDir, err)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cache path does not exist '%s'. Error: %v", cache.cacheDir, err)
	}
	return nil
}

// NilIteratorError
// returns specific error for comparison
func (cache *diskCache) NilIteratorError() error {
	return cache.nilIteratorError
}
