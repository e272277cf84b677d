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
	"path/filepath"
	"testing"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/db"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCacheDeduplicates(t *testing.T) {
	conn, err := db.MakeConnection(db.ConnAttrs{Driver: db.DriverSqlite, DbName: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.InitSchema())

	cache := NewPayloadCache(conn)
	first, err := cache.GetPayloadId([]byte("GET /"))
	require.NoError(t, err)
	second, err := cache.GetPayloadId([]byte("GET /"))
	require.NoError(t, err)
	other, err := cache.GetPayloadId([]byte("POST /"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, entities.ComputePayloadId([]byte("GET /")), first)
	assert.NotEqual(t, first, other)
	assert.Equal(t, 2, cache.StoredCount())

	// a fresh cache finds the row already present
	again, err := NewPayloadCache(conn).GetPayloadId([]byte("GET /"))
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
