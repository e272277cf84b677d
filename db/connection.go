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

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

type Driver string

const (
	DriverSqlite   Driver = "sqlite3"
	DriverPostgres Driver = "postgres"
)

type ConnAttrs struct {
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
	Driver   Driver
	Schema   string
}

func AttrsFromConfig(config entities.DbSinkConfig) ConnAttrs {
	return ConnAttrs{
		Host:     config.Host,
		Port:     config.Port,
		User:     config.User,
		Password: config.Password,
		DbName:   config.DbName,
		Driver:   Driver(config.Driver),
		Schema:   config.Schema,
	}
}

type Connection interface {
	GetPrepareStatement(stmtSQL string) (*sql.Stmt, error)
	GetScalarValue(sqlStmt string, params []interface{}) (interface{}, error)
	Execute(sqlStmt string, params []interface{}) error
	InitSchema() error
	StoreCapture(runId string, fileName string, header entities.CaptureFileHeader) error
	StorePayloadBody(payloadId string, body []byte) (bool, error)
	StoreRecord(runId string, rec entities.ExtractedRecord, payloadId string) error
	GetRecordCount(runId string) (int, error)
	Close() error
}
type connection struct {
	db         *sql.DB
	driver     Driver
	statements map[string]*sql.Stmt
}

func MakeConnection(conn ConnAttrs) (Connection, error) {
	var connectionString string
	switch conn.Driver {
	case DriverSqlite:
		connectionString = fmt.Sprintf("file:%s", conn.DbName)
	case DriverPostgres:
		connectionString = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			conn.Host, conn.Port, conn.User, conn.Password, conn.DbName)
		if conn.Schema != "" {
			connectionString += " search_path=" + conn.Schema
		}
	default:
		return nil, fmt.Errorf("driver %s not supported", conn.Driver)
	}
	db, err := sql.Open(string(conn.Driver), connectionString)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database %s. Error: %v", conn.Driver, conn.DbName, err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to %s database %s. Error: %v", conn.Driver, conn.DbName, err)
	}
	return &connection{
		db:         db,
		driver:     conn.Driver,
		statements: make(map[string]*sql.Stmt),
	}, nil
}

func (pg *connection) GetPrepareStatement(stmtSQL string) (*sql.Stmt, error) {
	if val, ok := pg.statements[stmtSQL]; ok {
		return val, nil
	}
	stmt, err := pg.db.Prepare(stmtSQL)
	if err == nil {
		pg.statements[stmtSQL] = stmt
	}
	return stmt, err
}

func (pg *connection) GetScalarValue(sqlStmt string, params []interface{}) (interface{}, error) {
	stmt, err := pg.GetPrepareStatement(sqlStmt)
	if err != nil {
		return -1, err
	}
	var id interface{}
	err = stmt.QueryRow(params...).Scan(&id)
	return id, err
}

func (pg *connection) Execute(sqlStmt string, params []interface{}) error {
	stmt, err := pg.GetPrepareStatement(sqlStmt)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(params...)
	return err
}

func (pg *connection) blobType() string {
	if pg.driver == DriverPostgres {
		return "BYTEA"
	}
	return "BLOB"
}

func (pg *connection) InitSchema() error {
	ddl := []string{
		"CREATE TABLE IF NOT EXISTS Captures(Run_Id TEXT PRIMARY KEY, File_Name TEXT NOT NULL, Link_Type INTEGER, Snap_Len INTEGER, Created_At BIGINT)",
		"CREATE TABLE IF NOT EXISTS Payload_bodies(Payload_Id TEXT PRIMARY KEY, Body " + pg.blobType() + ", Length INTEGER)",
		"CREATE TABLE IF NOT EXISTS Records(Run_Id TEXT NOT NULL, Record_Index INTEGER NOT NULL, Record_Offset BIGINT, Captured_Length INTEGER, " +
			"Classification TEXT, Ether_Type INTEGER, Ip_Protocol INTEGER, Payload_Id TEXT, Truncated INTEGER, PRIMARY KEY(Run_Id, Record_Index))",
	}
	for _, stmt := range ddl {
		if _, err := pg.db.Exec(stmt); err != nil {
			return fmt.Errorf("unable to create schema: %s. Error: %v", strings.SplitN(stmt, "(", 2)[0], err)
		}
	}
	return nil
}

func (pg *connection) StoreCapture(runId string, fileName string, header entities.CaptureFileHeader) error {
	params := []interface{}{runId, fileName, int64(header.LinkType), int64(header.SnapLen), time.Now().Unix()}
	err := pg.Execute("INSERT INTO Captures(Run_Id, File_Name, Link_Type, Snap_Len, Created_At) VALUES($1, $2, $3, $4, $5)", params)
	if err == nil {
		log.Debugf("Inserted capture. run %v, file %v", runId, fileName)
	}
	return err
}

// StorePayloadBody
// select then insert, reports whether a new row was written
func (pg *connection) StorePayloadBody(payloadId string, body []byte) (bool, error) {
	params := []interface{}{payloadId}
	_, err := pg.GetScalarValue("SELECT Length FROM Payload_bodies where Payload_Id=$1", params)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	params = append(params, body, len(body))
	err = pg.Execute("INSERT INTO Payload_bodies(Payload_Id, Body, Length) VALUES($1, $2, $3)", params)
	if err != nil {
		return false, err
	}
	log.Tracef("Inserted payload body. id %v, length %v", payloadId, len(body))
	return true, nil
}

func (pg *connection) StoreRecord(runId string, rec entities.ExtractedRecord, payloadId string) error {
	truncated := 0
	if rec.Truncated {
		truncated = 1
	}
	var id interface{}
	if payloadId != "" {
		id = payloadId
	}
	params := []interface{}{
		runId,
		rec.Record.Index,
		int64(rec.Record.Offset),
		rec.Record.CapturedLength,
		rec.Frame.Classification.String(),
		int(rec.Frame.EtherType),
		int(rec.Frame.IPProtocol),
		id,
		truncated,
	}
	return pg.Execute("INSERT INTO Records(Run_Id, Record_Index, Record_Offset, Captured_Length, Classification, Ether_Type, Ip_Protocol, Payload_Id, Truncated) "+
		"VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)", params)
}

func (pg *connection) GetRecordCount(runId string) (int, error) {
	idv, err := pg.GetScalarValue("SELECT count(Record_Index) FROM Records where Run_Id=$1", []interface{}{runId})
	if err != nil {
		return -1, err
	}
	return VarToInt(idv)
}

func (pg *connection) Close() error {
	for stmtSQL, stmt := range pg.statements {
		if err := stmt.Close(); err != nil {
			log.Warnf("unable to close statement '%s'. Error: %v", stmtSQL, err)
		}
	}
	pg.statements = make(map[string]*sql.Stmt)
	return pg.db.Close()
}

func VarToInt(idv interface{}) (int, error) {
	s1 := fmt.Sprintf("%v", idv)
	s2, err := strconv.Atoi(s1)
	if err != nil {
		log.Errorf("unable to convert returned value '%v' to int: %v", idv, err)
		return -2, err
	}
	return s2, nil
}
