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

package cloud_storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/utils"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

type CloudStorage interface {
	// StoreFile queues a file for upload, the file itself is left in place
	StoreFile(fileName string)
	// Close waits for queued uploads and reports the last failure
	Close() error
}

type Request struct {
	FilePath string
}

type cloudStorage struct {
	inputQueue         chan Request
	done               chan struct{}
	lock               sync.Mutex
	lastError          error
	storageCredentials entities.MinioStorageCreds
	minioClient        *minioClient
}

type minioClient struct {
	client *minio.Client
	error  error
}

const BreakTheLoop = "BREAK!"
const UploadAttempts = 3

// mustGetSystemCertPool
// acquires certification pool
func mustGetSystemCertPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return x509.NewCertPool()
	}
	return pool
}

// createMinioClient
// creates minio instance
func createMinioClient(minioCredentials *entities.MinioStorageCreds) *minioClient {
	if !minioCredentials.IsActive {
		return nil // inactive storage does not require full fledged client
	}
	client := new(minioClient)
	tr, err := minio.DefaultTransport(true)
	if err != nil {
		log.Warnf("error creating the minio connection: error creating the default transport layer: %v", err)
		client.error = err
		return client
	}
	rootCAs := mustGetSystemCertPool()
	if minioCredentials.Crt != view.EmptyString {
		pem, err := base64.StdEncoding.DecodeString(minioCredentials.Crt)
		if err != nil {
			log.Warnf("unable to decode storage certificate. Error: %v", err)
			client.error = err
			return client
		}
		rootCAs.AppendCertsFromPEM(pem)
	}
	tr.TLSClientConfig.RootCAs = rootCAs

	mc, err := minio.New(minioCredentials.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(minioCredentials.AccessKeyId, minioCredentials.SecretAccessKey, ""),
		Secure:    true,
		Transport: tr,
	})
	if err != nil {
		log.Warn(err.Error())
		client.error = err
		return client
	}
	log.Infof("MINIO instance initialized")
	client.client = mc
	return client
}

// NewCloudStorage
// creates interface instance and starts the upload worker
func NewCloudStorage(minioCredentials entities.MinioStorageCreds) CloudStorage {
	ret := &cloudStorage{
		inputQueue:         make(chan Request),
		done:               make(chan struct{}),
		storageCredentials: minioCredentials,
		minioClient:        createMinioClient(&minioCredentials),
	}
	utils.SafeAsync(func() {
		defer close(ret.done)
		storeProcedure(ret, ret.inputQueue)
	})
	return ret
}

// compressFile
// writes a gzip copy next to the input file
func compressFile(filePath string) (string, error) {
	outputFileName := filePath + view.GzipSuffix
	inputFile, err := os.Open(filePath)
	if err != nil {
		log.Warnf("unable to open file '%s' to compress it. Error: %v", filePath, err)
		return filePath, err
	}
	defer inputFile.Close()
	outputFile, err := os.Create(outputFileName)
	if err != nil {
		log.Warnf("unable to create compressed file '%s'. Error: %v", outputFileName, err)
		return filePath, err
	}
	wz := gzip.NewWriter(outputFile)
	wz.Name = filepath.Base(filePath) // set filename in archive metadata
	_, err = io.Copy(wz, inputFile)
	if cerr := wz.Close(); err == nil {
		err = cerr
	}
	if cerr := outputFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Errorf("unable to compress file '%s'. Error: %v", filePath, err)
		if rerr := os.Remove(outputFileName); rerr != nil {
			log.Errorf("unable to remove incomplete compressed file '%s'. Error: %v", outputFileName, rerr)
		}
		return filePath, err
	}
	return outputFileName, nil
}

func (s3 *cloudStorage) setError(err error) {
	s3.lock.Lock()
	defer s3.lock.Unlock()
	s3.lastError = err
}

// storeProcedure
// goroutine to serve file storing
func storeProcedure(s3 *cloudStorage, inputQueue chan Request) {
	for {
		req := <-inputQueue
		if req.FilePath == view.EmptyString {
			continue
		}
		if req.FilePath == BreakTheLoop {
			break
		}
		if !s3.storageCredentials.IsActive {
			log.Printf("storage inactive. do not store file %s", req.FilePath)
			continue
		}
		if s3.minioClient == nil || s3.minioClient.client == nil {
			s3.setError(uploadError(req.FilePath, s3.minioClient))
			continue
		}
		uploadPath := req.FilePath
		if s3.storageCredentials.CompressBeforeUpload && !strings.HasSuffix(req.FilePath, view.GzipSuffix) {
			compressed, err := compressFile(req.FilePath)
			if err != nil {
				s3.setError(err)
				continue
			}
			uploadPath = compressed
		}
		// let's make a couple attempts to store file
		var err error
		for i := 0; i < UploadAttempts; i++ {
			if err = s3.uploadOnce(uploadPath); err == nil {
				break
			}
			log.Errorf("unable to store file '%s' (attempt %d). Error: %v", uploadPath, i+1, err)
		}
		if err != nil {
			s3.setError(err)
		}
		if uploadPath != req.FilePath {
			if err := os.Remove(uploadPath); err != nil {
				log.Warnf("unable to delete compressed file %s. Error: %v", uploadPath, err)
			}
		}
	}
}

func uploadError(fileName string, client *minioClient) error {
	ce := &exception.CustomError{
		Code:    exception.UploadFailure,
		Message: exception.UploadFailureMsg,
		Params:  map[string]interface{}{"file": fileName},
		Debug:   "storage client is not initialized",
	}
	if client != nil && client.error != nil {
		ce.Debug = client.error.Error()
	}
	return ce
}

func (s3 *cloudStorage) uploadOnce(filePath string) error {
	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err = s3.createBucketIfNotExists(ctx); err != nil {
		return fmt.Errorf("unable to acquire bucket. Error: %v", err)
	}
	if err = s3.UploadFile(ctx, view.StorageFolderName, filepath.Base(filePath), fileBytes); err != nil {
		return err
	}
	log.Printf("stored %d byte(s) from file '%s' in s3/minio", len(fileBytes), filePath)
	return nil
}

func bucketExists(ctx context.Context, minioClient *minio.Client, bucketName string) (bool, error) {
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func buildFileName(folderName, entityId string) string {
	return fmt.Sprintf("%s/%s", folderName, entityId)
}

// StoreFile
// function to receive file store requests
func (s3 *cloudStorage) StoreFile(fileName string) {
	s3.inputQueue <- Request{FilePath: fileName}
	log.Debugf("requested to store file: %s", fileName)
}

func (s3 *cloudStorage) Close() error {
	s3.inputQueue <- Request{FilePath: BreakTheLoop}
	<-s3.done
	s3.lock.Lock()
	defer s3.lock.Unlock()
	return s3.lastError
}

func (s3 *cloudStorage) createBucketIfNotExists(ctx context.Context) error {
	exists, err := bucketExists(ctx, s3.minioClient.client, s3.storageCredentials.BucketName)
	if err != nil {
		return err
	}
	if exists {
		log.Debugf("Using S3/Minio bucket '%s'", s3.storageCredentials.BucketName)
		return nil
	}
	err = s3.minioClient.client.MakeBucket(ctx, s3.storageCredentials.BucketName, minio.MakeBucketOptions{})
	if err != nil {
		return err
	}
	log.Debugf("S3/Minio bucket '%s' has been created", s3.storageCredentials.BucketName)
	return nil
}

func (s3 *cloudStorage) UploadFile(ctx context.Context, folderName, entityId string, content []byte) error {
	_, err := s3.minioClient.client.PutObject(ctx, s3.storageCredentials.BucketName, buildFileName(folderName, entityId),
		bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{})
	return err
}
