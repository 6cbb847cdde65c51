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

package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BackupStorageService stores encrypted backup artifacts. Artifacts are
// immutable, an object is either fully present or absent.
type BackupStorageService interface {
	StoreArtifact(ctx context.Context, filename string, data []byte) error
	GetArtifact(ctx context.Context, filename string) ([]byte, error)
	DeleteArtifact(ctx context.Context, filename string) error
}

func NewBackupStorageService(backupConfig config.BackupConfig, s3Config config.S3Config) (BackupStorageService, error) {
	if s3Config.Enabled {
		client, err := makeMinioClient(s3Config)
		if err != nil {
			return nil, err
		}
		log.Infof("Backup artifacts will be stored in bucket '%s'", s3Config.BucketName)
		return &minioBackupStorageImpl{client: client, bucketName: s3Config.BucketName}, nil
	}
	if err := os.MkdirAll(backupConfig.Directory, 0750); err != nil {
		return nil, errors.Wrapf(err, "failed to create backup directory %s", backupConfig.Directory)
	}
	log.Infof("Backup artifacts will be stored in directory '%s'", backupConfig.Directory)
	return &fileSystemBackupStorageImpl{directory: backupConfig.Directory}, nil
}

func makeMinioClient(s3Config config.S3Config) (*minio.Client, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(s3Config.Url, "https://"), "http://")
	options := &minio.Options{
		Creds:  credentials.NewStaticV4(s3Config.AccessKeyId, s3Config.SecretAccessKey, ""),
		Secure: strings.HasPrefix(s3Config.Url, "https://"),
	}
	if s3Config.Crt != "" {
		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM([]byte(s3Config.Crt)) {
			return nil, errors.New("failed to parse s3 storage certificate")
		}
		options.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: certPool},
		}
	}
	client, err := minio.New(endpoint, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create s3 storage client")
	}
	return client, nil
}

type minioBackupStorageImpl struct {
	client     *minio.Client
	bucketName string
}

func (m minioBackupStorageImpl) StoreArtifact(ctx context.Context, filename string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucketName, filename,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return errors.Wrapf(err, "failed to store artifact %s", filename)
	}
	return nil
}

func (m minioBackupStorageImpl) GetArtifact(ctx context.Context, filename string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.bucketName, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get artifact %s", filename)
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", filename)
	}
	return data, nil
}

func (m minioBackupStorageImpl) DeleteArtifact(ctx context.Context, filename string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, filename, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to delete artifact %s", filename)
	}
	return nil
}

type fileSystemBackupStorageImpl struct {
	directory string
}

func (f fileSystemBackupStorageImpl) StoreArtifact(ctx context.Context, filename string, data []byte) error {
	target := filepath.Join(f.directory, filename)
	// write to a temp file first so a partially written artifact is never visible
	tmp, err := os.CreateTemp(f.directory, filename+".tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for artifact %s", filename)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to write artifact %s", filename)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close artifact %s", filename)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to publish artifact %s", filename)
	}
	return nil
}

func (f fileSystemBackupStorageImpl) GetArtifact(ctx context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.directory, filename))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", filename)
	}
	return data, nil
}

func (f fileSystemBackupStorageImpl) DeleteArtifact(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(f.directory, filename))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete artifact %s", filename)
	}
	return nil
}
