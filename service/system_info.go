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
	"fmt"
	"os"
	"strconv"

	"github.com/stonefab/block-validation-service/client"
	"github.com/stonefab/block-validation-service/db"
	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS   = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED   = "ORIGIN_ALLOWED"
	LOG_LEVEL        = "LOG_LEVEL"
	EXECUTOR_ID      = "EXECUTOR_ID"
	NOTIFICATION_URL = "NOTIFICATION_URL"

	PG_HOST     = "PG_HOST"
	PG_PORT     = "PG_PORT"
	PG_DB       = "PG_DB"
	PG_USER     = "PG_USER"
	PG_PASSWORD = "PG_PASSWORD"

	S3_ENDPOINT   = "S3_ENDPOINT"
	S3_REGION     = "S3_REGION"
	S3_ACCESS_KEY = "S3_ACCESS_KEY"
	S3_SECRET_KEY = "S3_SECRET_KEY"
	S3_BUCKET     = "S3_BUCKET"
	S3_USE_SSL    = "S3_USE_SSL"
)

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetExecutorId() string
	GetNotificationUrl() string
	GetDBCredentials() *db.Credentials
	GetStorageConfig() client.StorageConfig
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setListenAddress()
	g.setOriginAllowed()
	g.setLogLevel()
	g.setExecutorId()
	g.setNotificationUrl()
	if err := g.setDBCredentials(); err != nil {
		return err
	}
	if err := g.setStorageConfig(); err != nil {
		return err
	}
	return nil
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddr := os.Getenv(LISTEN_ADDRESS)
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddr
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	g.systemInfoMap[LOG_LEVEL] = os.Getenv(LOG_LEVEL)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) setExecutorId() {
	executorId := os.Getenv(EXECUTOR_ID)
	if executorId == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "unknown-worker"
		}
		executorId = hostname
	}
	g.systemInfoMap[EXECUTOR_ID] = executorId
}

func (g systemInfoServiceImpl) GetExecutorId() string {
	return g.systemInfoMap[EXECUTOR_ID].(string)
}

func (g systemInfoServiceImpl) setNotificationUrl() {
	g.systemInfoMap[NOTIFICATION_URL] = os.Getenv(NOTIFICATION_URL)
}

func (g systemInfoServiceImpl) GetNotificationUrl() string {
	return g.systemInfoMap[NOTIFICATION_URL].(string)
}

func (g systemInfoServiceImpl) setDBCredentials() error {
	host := os.Getenv(PG_HOST)
	if host == "" {
		host = "localhost"
	}
	port := 5432
	if portStr := os.Getenv(PG_PORT); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid %s value: %s", PG_PORT, portStr)
		}
		port = p
	}
	database := os.Getenv(PG_DB)
	username := os.Getenv(PG_USER)
	password := os.Getenv(PG_PASSWORD)
	if database == "" || username == "" {
		return fmt.Errorf("%s and %s environment variables are required", PG_DB, PG_USER)
	}
	g.systemInfoMap[PG_HOST] = &db.Credentials{
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	}
	return nil
}

func (g systemInfoServiceImpl) GetDBCredentials() *db.Credentials {
	return g.systemInfoMap[PG_HOST].(*db.Credentials)
}

func (g systemInfoServiceImpl) setStorageConfig() error {
	endpoint := os.Getenv(S3_ENDPOINT)
	if endpoint == "" {
		return fmt.Errorf("%s environment variable is required", S3_ENDPOINT)
	}
	useSSL := false
	if v := os.Getenv(S3_USE_SSL); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %s", S3_USE_SSL, v)
		}
		useSSL = b
	}
	bucket := os.Getenv(S3_BUCKET)
	if bucket == "" {
		bucket = "raw-uploads"
	}
	g.systemInfoMap[S3_ENDPOINT] = client.StorageConfig{
		Endpoint:  endpoint,
		Region:    os.Getenv(S3_REGION),
		AccessKey: os.Getenv(S3_ACCESS_KEY),
		SecretKey: os.Getenv(S3_SECRET_KEY),
		Bucket:    bucket,
		UseSSL:    useSSL,
	}
	return nil
}

func (g systemInfoServiceImpl) GetStorageConfig() client.StorageConfig {
	return g.systemInfoMap[S3_ENDPOINT].(client.StorageConfig)
}
