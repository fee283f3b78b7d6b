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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/stonefab/block-validation-service/client"
	"github.com/stonefab/block-validation-service/controller"
	"github.com/stonefab/block-validation-service/db"
	"github.com/stonefab/block-validation-service/repository"
	"github.com/stonefab/block-validation-service/rhino"
	"github.com/stonefab/block-validation-service/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	if level, err := log.ParseLevel(systemInfoService.GetLogLevel()); err == nil {
		log.SetLevel(level)
	}

	connectionProvider := db.NewConnectionProvider(systemInfoService.GetDBCredentials())
	defer connectionProvider.Stop()

	storageClient, err := client.NewFileStorageClient(systemInfoService.GetStorageConfig())
	if err != nil {
		panic(err)
	}
	notificationClient := client.NewNotificationClient(systemInfoService.GetNotificationUrl())

	rhinoLibrary, err := rhino.OpenLibrary()
	if err != nil {
		// The parser fails closed per file; the service still serves uploads
		// and previously persisted reports
		log.Warnf("3dm reader unavailable, parse attempts will fail: %v", err)
	}

	blockRepository := repository.NewBlockRepository(connectionProvider)
	taskRepository := repository.NewValidationTaskRepository(connectionProvider)

	userStringExtractor := service.NewUserStringExtractor()
	rhinoParserService := service.NewRhinoParserService(rhinoLibrary, userStringExtractor)
	nomenclatureValidator := service.NewNomenclatureValidator()
	geometryValidator := service.NewGeometryValidator()
	reportService := service.NewValidationReportService(blockRepository)
	blockService := service.NewBlockService(blockRepository)
	uploadService := service.NewUploadService(storageClient, blockRepository, taskRepository)

	executorId := systemInfoService.GetExecutorId()
	taskProcessor := service.NewBlockTaskProcessor(taskRepository, blockRepository, reportService,
		rhinoParserService, nomenclatureValidator, geometryValidator, storageClient, notificationClient, executorId)
	taskProcessor.Start()

	uploadController := controller.NewUploadController(uploadService)
	blockController := controller.NewBlockController(blockService, reportService)
	healthController := controller.NewHealthController(readyChan)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/upload/url", uploadController.GenerateUploadUrl).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/upload/confirm", uploadController.ConfirmUpload).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/blocks/{blockId}", blockController.GetBlock).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/blocks/{blockId}/report", blockController.GetValidationReport).Methods(http.MethodGet)

	router.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
