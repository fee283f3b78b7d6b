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

package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stonefab/block-validation-service/exception"
	"github.com/stonefab/block-validation-service/service"
	"github.com/stonefab/block-validation-service/view"
)

type UploadController interface {
	GenerateUploadUrl(w http.ResponseWriter, r *http.Request)
	ConfirmUpload(w http.ResponseWriter, r *http.Request)
}

func NewUploadController(uploadService service.UploadService) UploadController {
	return &uploadControllerImpl{uploadService: uploadService}
}

type uploadControllerImpl struct {
	uploadService service.UploadService
}

func (u *uploadControllerImpl) GenerateUploadUrl(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req view.UploadUrlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "filename"},
		})
		return
	}

	result, err := u.uploadService.GenerateUploadUrl(r.Context(), req.Filename)
	if err != nil {
		respondWithError(w, "Failed to generate upload URL", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (u *uploadControllerImpl) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req view.ConfirmUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	missing := make([]string, 0)
	if strings.TrimSpace(req.FileId) == "" {
		missing = append(missing, "fileId")
	}
	if strings.TrimSpace(req.FileKey) == "" {
		missing = append(missing, "fileKey")
	}
	if strings.TrimSpace(req.Filename) == "" {
		missing = append(missing, "filename")
	}
	if len(missing) > 0 {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": strings.Join(missing, ", ")},
		})
		return
	}

	result, err := u.uploadService.ConfirmUpload(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to confirm upload", err)
		return
	}
	respondWithJson(w, http.StatusCreated, result)
}
