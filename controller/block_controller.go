package controller

import (
	"net/http"

	"github.com/stonefab/block-validation-service/exception"
	"github.com/stonefab/block-validation-service/service"
)

type BlockController interface {
	GetBlock(w http.ResponseWriter, r *http.Request)
	GetValidationReport(w http.ResponseWriter, r *http.Request)
}

func NewBlockController(blockService service.BlockService, reportService service.ValidationReportService) BlockController {
	return &blockControllerImpl{blockService: blockService, reportService: reportService}
}

type blockControllerImpl struct {
	blockService  service.BlockService
	reportService service.ValidationReportService
}

func (b blockControllerImpl) GetBlock(w http.ResponseWriter, r *http.Request) {
	blockId := getStringParam(r, "blockId")

	result, err := b.blockService.GetBlock(r.Context(), blockId)
	if err != nil {
		respondWithError(w, "Failed to get block", err)
		return
	}
	if result == nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Block", "id": blockId},
		})
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (b blockControllerImpl) GetValidationReport(w http.ResponseWriter, r *http.Request) {
	blockId := getStringParam(r, "blockId")

	result, err := b.reportService.GetReport(r.Context(), blockId)
	if err != nil {
		respondWithError(w, "Failed to get validation report", err)
		return
	}
	if result == nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Validation report for block", "id": blockId},
		})
		return
	}
	respondWithJson(w, http.StatusOK, result)
}
