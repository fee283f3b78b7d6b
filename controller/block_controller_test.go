package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stonefab/block-validation-service/exception"
	"github.com/stonefab/block-validation-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlockService struct {
	blocks map[string]*view.Block
}

func (f *fakeBlockService) GetBlock(ctx context.Context, blockId string) (*view.Block, error) {
	return f.blocks[blockId], nil
}

type fakeReportService struct {
	reports map[string]*view.ValidationReport
}

func (f *fakeReportService) CreateReport(errors []view.ValidationErrorItem, metadata map[string]interface{}, validatedBy string) view.ValidationReport {
	return view.ValidationReport{}
}

func (f *fakeReportService) SaveReport(ctx context.Context, blockId string, report view.ValidationReport) error {
	return nil
}

func (f *fakeReportService) GetReport(ctx context.Context, blockId string) (*view.ValidationReport, error) {
	return f.reports[blockId], nil
}

func blockRouter(ctrl BlockController) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/blocks/{blockId}", ctrl.GetBlock).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/blocks/{blockId}/report", ctrl.GetValidationReport).Methods(http.MethodGet)
	return r
}

func TestGetBlockEndpoint(t *testing.T) {
	blockService := &fakeBlockService{blocks: map[string]*view.Block{
		"block-1": {
			Id:       "block-1",
			FileKey:  "uploads/block-1/model.3dm",
			FileName: "model.3dm",
			Status:   view.BlockStatusValidated,
		},
	}}
	router := blockRouter(NewBlockController(blockService, &fakeReportService{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/blocks/block-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp view.Block
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "block-1", resp.Id)
	assert.Equal(t, view.BlockStatusValidated, resp.Status)
}

func TestGetBlockEndpointNotFound(t *testing.T) {
	router := blockRouter(NewBlockController(&fakeBlockService{blocks: map[string]*view.Block{}}, &fakeReportService{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/blocks/ghost", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var customError exception.CustomError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customError))
	assert.Equal(t, exception.EntityNotFound, customError.Code)
	assert.Equal(t, "ghost", customError.Params["id"])
}

func TestGetValidationReportEndpoint(t *testing.T) {
	reportService := &fakeReportService{reports: map[string]*view.ValidationReport{
		"block-1": {
			IsValid: false,
			Errors: []view.ValidationErrorItem{
				{Category: view.CategoryGeometry, Target: "obj-1", Message: "Geometry is null or missing"},
			},
			Metadata:    map[string]interface{}{},
			ValidatedAt: time.Now().UTC(),
			ValidatedBy: "executor-1",
		},
	}}
	router := blockRouter(NewBlockController(&fakeBlockService{}, reportService))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/blocks/block-1/report", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp view.ValidationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, view.CategoryGeometry, resp.Errors[0].Category)
}

func TestGetValidationReportEndpointNotFound(t *testing.T) {
	router := blockRouter(NewBlockController(&fakeBlockService{}, &fakeReportService{reports: map[string]*view.ValidationReport{}}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/blocks/block-1/report", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}
