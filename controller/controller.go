package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stonefab/block-validation-service/exception"
	log "github.com/sirupsen/logrus"
)

func getStringParam(r *http.Request, p string) string {
	params := mux.Vars(r)
	return params[p]
}

func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, msg string, err error) {
	log.Errorf("%s: %s", msg, err)
	if customError, ok := err.(*exception.CustomError); ok {
		RespondWithCustomError(w, customError)
	} else {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Message: msg,
			Debug:   err.Error(),
		})
	}
}

func RespondWithCustomError(w http.ResponseWriter, err *exception.CustomError) {
	if err.Status == http.StatusInternalServerError {
		log.Errorf("Internal server error: %s, debug: %s", err.Message, err.Debug)
	}
	respondWithJson(w, err.Status, err)
}
