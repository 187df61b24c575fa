package services

import (
	"encoding/json"
	"net/http"

	"github.com/EO-DataHub/eodhp-group-services/models"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// API responses are never cached
	w.Header().Set("Cache-Control", "max-age=0")

	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes the error envelope for statusCode.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	code := models.ErrCodeInternal
	switch statusCode {
	case http.StatusBadRequest:
		code = models.ErrCodeBadRequest
	case http.StatusNotFound:
		code = models.ErrCodeNotFound
	}

	WriteResponse(w, statusCode, models.Response{
		Success:      0,
		ErrorCode:    code,
		ErrorDetails: err.Error(),
	})
}

// HandleSuccessResponse writes response with any extra headers set first.
func HandleSuccessResponse(w http.ResponseWriter, statusCode int, headers map[string]string, response models.Response, location string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	WriteResponse(w, statusCode, response, location)
}
