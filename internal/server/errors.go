package server

import (
	"errors"
	"net/http"

	"github.com/vegasq/insight/dataset"
	"github.com/vegasq/insight/query"
)

// Error kinds reported in the "kind" field of error responses.
const (
	kindMalformedQuery = "malformed_query"
	kindInvalidQuery   = "invalid_query"
	kindUnknownDataset = "unknown_dataset"
	kindTooLarge       = "result_too_large"
	kindInvalidDataset = "invalid_dataset"
	kindNotFound       = "not_found"
	kindBodyTooLarge   = "body_too_large"
	kindInternal       = "internal"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// classify maps an error to its HTTP status and response body. Internal
// details are not sent to the client.
func classify(err error) (int, errorResponse) {
	var (
		mq *query.MalformedQueryError
		ve *query.ValidationError
		ud *query.UnknownDatasetError
		tl *query.ResultTooLargeError
		mb *http.MaxBytesError
	)
	switch {
	case errors.As(err, &mq):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindMalformedQuery}
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindInvalidQuery, Reason: string(ve.Reason)}
	case errors.As(err, &ud):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindUnknownDataset}
	case errors.As(err, &tl):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindTooLarge}
	case errors.As(err, &mb):
		return http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Kind: kindBodyTooLarge}
	case errors.Is(err, dataset.ErrDatasetNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error(), Kind: kindNotFound}
	case errors.Is(err, dataset.ErrInvalidID),
		errors.Is(err, dataset.ErrUnknownKind),
		errors.Is(err, dataset.ErrDatasetExists),
		errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, dataset.ErrIncompatibleFile),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindInvalidDataset}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: kindInternal}
	}
}

// errBadBody marks request bodies that could not be decoded.
var errBadBody = errors.New("invalid request body")
