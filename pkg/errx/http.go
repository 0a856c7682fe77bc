package errx

import (
	"encoding/json"
	"net/http"
)

// HTTPErrorResponse is the JSON body written for any failed request.
type HTTPErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ToHTTPResponse converts an Error to its wire representation.
func (e *Error) ToHTTPResponse() HTTPErrorResponse {
	return HTTPErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Type:    string(e.Type),
		Details: e.Details,
	}
}

// WriteHTTP writes the error as an HTTP response.
func (e *Error) WriteHTTP(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	json.NewEncoder(w).Encode(e.ToHTTPResponse())
}

// HandleError writes err to w, collapsing non-errx errors into a
// generic internal error so no detail leaks.
func HandleError(w http.ResponseWriter, err error) {
	var customErr *Error
	if As(err, &customErr) {
		customErr.WriteHTTP(w)
		return
	}

	New("internal server error", TypeInternal).WriteHTTP(w)
}
