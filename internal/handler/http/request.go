package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. An empty body leaves dst as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// queryString returns a pointer to the query value, or nil when absent.
func queryString(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// queryInt parses an integer query value. Absent values yield 0.
func queryInt(r *http.Request, key string, errs *validator.ValidationErrors) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		errs.Add(key, key+" must be a number")
		return 0
	}
	return n
}
