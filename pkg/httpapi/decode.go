package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// DefaultMaxBodySize limits request bodies read for validation.
const DefaultMaxBodySize int64 = 1 << 20

// Decode reads the request body into a field map. JSON bodies must be a
// single object. Form fields with one value become strings and repeated
// fields become lists of strings.
func Decode(w http.ResponseWriter, r *http.Request, limit int64) (map[string]any, error) {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, ErrMissingContentType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)

	switch mediaType {
	case "application/json":
		return decodeJSON(r.Body)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, formError(err)
		}
		return formValues(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, formError(err)
		}
		return formValues(r.MultipartForm.Value), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
}

func decodeJSON(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
	}

	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("%w: %v", ErrInvalidForm, err)
}

func formValues(values url.Values) map[string]any {
	data := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			data[key] = vals[0]
		default:
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			data[key] = list
		}
	}
	return data
}
