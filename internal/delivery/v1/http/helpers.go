package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// badRequestErrors отдаются клиенту как есть с кодом 400.
var badRequestErrors = []error{
	e.ErrInvalidJSON,
	e.ErrExpectedMultipart,
	e.ErrMissingFields,
	e.ErrCategoryNameRequired,
	e.ErrInvalidSlug,
	e.ErrCategoryCycle,
	e.ErrEmptyReorder,
	e.ErrDuplicateReorderID,
	e.ErrNoImages,
	e.ErrTooManyImages,
	e.ErrFileTooLarge,
	e.ErrUnsupportedMediaType,
	e.ErrParentCategoryMissing,
	e.ErrStatusBadRequest,
}

func ToHTTPResponse(err error) (int, string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	switch {
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error()
	case errors.Is(err, e.ErrSlugTaken):
		return http.StatusConflict, e.ErrSlugTaken.Error()
	case errors.Is(err, e.ErrCategoryHasChildren):
		return http.StatusConflict, e.ErrCategoryHasChildren.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля запрещены.
func decodeJSON(r *http.Request, dst any) error {
	const maxBodySize = 1 << 20

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}

	return nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return nil
}

// parseImage достаёт единственный файл изображения из поля image.
func parseImage(files []*multipart.FileHeader, maxFileSize int64) (*usecase.CategoryImage, error) {
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > 1 {
		return nil, e.ErrTooManyImages
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, e.ErrNoImages
	}

	return usecase.NewCategoryImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
