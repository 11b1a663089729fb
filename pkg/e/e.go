package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrInvalidJSON           = fmt.Errorf("invalid json body")
	ErrExpectedMultipart     = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields         = fmt.Errorf("missing required fields")
	ErrCategoryNameRequired  = fmt.Errorf("category name is required")
	ErrInvalidSlug           = fmt.Errorf("invalid slug")
	ErrCategoryCycle         = fmt.Errorf("category cannot be moved under itself or its descendant")
	ErrEmptyReorder          = fmt.Errorf("reorder list is empty")
	ErrDuplicateReorderID    = fmt.Errorf("duplicate category id in reorder list")
	ErrNoImages              = fmt.Errorf("no images provided")
	ErrTooManyImages         = fmt.Errorf("too many images")
	ErrFileTooLarge          = fmt.Errorf("file too large")
	ErrUnsupportedMediaType  = fmt.Errorf("unsupported media type")
	ErrParentCategoryMissing = fmt.Errorf("parent category not found")

	// 404 Not Found
	ErrCategoryNotFound = fmt.Errorf("category not found")

	// 409 Conflict
	ErrSlugTaken           = fmt.Errorf("slug already taken")
	ErrCategoryHasChildren = fmt.Errorf("category has child categories")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
