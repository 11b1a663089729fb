package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-backend/internal/delivery/dto"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
	maxImageSize    int64
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger, maxImageSize int64) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger, maxImageSize: maxImageSize}
}

// listCategories
//
//	@Summary		Плоский список категорий
//	@Tags			categories
//	@Produce		json
//	@Success		200	{array}		dto.CategoryDTO
//	@Failure		500	{object}	ErrorResponse
//	@Router			/categories [get]
func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUsecase.ListCategories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// getTree
//
//	@Summary		Дерево категорий
//	@Description	Лес категорий, отсортированный по order. active=true убирает неактивные категории, поднимая их активных потомков.
//	@Tags			categories
//	@Produce		json
//	@Param			active	query		bool	false	"Только активные категории"
//	@Success		200		{object}	dto.TreeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/categories/tree [get]
func (h *CategoryHandler) getTree(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, e.Wrap("active", e.ErrStatusBadRequest))
			return
		}
		activeOnly = v
	}

	res, err := h.categoryUsecase.GetTree(r.Context(), &usecase.GetTreeReq{ActiveOnly: activeOnly})
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.TreeResponse{
		Version:    res.Version,
		Categories: dto.NodesFromDomain(res.Nodes),
	})
}

// getPath
//
//	@Summary	Хлебные крошки категории
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории"
//	@Success	200	{array}		dto.AncestorDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id}/path [get]
func (h *CategoryHandler) getPath(w http.ResponseWriter, r *http.Request) {
	path, err := h.categoryUsecase.GetPath(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.AncestorsFromDomain(path))
}

// getHoverPath
//
//	@Summary	ID подменю, раскрываемых при наведении
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории"
//	@Success	200	{object}	dto.HoverPathResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id}/hover-path [get]
func (h *CategoryHandler) getHoverPath(w http.ResponseWriter, r *http.Request) {
	ids, err := h.categoryUsecase.GetHoverPath(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.HoverPathResponse{IDs: ids})
}

// createCategory
//
//	@Summary	Создание категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.CreateCategoryRequest	true	"Категория"
//	@Success	201		{object}	dto.CategoryDTO
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/categories [post]
func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateCategoryRequest
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, err)
		return
	}

	created, err := h.categoryUsecase.CreateCategory(r.Context(), body.ToUseCase())
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, dto.CategoryFromDomain(*created))
}

// updateCategory
//
//	@Summary		Изменение категории
//	@Description	Частичное обновление. "parent": null переносит категорию в корень.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"ID категории"
//	@Param			body	body		dto.UpdateCategoryRequest	true	"Изменяемые поля"
//	@Success		200		{object}	dto.CategoryDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/categories/{id} [patch]
func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateCategoryRequest
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, err)
		return
	}
	if body.Empty() {
		h.fail(w, e.ErrMissingFields)
		return
	}

	saved, err := h.categoryUsecase.UpdateCategory(r.Context(), body.ToUseCase(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.CategoryFromDomain(*saved))
}

// deleteCategory
//
//	@Summary	Удаление категории
//	@Tags		categories
//	@Param		id	path	string	true	"ID категории"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUsecase.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// reorderCategories
//
//	@Summary	Изменение порядка категорий
//	@Tags		categories
//	@Accept		json
//	@Param		body	body	dto.ReorderRequest	true	"Новый порядок"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Router		/categories/reorder [post]
func (h *CategoryHandler) reorderCategories(w http.ResponseWriter, r *http.Request) {
	var body dto.ReorderRequest
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, err)
		return
	}

	if err := h.categoryUsecase.ReorderCategories(r.Context(), body.ToUseCase()); err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// toggleStatus
//
//	@Summary	Включение или выключение категории
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории"
//	@Success	200	{object}	dto.CategoryDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id}/status [patch]
func (h *CategoryHandler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	saved, err := h.categoryUsecase.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.CategoryFromDomain(*saved))
}

// uploadImage
//
//	@Summary	Загрузка изображения категории
//	@Tags		categories
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"ID категории"
//	@Param		image	formData	file	true	"Изображение (jpeg, png, webp)"
//	@Success	200		{object}	dto.CategoryDTO
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{id}/image [post]
func (h *CategoryHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+(1<<20))

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.fail(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"], h.maxImageSize)
	if err != nil {
		h.fail(w, err)
		return
	}

	saved, err := h.categoryUsecase.UploadImage(r.Context(), &usecase.UploadImageReq{
		CategoryID: chi.URLParam(r, "id"),
		Image:      *image,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dto.CategoryFromDomain(*saved))
}

// fail логирует ошибку с уровнем по коду ответа и пишет её клиенту.
func (h *CategoryHandler) fail(w http.ResponseWriter, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "request failed")
	} else {
		h.logger.Warnf("%d %s", code, err.Error())
	}

	WriteError(w, err)
}
