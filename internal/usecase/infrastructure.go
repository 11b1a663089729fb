package usecase

import "context"

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
	// ObjectURL возвращает публичный URI объекта, ObjectKey — обратное преобразование.
	ObjectURL(key string) string
	ObjectKey(url string) (string, bool)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует событие изменения категорий для записи в outbox.
type EventEncoder interface {
	EncodeCategoryEvent(event *CategoryChangedEvent) ([]byte, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
