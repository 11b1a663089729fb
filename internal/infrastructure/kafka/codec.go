package kafka

import (
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventCodec кодирует события каталога в google.protobuf.Struct.
//
// Формат значения сообщения:
//
//	event_id:     string
//	operation:    string (category.created, category.updated, ...)
//	category_id:  string, первый ID из category_ids
//	category_ids: list<string>
//	occurred_at:  {seconds, nanos} как в google.protobuf.Timestamp
type EventCodec struct{}

func (EventCodec) EncodeCategoryEvent(event *usecase.CategoryChangedEvent) ([]byte, error) {
	ids := make([]any, 0, len(event.CategoryIDs))
	for _, id := range event.CategoryIDs {
		ids = append(ids, id)
	}

	firstID := ""
	if len(event.CategoryIDs) > 0 {
		firstID = event.CategoryIDs[0]
	}

	ts := timestamppb.New(event.OccurredAt)
	payload, err := structpb.NewStruct(map[string]any{
		"event_id":     event.EventID,
		"operation":    string(event.Type),
		"category_id":  firstID,
		"category_ids": ids,
		"occurred_at": map[string]any{
			"seconds": float64(ts.GetSeconds()),
			"nanos":   float64(ts.GetNanos()),
		},
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := proto.Marshal(payload)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// DecodeCategoryEvent разбирает значение сообщения, записанное EncodeCategoryEvent.
func (EventCodec) DecodeCategoryEvent(data []byte) (*usecase.CategoryChangedEvent, error) {
	var payload structpb.Struct
	if err := proto.Unmarshal(data, &payload); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	fields := payload.GetFields()
	eventID := fields["event_id"].GetStringValue()
	if eventID == "" {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("missing event_id"))
	}

	ids := make([]string, 0)
	for _, v := range fields["category_ids"].GetListValue().GetValues() {
		ids = append(ids, v.GetStringValue())
	}

	occurred := fields["occurred_at"].GetStructValue().GetFields()
	ts := &timestamppb.Timestamp{
		Seconds: int64(occurred["seconds"].GetNumberValue()),
		Nanos:   int32(occurred["nanos"].GetNumberValue()),
	}
	if err := ts.CheckValid(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewCategoryChangedEvent(
		eventID,
		usecase.OutboxEventType(fields["operation"].GetStringValue()),
		ids,
		ts.AsTime(),
	), nil
}
