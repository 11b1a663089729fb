package grpc

import (
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// invalidArgumentErrors отдаются клиенту с кодом InvalidArgument.
var invalidArgumentErrors = []error{
	e.ErrStatusBadRequest,
	e.ErrMissingFields,
	e.ErrInvalidSlug,
}

func GRPCErrorResponse(err error) error {
	for _, target := range invalidArgumentErrors {
		if errors.Is(err, target) {
			return status.Error(codes.InvalidArgument, target.Error())
		}
	}

	switch {
	case errors.Is(err, e.ErrCategoryNotFound):
		return status.Error(codes.NotFound, e.ErrCategoryNotFound.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// toStruct переводит JSON-представление DTO в google.protobuf.Struct,
// чтобы gRPC-клиенты получали ту же форму, что и HTTP.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, e.Wrap("marshal response", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, e.Wrap("convert response", err)
	}

	return out, nil
}

// boolField читает необязательный булев параметр запроса.
func boolField(req *structpb.Struct, name string) (bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return false, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return false, nil
	}

	b, isBool := v.GetKind().(*structpb.Value_BoolValue)
	if !isBool {
		return false, e.Wrap(name, e.ErrStatusBadRequest)
	}

	return b.BoolValue, nil
}

// stringField читает обязательный строковый параметр запроса.
func stringField(req *structpb.Struct, name string) (string, error) {
	s, ok := req.GetFields()[name].GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", e.Wrap(name, e.ErrMissingFields)
	}

	return s.StringValue, nil
}
