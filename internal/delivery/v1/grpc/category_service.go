package grpc

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/delivery/dto"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const categoryServiceName = "catalog.v1.CategoryService"

// CategoryServiceServer — read-only доступ к дереву категорий для внутренних сервисов.
// Запросы и ответы передаются как google.protobuf.Struct в JSON-форме HTTP API.
type CategoryServiceServer interface {
	// GetTree принимает {"active": bool} и возвращает {"version", "categories"}.
	GetTree(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// GetPath принимает {"id": string} и возвращает {"ancestors": [...]}.
	GetPath(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// GetHoverPath принимает {"id": string} и возвращает {"ids": [...]}.
	GetHoverPath(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type CategoryService struct {
	catUC  usecase.CategoryUC
	logger logger.Logger
}

func NewCategoryService(catUC usecase.CategoryUC, logger logger.Logger) *CategoryService {
	return &CategoryService{catUC: catUC, logger: logger}
}

func (g *CategoryService) GetTree(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetTree"

	activeOnly, err := boolField(req, "active")
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := g.catUC.GetTree(ctx, &usecase.GetTreeReq{ActiveOnly: activeOnly})
	if err != nil {
		return nil, g.fail(op, err)
	}

	out, err := toStruct(dto.TreeResponse{
		Version:    res.Version,
		Categories: dto.NodesFromDomain(res.Nodes),
	})
	if err != nil {
		return nil, g.fail(op, err)
	}

	return out, nil
}

func (g *CategoryService) GetPath(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetPath"

	id, err := stringField(req, "id")
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	path, err := g.catUC.GetPath(ctx, id)
	if err != nil {
		return nil, g.fail(op, err)
	}

	out, err := toStruct(map[string]any{"ancestors": dto.AncestorsFromDomain(path)})
	if err != nil {
		return nil, g.fail(op, err)
	}

	return out, nil
}

func (g *CategoryService) GetHoverPath(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetHoverPath"

	id, err := stringField(req, "id")
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	ids, err := g.catUC.GetHoverPath(ctx, id)
	if err != nil {
		return nil, g.fail(op, err)
	}

	out, err := toStruct(dto.HoverPathResponse{IDs: ids})
	if err != nil {
		return nil, g.fail(op, err)
	}

	return out, nil
}

// fail логирует ошибку с уровнем по коду ответа: клиентские ошибки пишутся как warn.
func (g *CategoryService) fail(op string, err error) error {
	err = e.Wrap(op, err)
	st := GRPCErrorResponse(err)
	if status.Code(st) == codes.Internal {
		g.logger.Errorf(err, "%s", op)
	} else {
		g.logger.Warnf("%s: %s", status.Code(st), err.Error())
	}
	return st
}

// RegisterCategoryServiceServer регистрирует реализацию на gRPC-сервере.
func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&categoryServiceDesc, srv)
}

var categoryServiceDesc = grpc.ServiceDesc{
	ServiceName: categoryServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetTree", Handler: unaryHandler("GetTree", CategoryServiceServer.GetTree)},
		{MethodName: "GetPath", Handler: unaryHandler("GetPath", CategoryServiceServer.GetPath)},
		{MethodName: "GetHoverPath", Handler: unaryHandler("GetHoverPath", CategoryServiceServer.GetHoverPath)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/category.proto",
}

type structMethod func(CategoryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call structMethod) grpc.MethodHandler {
	fullMethod := "/" + categoryServiceName + "/" + name

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CategoryServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CategoryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
