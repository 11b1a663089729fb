package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubCategoryUC struct {
	usecase.CategoryUC

	tree       *usecase.GetTreeRes
	activeOnly bool
	paths      map[string][]domain.Ancestor
}

func (s *stubCategoryUC) GetTree(_ context.Context, req *usecase.GetTreeReq) (*usecase.GetTreeRes, error) {
	s.activeOnly = req.ActiveOnly
	return s.tree, nil
}

func (s *stubCategoryUC) GetPath(_ context.Context, id string) ([]domain.Ancestor, error) {
	path, ok := s.paths[id]
	if !ok {
		return nil, e.Wrap(id, e.ErrCategoryNotFound)
	}
	return path, nil
}

func (s *stubCategoryUC) GetHoverPath(ctx context.Context, id string) ([]string, error) {
	path, err := s.GetPath(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(path)+1)
	for _, a := range path {
		ids = append(ids, a.ID)
	}
	return append(ids, id), nil
}

func newStub() *stubCategoryUC {
	parent := "roofing"
	return &stubCategoryUC{
		tree: usecase.NewGetTreeRes("v2-1", []*domain.CategoryNode{{
			Category: domain.Category{ID: "roofing", Name: "Roofing", Slug: "roofing", IsActive: true, Path: "roofing"},
			Children: []*domain.CategoryNode{{
				Category: domain.Category{
					ID: "tiles", Name: "Tiles", Slug: "tiles", ParentID: &parent, IsActive: true,
					Level: 1, Path: "roofing/tiles", Ancestors: []domain.Ancestor{{ID: "roofing", Name: "Roofing"}},
				},
			}},
		}}),
		paths: map[string][]domain.Ancestor{
			"roofing": {},
			"tiles":   {{ID: "roofing", Name: "Roofing"}},
		},
	}
}

func dial(t *testing.T, uc usecase.CategoryUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{}, logger.NewNopLogger())
	srv.RegisterServices(uc)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		_ = srv.Stop(context.Background())
	})

	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()

	in, err := structpb.NewStruct(req)
	require.NoError(t, err)

	out := &structpb.Struct{}
	err = conn.Invoke(context.Background(), "/"+categoryServiceName+"/"+method, in, out)
	return out, err
}

func TestCategoryService_GetTree(t *testing.T) {
	uc := newStub()
	conn := dial(t, uc)

	out, err := invoke(t, conn, "GetTree", map[string]any{"active": true})
	require.NoError(t, err)
	assert.True(t, uc.activeOnly)

	res := out.AsMap()
	assert.Equal(t, "v2-1", res["version"])

	roots := res["categories"].([]any)
	require.Len(t, roots, 1)
	root := roots[0].(map[string]any)
	assert.Equal(t, "roofing", root["_id"])

	children := root["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "roofing", children[0].(map[string]any)["parent"])
}

func TestCategoryService_GetTreeRejectsNonBoolActive(t *testing.T) {
	conn := dial(t, newStub())

	_, err := invoke(t, conn, "GetTree", map[string]any{"active": "yes"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCategoryService_GetPath(t *testing.T) {
	conn := dial(t, newStub())

	out, err := invoke(t, conn, "GetPath", map[string]any{"id": "tiles"})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"_id": "roofing", "name": "Roofing"}}, out.AsMap()["ancestors"])

	_, err = invoke(t, conn, "GetPath", map[string]any{"id": "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = invoke(t, conn, "GetPath", map[string]any{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCategoryService_GetHoverPath(t *testing.T) {
	conn := dial(t, newStub())

	out, err := invoke(t, conn, "GetHoverPath", map[string]any{"id": "tiles"})
	require.NoError(t, err)
	assert.Equal(t, []any{"roofing", "tiles"}, out.AsMap()["ids"])
}

type failingCategoryUC struct {
	usecase.CategoryUC
}

func (failingCategoryUC) GetPath(context.Context, string) ([]domain.Ancestor, error) {
	return nil, errors.New("connection reset")
}

func TestCategoryService_LogLevelFollowsCode(t *testing.T) {
	tests := []struct {
		name      string
		uc        usecase.CategoryUC
		id        string
		wantCode  codes.Code
		wantLevel string
	}{
		{name: "not found", uc: newStub(), id: "missing", wantCode: codes.NotFound, wantLevel: "WARN"},
		{name: "storage failure", uc: failingCategoryUC{}, id: "tiles", wantCode: codes.Internal, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			svc := NewCategoryService(tt.uc, logger.NewSlogLoggerWithWriter(&buf, slog.LevelDebug))

			req, err := structpb.NewStruct(map[string]any{"id": tt.id})
			require.NoError(t, err)

			_, err = svc.GetPath(context.Background(), req)
			require.Equal(t, tt.wantCode, status.Code(err))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
		})
	}
}

func TestGRPCServer_Health(t *testing.T) {
	conn := dial(t, newStub())

	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: categoryServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}

func TestGRPCErrorResponse(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{e.Wrap("x", e.ErrCategoryNotFound), codes.NotFound},
		{e.Wrap("x", e.ErrMissingFields), codes.InvalidArgument},
		{errors.New("connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(GRPCErrorResponse(tt.err)), tt.err.Error())
	}
}
