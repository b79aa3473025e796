// Package grpcserver exposes the board over gRPC.
//
// It delegates all logic to board.Board and posting.Service and handles only
// the transport concerns: message conversion, error mapping and request
// logging. Messages are google.protobuf.Struct values so the service needs no
// generated code; field names match the JSON shapes of the HTTP surface.
package grpcserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/posting"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "jobboard.v1.BoardService"

// BoardServer is the server API of jobboard.v1.BoardService.
type BoardServer interface {
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server implements BoardServer.
type Server struct {
	board    *board.Board
	postings *posting.Service
	now      func() time.Time
}

// NewServer constructs a Server. postings may be nil, in which case CreateJob
// answers Unimplemented.
func NewServer(b *board.Board, postings *posting.Service) *Server {
	return &Server{board: b, postings: postings, now: time.Now}
}

// Register mounts srv on gs.
func Register(gs *grpc.Server, srv BoardServer) {
	gs.RegisterService(&serviceDesc, srv)
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// Query returns the visible jobs for the filter state in req, plus the option
// sets of the full collection.
func (s *Server) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := stateFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	res := s.board.Query(st)
	return resultToStruct(res, s.now())
}

// Refresh re-fetches the collection now. Any fetch failure is Unavailable.
func (s *Server) Refresh(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	err := s.board.Refresh(ctx)
	switch {
	case err == nil, errors.Is(err, board.ErrStale):
	case errors.Is(err, board.ErrClosed):
		return nil, status.Error(codes.Unavailable, err.Error())
	case ctx.Err() != nil:
		return nil, status.FromContextError(ctx.Err()).Err()
	default:
		log.Printf("[board-grpc] refresh failed: %v", err)
		return nil, status.Error(codes.Unavailable, board.FetchErrorMessage)
	}
	return structpb.NewStruct(map[string]any{
		"jobs": float64(len(s.board.Snapshot().Jobs)),
	})
}

// CreateJob validates and publishes a posting form.
func (s *Server) CreateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.postings == nil {
		return nil, status.Error(codes.Unimplemented, "job creation is disabled")
	}
	form, err := formFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	created, err := s.postings.Publish(ctx, form)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return jobToStruct(*created, s.now())
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var ve *posting.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	var se *feed.StatusError
	if errors.As(err, &se) {
		return status.Error(codes.Unavailable, se.Error())
	}
	switch {
	case errors.Is(err, board.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal server error")
}

// LoggingInterceptor logs each call with its request id, taken from the
// x-request-id metadata or generated.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	reqID := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-request-id"); len(vals) > 0 {
			reqID = vals[0]
		}
	}
	if reqID == "" {
		reqID = uuid.NewString()
	}

	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("[board-grpc] %s id=%s code=%s took=%s",
		info.FullMethod, reqID, status.Code(err), time.Since(start).Round(time.Microsecond))
	return resp, err
}

// ─── Service descriptor ──────────────────────────────────────────────────────

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: unary("Query", BoardServer.Query)},
		{MethodName: "Refresh", Handler: unary("Refresh", BoardServer.Refresh)},
		{MethodName: "CreateJob", Handler: unary("CreateJob", BoardServer.CreateJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobboard/v1/board.proto",
}

type rpcMethod func(BoardServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call rpcMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BoardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BoardServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
