package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/model"
	"jobmate/board-service/internal/posting"
)

// Client calls jobboard.v1.BoardService on a remote board.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns the visible jobs for st.
func (c *Client) Query(ctx context.Context, st filter.State, opts ...grpc.CallOption) (board.Result, error) {
	in, err := stateToStruct(st)
	if err != nil {
		return board.Result{}, err
	}
	out, err := c.invoke(ctx, "Query", in, opts...)
	if err != nil {
		return board.Result{}, err
	}
	var res struct {
		Jobs      []model.Job `json:"jobs"`
		Locations []string    `json:"locations"`
		JobTypes  []string    `json:"jobTypes"`
		Error     string      `json:"error"`
		Filtered  bool        `json:"filtered"`
	}
	if err := decodeStruct(out, &res); err != nil {
		return board.Result{}, err
	}
	if res.Jobs == nil {
		res.Jobs = []model.Job{}
	}
	return board.Result{
		Visible:   res.Jobs,
		Locations: res.Locations,
		JobTypes:  res.JobTypes,
		Err:       res.Error,
		Filtered:  res.Filtered,
	}, nil
}

// Refresh asks the server to re-fetch and returns the new collection size.
func (c *Client) Refresh(ctx context.Context, opts ...grpc.CallOption) (int, error) {
	out, err := c.invoke(ctx, "Refresh", &structpb.Struct{}, opts...)
	if err != nil {
		return 0, err
	}
	return int(out.GetFields()["jobs"].GetNumberValue()), nil
}

// CreateJob publishes a posting form and returns the created job.
func (c *Client) CreateJob(ctx context.Context, f posting.Form, opts ...grpc.CallOption) (*model.Job, error) {
	in, err := formToStruct(f)
	if err != nil {
		return nil, err
	}
	out, err := c.invoke(ctx, "CreateJob", in, opts...)
	if err != nil {
		return nil, err
	}
	var j model.Job
	if err := decodeStruct(out, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
