package grpcserver_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/grpcserver"
	"jobmate/board-service/internal/model"
	"jobmate/board-service/internal/posting"
)

type staticSource struct {
	jobs []model.Job
	err  error
}

func (s staticSource) Jobs(context.Context) ([]model.Job, error) { return s.jobs, s.err }

type echoCreator struct{}

func (echoCreator) Create(_ context.Context, j model.Job) (*model.Job, error) {
	j.ID = "new-1"
	j.CreatedAt = time.Now()
	return &j, nil
}

func sampleJobs() []model.Job {
	return []model.Job{
		{ID: "1", Title: "Backend Engineer", Company: "Acme", Location: "Bangalore",
			JobType: "Full-time", Salary: model.SalaryRange{Min: 500000, Max: 900000}},
		{ID: "2", Title: "Frontend Developer", Company: "Globex", Location: "Remote",
			JobType: "Contract", Salary: model.SalaryRange{Min: 300000, Max: 600000}},
	}
}

// dial starts an in-memory server around b and returns a client for it.
func dial(t *testing.T, b *board.Board, postings *posting.Service) *grpcserver.Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	grpcserver.Register(gs, grpcserver.NewServer(b, postings))
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return grpcserver.NewClient(conn)
}

func TestQuery_FiltersAndReturnsOptions(t *testing.T) {
	b := board.New(staticSource{jobs: sampleJobs()})
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	c := dial(t, b, nil)

	res, err := c.Query(context.Background(), filter.DefaultState().WithLocation("Remote"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Visible) != 1 || res.Visible[0].ID != "2" {
		t.Fatalf("Visible = %+v, want only job 2", res.Visible)
	}
	if res.Visible[0].Salary != (model.SalaryRange{Min: 300000, Max: 600000}) {
		t.Errorf("salary = %+v", res.Visible[0].Salary)
	}
	if len(res.Locations) != 2 || len(res.JobTypes) != 2 {
		t.Errorf("options = %v / %v, want the full collection's", res.Locations, res.JobTypes)
	}
	if res.Err != "" {
		t.Errorf("Err = %q", res.Err)
	}
	if !res.Filtered {
		t.Error("location query not reported as filtered")
	}
}

func TestQuery_FetchFailureSurfacesMessage(t *testing.T) {
	b := board.New(staticSource{err: errors.New("boom")})
	_ = b.Refresh(context.Background())
	c := dial(t, b, nil)

	res, err := c.Query(context.Background(), filter.DefaultState())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.Err != board.FetchErrorMessage || len(res.Visible) != 0 {
		t.Errorf("Query() = %+v, want empty list with %q", res, board.FetchErrorMessage)
	}
}

func TestRefresh_ReportsCount(t *testing.T) {
	c := dial(t, board.New(staticSource{jobs: sampleJobs()}), nil)
	n, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 2 {
		t.Errorf("Refresh() = %d, want 2", n)
	}
}

func TestRefresh_FetchFailureIsUnavailable(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer garbage.Close()

	for name, url := range map[string]string{"unreachable": closed.URL, "undecodable": garbage.URL} {
		t.Run(name, func(t *testing.T) {
			c := dial(t, board.New(feed.NewClient(url)), nil)
			_, err := c.Refresh(context.Background())
			if status.Code(err) != codes.Unavailable {
				t.Errorf("code = %v, want Unavailable", status.Code(err))
			}
			if got := status.Convert(err).Message(); got != board.FetchErrorMessage {
				t.Errorf("message = %q, want %q", got, board.FetchErrorMessage)
			}
		})
	}
}

func TestRefresh_ClosedBoardIsUnavailable(t *testing.T) {
	b := board.New(staticSource{jobs: sampleJobs()})
	b.Close()
	c := dial(t, b, nil)
	_, err := c.Refresh(context.Background())
	if status.Code(err) != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", status.Code(err))
	}
}

func TestCreateJob_DisabledWithoutPostings(t *testing.T) {
	c := dial(t, board.New(staticSource{}), nil)
	_, err := c.CreateJob(context.Background(), posting.NewForm())
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}

func TestCreateJob_InvalidFormIsInvalidArgument(t *testing.T) {
	svc := posting.NewService(echoCreator{}, nil)
	c := dial(t, board.New(staticSource{}), svc)
	_, err := c.CreateJob(context.Background(), posting.NewForm())
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
	if got := status.Convert(err).Message(); got != posting.WordCountMessage {
		t.Errorf("message = %q, want the word-count message", got)
	}
}

func TestCreateJob_Publishes(t *testing.T) {
	svc := posting.NewService(echoCreator{}, nil)
	c := dial(t, board.New(staticSource{}), svc)

	long := "one two three four five six seven eight nine ten eleven twelve " +
		"thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone"
	f := posting.NewForm()
	f.Title = "Go Developer"
	f.Company = "Acme"
	f.Location = "Remote"
	f.SalaryMin = "100000"
	f.SalaryMax = "200000"
	f.Deadline = "2025-12-31"
	f.Description, f.Responsibilities, f.Requirements = long, long, long

	j, err := c.CreateJob(context.Background(), f)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if j.ID != "new-1" || j.Title != "Go Developer" {
		t.Errorf("created = %+v", j)
	}
	if j.Salary != (model.SalaryRange{Min: 100000, Max: 200000}) {
		t.Errorf("salary = %+v", j.Salary)
	}
}
