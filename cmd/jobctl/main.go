// jobctl lists, refreshes and creates job postings from the command line.
//
// It either runs the board pipeline locally against the jobs REST API
// (-api) or talks to a running board service over gRPC (-grpc).
//
//	jobctl -api http://localhost:5000 -location Bangalore -type Full-time list
//	jobctl -grpc localhost:9083 -search go -salary-min 600000 list
//	jobctl -grpc localhost:9083 refresh
//	jobctl -api http://localhost:5000 -form posting.json create
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/grpcserver"
	"jobmate/board-service/internal/model"
	"jobmate/board-service/internal/posting"
)

const defaultTimeout = 15 * time.Second

type options struct {
	apiURL    string
	grpcAddr  string
	search    string
	location  string
	jobType   string
	salaryMin int64
	salaryMax int64
	formPath  string
	timeout   time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.apiURL, "api", os.Getenv("JOBS_API_URL"), "Jobs REST API base URL (or JOBS_API_URL)")
	flag.StringVar(&opts.grpcAddr, "grpc", "", "Board service gRPC address; overrides -api")
	flag.StringVar(&opts.search, "search", "", "Case-insensitive text matched against title and company")
	flag.StringVar(&opts.location, "location", "", "Exact location")
	flag.StringVar(&opts.jobType, "type", "", "Exact job type")
	flag.Int64Var(&opts.salaryMin, "salary-min", filter.DefaultSalaryLow, "Lowest acceptable salary minimum")
	flag.Int64Var(&opts.salaryMax, "salary-max", filter.DefaultSalaryHigh, "Highest acceptable salary maximum")
	flag.StringVar(&opts.formPath, "form", "", "Posting form JSON file for create (- for stdin)")
	flag.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Request timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: jobctl [flags] list|refresh|create\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := "list"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}
	if opts.apiURL == "" && opts.grpcAddr == "" {
		fmt.Fprintln(os.Stderr, "missing source (set -api, JOBS_API_URL or -grpc)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "list":
		err = runList(ctx, opts, os.Stdout)
	case "refresh":
		err = runRefresh(ctx, opts, os.Stdout)
	case "create":
		err = runCreate(ctx, opts, os.Stdout)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func runList(ctx context.Context, opts options, w io.Writer) error {
	if opts.grpcAddr != "" {
		return withClient(ctx, opts, func(ctx context.Context, c *grpcserver.Client) error {
			st := filter.DefaultState().
				WithSearchText(opts.search).
				WithLocation(opts.location).
				WithJobType(opts.jobType).
				WithSalaryLow(opts.salaryMin).
				WithSalaryHigh(opts.salaryMax)
			res, err := c.Query(ctx, st)
			if err != nil {
				return err
			}
			return printResult(w, res)
		})
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	b := board.New(feed.NewClient(opts.apiURL, feed.WithTimeout(opts.timeout)))
	defer b.Close()
	if err := b.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
	}

	s := b.NewSession()
	s.SetSearchText(opts.search)
	s.SetLocation(opts.location)
	s.SetJobType(opts.jobType)
	s.SetSalaryLow(opts.salaryMin)
	s.SetSalaryHigh(opts.salaryMax)

	return printResult(w, board.Result{
		Visible:   s.Visible(),
		Locations: s.Locations(),
		JobTypes:  s.JobTypes(),
		Err:       s.Err(),
	})
}

func runRefresh(ctx context.Context, opts options, w io.Writer) error {
	if opts.grpcAddr == "" {
		return errors.New("refresh needs -grpc")
	}
	return withClient(ctx, opts, func(ctx context.Context, c *grpcserver.Client) error {
		n, err := c.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "refreshed: %d job(s)\n", n)
		return nil
	})
}

func runCreate(ctx context.Context, opts options, w io.Writer) error {
	form, err := readForm(opts.formPath)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		var ve *posting.ValidationError
		if errors.As(err, &ve) {
			for field, msg := range ve.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		return err
	}

	var created *model.Job
	if opts.grpcAddr != "" {
		err = withClient(ctx, opts, func(ctx context.Context, c *grpcserver.Client) error {
			created, err = c.CreateJob(ctx, form)
			return err
		})
	} else {
		ctx, cancel := context.WithTimeout(ctx, opts.timeout)
		defer cancel()
		svc := posting.NewService(feed.NewClient(opts.apiURL, feed.WithTimeout(opts.timeout)), nil)
		created, err = svc.Publish(ctx, form)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "created %s: %s at %s\n", created.ID, created.Title, created.Company)
	return nil
}

func readForm(path string) (posting.Form, error) {
	form := posting.NewForm()
	var r io.Reader
	switch path {
	case "":
		return form, errors.New("create needs -form")
	case "-":
		r = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return form, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&form); err != nil {
		return form, fmt.Errorf("decode %s: %w", path, err)
	}
	return form, nil
}

func withClient(ctx context.Context, opts options, fn func(context.Context, *grpcserver.Client) error) error {
	conn, err := grpc.NewClient(opts.grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.grpcAddr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", uuid.NewString())
	return fn(ctx, grpcserver.NewClient(conn))
}

func printResult(w io.Writer, res board.Result) error {
	if res.Err != "" {
		fmt.Fprintln(w, res.Err)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tTYPE\tSALARY\tPOSTED")
	now := time.Now()
	for _, j := range res.Visible {
		salary := "n/a"
		if j.HasSalary() {
			salary = j.Salary.String()
		}
		posted := ""
		if !j.CreatedAt.IsZero() {
			posted = model.Age(j.CreatedAt, now)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", j.Title, j.Company, j.Location, j.JobType, salary, posted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d job(s). Locations: %s. Types: %s.\n",
		len(res.Visible), strings.Join(res.Locations, ", "), strings.Join(res.JobTypes, ", "))
	return nil
}
