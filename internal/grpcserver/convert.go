package grpcserver

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/model"
	"jobmate/board-service/internal/posting"
)

// stateFromStruct reads a filter state. Absent fields keep their defaults.
func stateFromStruct(s *structpb.Struct) (filter.State, error) {
	st := filter.DefaultState()
	for name, v := range s.GetFields() {
		switch name {
		case "searchText", "location", "jobType":
			str, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return st, fmt.Errorf("%s must be a string", name)
			}
			switch name {
			case "searchText":
				st.SearchText = str.StringValue
			case "location":
				st.Location = str.StringValue
			case "jobType":
				st.JobType = str.StringValue
			}
		case "salaryLow", "salaryHigh":
			n, err := integer(name, v)
			if err != nil {
				return st, err
			}
			if name == "salaryLow" {
				st.SalaryLow = n
			} else {
				st.SalaryHigh = n
			}
		default:
			return st, fmt.Errorf("unknown filter field %q", name)
		}
	}
	return st, nil
}

func integer(name string, v *structpb.Value) (int64, error) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	f := num.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return int64(f), nil
}

func stateToStruct(st filter.State) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"searchText": st.SearchText,
		"location":   st.Location,
		"jobType":    st.JobType,
		"salaryLow":  float64(st.SalaryLow),
		"salaryHigh": float64(st.SalaryHigh),
	})
}

func resultToStruct(res board.Result, now time.Time) (*structpb.Struct, error) {
	jobs := make([]any, 0, len(res.Visible))
	for _, j := range res.Visible {
		m, err := j.View(now)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, m)
	}
	return structpb.NewStruct(map[string]any{
		"jobs":      jobs,
		"locations": anySlice(res.Locations),
		"jobTypes":  anySlice(res.JobTypes),
		"error":     res.Err,
		"filtered":  res.Filtered,
	})
}

func jobToStruct(j model.Job, now time.Time) (*structpb.Struct, error) {
	m, err := j.View(now)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func anySlice(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

// formFromStruct decodes a posting form. Salary bounds may be sent as
// numbers or strings.
func formFromStruct(s *structpb.Struct) (posting.Form, error) {
	m := s.AsMap()
	for _, k := range []string{"salaryMin", "salaryMax"} {
		if f, ok := m[k].(float64); ok {
			m[k] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return posting.Form{}, err
	}
	form := posting.NewForm()
	if err := json.Unmarshal(raw, &form); err != nil {
		return posting.Form{}, fmt.Errorf("decode posting form: %w", err)
	}
	return form, nil
}

func formToStruct(f posting.Form) (*structpb.Struct, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// decodeStruct converts a Struct into v through its JSON form.
func decodeStruct(s *structpb.Struct, v any) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
