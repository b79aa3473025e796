package filter

import "jobmate/board-service/internal/model"

// Locations returns the distinct non-empty locations in jobs, first-seen order.
func Locations(jobs []model.Job) []string {
	return distinct(jobs, func(j model.Job) string { return j.Location })
}

// JobTypes returns the distinct non-empty job types in jobs, first-seen order.
func JobTypes(jobs []model.Job) []string {
	return distinct(jobs, func(j model.Job) string { return j.JobType })
}

func distinct(jobs []model.Job, key func(model.Job) string) []string {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]string, 0)
	for _, j := range jobs {
		k := key(j)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
