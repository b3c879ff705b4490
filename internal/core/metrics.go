package core

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// TopStatesLimit is the number of states in the top_estados breakdown.
const TopStatesLimit = 5

// countrySuffix is appended to state names by the enrollment form.
const countrySuffix = ", Brasil"

// affirmativeMarkers are the answers counted as "yes" in the disability
// column, compared after trimming and uppercasing.
var affirmativeMarkers = map[string]bool{
	"SIM": true,
	"S":   true,
	"YES": true,
}

// stateCleaners run in order over every state cell.
var stateCleaners = []func(string) string{
	strings.TrimSpace,
	stripCountrySuffix,
	strings.TrimSpace,
}

// Summarize turns a raw worksheet grid into the dashboard. A grid without
// data rows yields EmptySummary.
func Summarize(grid [][]string, target int) *Summary {
	t := FromGrid(grid)
	if t.Len() == 0 {
		return EmptySummary(target)
	}
	return Aggregate(t, target)
}

// Aggregate computes every indicator and breakdown of t. Each computation
// depends only on its own columns and is skipped when they are absent.
func Aggregate(t *Table, target int) *Summary {
	total := t.Len()

	s := &Summary{
		KPIs: KPIs{
			TotalStudents:   total,
			Target:          target,
			CompletionRatio: CompletionRatio(total, target),
		},
		Charts: emptyCharts(),
		Map:    []MapPoint{},
	}

	if schools, ok := t.Values(RoleSchool); ok {
		s.KPIs.TotalSchools = len(countValues(schools))
	}

	if raw, ok := t.Values(RoleState); ok {
		states := cleanStates(raw)
		counts := countValues(states)
		ranking := RankStates(counts)

		s.KPIs.TotalStates = len(counts)
		s.Charts.StudentsByState = counts
		s.Charts.StateRanking = ranking
		s.Charts.TopStates = topStates(ranking, TopStatesLimit)
		s.Map = MapPoints(counts)

		if municipalities, ok := t.Values(RoleMunicipality); ok {
			grouped := GroupMunicipalities(states, municipalities)
			s.Charts.MunicipalitiesByState = grouped
			s.KPIs.TotalMunicipalities = CountMunicipalities(grouped)
		}
	}

	if courses, ok := t.Values(RoleCourse); ok {
		s.Charts.StudentsByCourse = countValues(courses)
	}

	if sexes, ok := t.Values(RoleSex); ok {
		s.Charts.Sexes = SexBreakdown(sexes, total)
	}

	if answers, ok := t.Values(RoleDisability); ok {
		s.Charts.TotalPCD = CountAffirmative(answers)
	}

	return s
}

// CompletionRatio is total/target rounded to two decimals, or 0 when the
// target is not positive.
func CompletionRatio(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	ratio, err := stats.Round(float64(total)/float64(target), 2)
	if err != nil {
		return 0
	}
	return ratio
}

// CleanState normalizes a state cell: "Pernambuco, Brasil " -> "Pernambuco".
func CleanState(v string) string {
	for _, clean := range stateCleaners {
		v = clean(v)
	}
	return v
}

func stripCountrySuffix(v string) string {
	return strings.TrimSuffix(v, countrySuffix)
}

func cleanStates(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = CleanState(v)
	}
	return out
}

// countValues counts trimmed non-empty values.
func countValues(values []string) map[string]int {
	counts := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		counts[v]++
	}
	return counts
}

// RankStates orders state counts by count descending, then by name, so ties
// always resolve the same way.
func RankStates(counts map[string]int) []StateCount {
	ranking := make([]StateCount, 0, len(counts))
	for state, n := range counts {
		ranking = append(ranking, StateCount{State: state, Count: n})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].State < ranking[j].State
	})

	return ranking
}

func topStates(ranking []StateCount, n int) map[string]int {
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	top := make(map[string]int, len(ranking))
	for _, sc := range ranking {
		top[sc.State] = sc.Count
	}
	return top
}

// GroupMunicipalities counts rows per (state, municipality) pair, skipping
// rows where either value is empty. states must already be cleaned and
// aligned with municipalities.
func GroupMunicipalities(states, municipalities []string) map[string]map[string]int {
	grouped := make(map[string]map[string]int)
	for i, state := range states {
		if i >= len(municipalities) {
			break
		}
		city := strings.TrimSpace(municipalities[i])
		if state == "" || city == "" {
			continue
		}
		if grouped[state] == nil {
			grouped[state] = make(map[string]int)
		}
		grouped[state][city]++
	}
	return grouped
}

// CountMunicipalities sums the distinct municipalities of every state and
// subtracts one: Asa Sul and Asa Norte are registered separately but form a
// single administrative region of the Distrito Federal. The correction is
// applied whether or not those entries are present. The result is floored
// at zero, unlike the legacy dashboard, which reported -1 when the state and
// municipality columns existed but no row filled both.
func CountMunicipalities(grouped map[string]map[string]int) int {
	total := 0
	for _, cities := range grouped {
		total += len(cities)
	}
	total--
	if total < 0 {
		return 0
	}
	return total
}

// SexBreakdown counts exact MaleLabel and FemaleLabel answers. Every other
// row, including blanks and typos, is counted under OtherLabel, so the three
// buckets always add up to total.
func SexBreakdown(values []string, total int) map[string]int {
	male, female := 0, 0
	for _, v := range values {
		switch strings.TrimSpace(v) {
		case MaleLabel:
			male++
		case FemaleLabel:
			female++
		}
	}
	return map[string]int{
		MaleLabel:   male,
		FemaleLabel: female,
		OtherLabel:  total - (male + female),
	}
}

// CountAffirmative counts answers in the affirmative marker set.
func CountAffirmative(values []string) int {
	n := 0
	for _, v := range values {
		if affirmativeMarkers[strings.ToUpper(strings.TrimSpace(v))] {
			n++
		}
	}
	return n
}
