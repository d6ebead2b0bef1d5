package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"monollogs/internal/models"
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const (
	weekDays              = 7
	DefaultStaleAfterDays = 14
	DefaultTodoItemLimit  = 10
)

// Options tunes the time-dependent parts of the snapshot.
type Options struct {
	Now            time.Time
	Location       *time.Location
	StaleAfterDays int
	TodoItemLimit  int
}

func (o Options) normalize() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.StaleAfterDays <= 0 {
		o.StaleAfterDays = DefaultStaleAfterDays
	}
	if o.TodoItemLimit <= 0 {
		o.TodoItemLimit = DefaultTodoItemLimit
	}
	return o
}

func (o Options) staleCutoff() time.Time {
	return o.Now.In(o.Location).AddDate(0, 0, -o.StaleAfterDays)
}

type Snapshot struct {
	Personal Personal    `json:"personal"`
	Team     Team        `json:"team"`
	Todos    TodoSummary `json:"todos"`
}

type Personal struct {
	PeakHour           string         `json:"peakHour"`
	PeakDay            string         `json:"peakDay"`
	AvgSessionDuration int64          `json:"avgSessionDuration"` // minutes
	TotalSessions      int            `json:"totalSessions"`
	TopicDistribution  map[string]int `json:"topicDistribution"`
}

type Team struct {
	AuthorSessions map[string]int          `json:"authorSessions"`
	AuthorMessages map[string]int          `json:"authorMessages"`
	KnowledgeMap   map[string]KnowledgeArea `json:"knowledgeMap"`
	Silos          []Silo                  `json:"silos"`
	HotTopics      []HotTopic              `json:"hotTopics"`
	WeeklyActivity []DayActivity           `json:"weeklyActivity"`
}

type KnowledgeArea struct {
	Primary      string   `json:"primary"`
	Contributors []string `json:"contributors"`
	SessionCount int      `json:"sessionCount"`
}

type Silo struct {
	Area  string `json:"area"`
	Owner string `json:"owner"`
}

type HotTopic struct {
	Area         string   `json:"area"`
	Contributors []string `json:"contributors"`
	SessionCount int      `json:"sessionCount"`
}

type DayActivity struct {
	Date     string         `json:"date"`
	Day      string         `json:"day"`
	ByAuthor map[string]int `json:"byAuthor"`
	Total    int            `json:"total"`
}

type TodoSummary struct {
	Total        int           `json:"total"`
	Open         int           `json:"open"`
	Completed    int           `json:"completed"`
	Stale        int           `json:"stale"`
	HighPriority int           `json:"highPriority"`
	Items        []models.Todo `json:"items"`
}

// Compute derives the insights snapshot from live sessions and all todos.
func Compute(sessions []models.Session, todos []models.Todo, opts Options) Snapshot {
	opts = opts.normalize()
	return Snapshot{
		Personal: personalPatterns(sessions, opts.Location),
		Team:     teamView(sessions, opts),
		Todos:    summarizeTodos(todos, opts),
	}
}

func personalPatterns(sessions []models.Session, loc *time.Location) Personal {
	hours := make([]int, 24)
	days := make([]int, weekDays)
	topics := newTally()
	var total time.Duration
	for _, se := range sessions {
		created := se.CreatedAt.In(loc)
		hours[created.Hour()]++
		days[created.Weekday()]++
		total += se.Duration()
		topics.add(se.Area(), 1)
	}
	n := len(sessions)
	if n == 0 {
		n = 1
	}
	avg := float64(total.Milliseconds()) / float64(n)
	peak := firstMax(hours)
	return Personal{
		PeakHour:           fmt.Sprintf("%d:00-%d:00", peak, peak+1),
		PeakDay:            dayNames[firstMax(days)],
		AvgSessionDuration: int64(math.Round(avg / 60000)),
		TotalSessions:      len(sessions),
		TopicDistribution:  topics.asMap(),
	}
}

func teamView(sessions []models.Session, opts Options) Team {
	authorSessions := newTally()
	authorMessages := newTally()
	for _, se := range sessions {
		authorSessions.add(se.SavedBy, 1)
		authorMessages.add(se.SavedBy, se.MessageCount)
	}

	team := Team{
		AuthorSessions: authorSessions.asMap(),
		AuthorMessages: authorMessages.asMap(),
		KnowledgeMap:   make(map[string]KnowledgeArea),
		Silos:          []Silo{},
		HotTopics:      []HotTopic{},
		WeeklyActivity: weeklyActivity(sessions, opts),
	}
	for _, g := range groupAreas(sessions) {
		team.KnowledgeMap[g.area] = KnowledgeArea{
			Primary:      g.primary(),
			Contributors: g.contributors,
			SessionCount: g.sessions,
		}
		if len(g.contributors) == 1 {
			team.Silos = append(team.Silos, Silo{Area: g.area, Owner: g.primary()})
			continue
		}
		team.HotTopics = append(team.HotTopics, HotTopic{
			Area:         g.area,
			Contributors: g.contributors,
			SessionCount: g.sessions,
		})
	}
	sort.SliceStable(team.HotTopics, func(i, j int) bool {
		return team.HotTopics[i].SessionCount > team.HotTopics[j].SessionCount
	})
	return team
}

// weeklyActivity covers the 7 calendar days ending today, oldest first.
func weeklyActivity(sessions []models.Session, opts Options) []DayActivity {
	today := opts.Now.In(opts.Location)
	out := make([]DayActivity, 0, weekDays)
	for i := weekDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		date := day.Format(time.DateOnly)
		act := DayActivity{
			Date:     date,
			Day:      dayNames[day.Weekday()],
			ByAuthor: make(map[string]int),
		}
		for _, se := range sessions {
			if se.CreatedAt.In(opts.Location).Format(time.DateOnly) == date {
				act.ByAuthor[se.SavedBy]++
				act.Total++
			}
		}
		out = append(out, act)
	}
	return out
}

func openTodos(todos []models.Todo) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, td := range todos {
		if !td.Completed {
			out = append(out, td)
		}
	}
	return out
}

func staleTodos(open []models.Todo, cutoff time.Time) []models.Todo {
	var out []models.Todo
	for _, td := range open {
		if td.CreatedAt.Before(cutoff) {
			out = append(out, td)
		}
	}
	return out
}

func summarizeTodos(todos []models.Todo, opts Options) TodoSummary {
	open := openTodos(todos)
	sum := TodoSummary{
		Total:     len(todos),
		Open:      len(open),
		Completed: len(todos) - len(open),
		Stale:     len(staleTodos(open, opts.staleCutoff())),
	}
	for _, td := range open {
		if td.Priority == models.PriorityHigh {
			sum.HighPriority++
		}
	}
	models.SortTodos(open)
	if len(open) > opts.TodoItemLimit {
		open = open[:opts.TodoItemLimit]
	}
	sum.Items = open
	return sum
}
