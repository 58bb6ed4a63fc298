package habit

// DateLayout is the calendar-day format used for every entry date.
const DateLayout = "2006-01-02"

type TargetPeriod string

const (
	PeriodDay   TargetPeriod = "day"
	PeriodWeek  TargetPeriod = "week"
	PeriodMonth TargetPeriod = "month"
)

type Habit struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"owner_id"`
	Name          string       `json:"name" validate:"required,min=1,max=100"`
	Icon          string       `json:"icon"`
	Color         string       `json:"color"`
	TargetCount   int          `json:"target_count,omitempty" validate:"gte=0"`
	TargetPeriod  TargetPeriod `json:"target_period,omitempty" validate:"omitempty,oneof=day week month"`
	NotesEnabled  bool         `json:"notes_enabled"`
	IsShared      bool         `json:"is_shared"`
	SharedHabitID string       `json:"shared_habit_id,omitempty"`
	IsArchived    bool         `json:"is_archived"`
	CreatedAt     string       `json:"created_at,omitempty"`
}

// HasTarget reports whether the habit is measured against a per-period target.
func (h Habit) HasTarget() bool {
	return h.TargetCount > 0
}

type Entry struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id"`
	OwnerID string `json:"owner_id"`
	Date    string `json:"date" validate:"required,calday"`
	Note    string `json:"note,omitempty" validate:"max=500"`
}

type SharedHabit struct {
	ID           string       `json:"id"`
	HabitName    string       `json:"habit_name"`
	HabitIcon    string       `json:"habit_icon"`
	HabitColor   string       `json:"habit_color"`
	TargetCount  int          `json:"target_count,omitempty"`
	TargetPeriod TargetPeriod `json:"target_period,omitempty"`
	OwnerUserID  string       `json:"owner_user_id"`
	CreatedAt    string       `json:"created_at"`
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

type Membership struct {
	SharedHabitID string `json:"shared_habit_id"`
	UserID        string `json:"user_id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          Role   `json:"role"`
	JoinedAt      string `json:"joined_at"`
	HabitID       string `json:"habit_id"`
}

// HabitStats is recomputed on demand from a habit's entries and is never stored.
type HabitStats struct {
	CurrentStreak         int `json:"current_streak"`
	LongestStreak         int `json:"longest_streak"`
	TotalCompletions      int `json:"total_completions"`
	CompletionsThisWeek   int `json:"completions_this_week"`
	CompletionsThisMonth  int `json:"completions_this_month"`
	CompletionsThisPeriod int `json:"completions_this_period"`
	DaysSinceLastEntry    int `json:"days_since_last_entry"`
	CompletionRate        int `json:"completion_rate"`
}

type CelebrationType string

const (
	NewLongestStreak CelebrationType = "new_longest_streak"
	StreakMilestone  CelebrationType = "streak_milestone"
	TotalMilestone   CelebrationType = "total_milestone"
	PerfectWeek      CelebrationType = "perfect_week"
	TargetHit        CelebrationType = "target_hit"
	Overachiever     CelebrationType = "overachiever"
	Comeback         CelebrationType = "comeback"
)

type Celebration struct {
	Type        CelebrationType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Emoji       string          `json:"emoji"`
}

type LeaderboardEntry struct {
	UserID         string `json:"user_id"`
	DisplayLabel   string `json:"display_label"`
	TotalEntries   int    `json:"total_entries"`
	UniqueDays     int    `json:"unique_days"`
	CurrentStreak  int    `json:"current_streak"`
	CompletionRate int    `json:"completion_rate"`
}

type GroupSummary struct {
	Members               int `json:"members"`
	ActiveMembers         int `json:"active_members"`
	AverageStreak         int `json:"average_streak"`
	AverageCompletionRate int `json:"average_completion_rate"`
	TopStreak             int `json:"top_streak"`
}

type Medal struct {
	Place int              `json:"place"`
	Medal string           `json:"medal"`
	Entry LeaderboardEntry `json:"entry"`
}

type MemberActivity struct {
	UserID        string         `json:"user_id"`
	DisplayLabel  string         `json:"display_label"`
	EntriesByDate map[string]int `json:"entries_by_date"`
}

type Achievements struct {
	StreakMilestones []int `json:"streak_milestones"`
	TotalMilestones  []int `json:"total_milestones"`
	PerfectWeek      bool  `json:"perfect_week"`
	TargetMet        bool  `json:"target_met"`
	Overachieved     bool  `json:"overachieved"`
	CompletionRate   int   `json:"completion_rate"`
	TotalCompletions int   `json:"total_completions"`
}
