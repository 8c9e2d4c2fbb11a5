package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	GameID string    // restrict to one game (game and badge queries)
}

// Game event actions and outcomes.
const (
	ActionStart = "start"
	ActionEnd   = "end"

	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeExited    = "exited"
)

// GameEventData records the start or end of a play-through.
type GameEventData struct {
	SessionID        string
	GameID           string
	Action           string // ActionStart or ActionEnd
	Outcome          string // set on ActionEnd
	Score            float64
	ScorePercent     int
	StepsTotal       int
	StepsCompleted   int
	CorrectAnswers   int
	IncorrectAnswers int
	TimeRemaining    int
	DurationSecs     int
}

// AnswerEventData records one graded answer.
type AnswerEventData struct {
	SessionID     string
	GameID        string
	StepIndex     int
	StepKind      string
	Answer        string
	Correct       bool
	Points        float64
	TimeRemaining int
	Streak        int
}

// BadgeEventData records an awarded badge.
type BadgeEventData struct {
	BadgeType string
	Rarity    string
	SessionID string
	GameID    string
	Reason    string
}

// BadgeEventRecord is a persisted badge event.
type BadgeEventRecord struct {
	BadgeType string
	Rarity    string
	SessionID string
	GameID    string
	Reason    string
	Sequence  int64
	Timestamp time.Time
}

// GameSummaryRecord summarizes one finished play-through for history views.
type GameSummaryRecord struct {
	SessionID        string
	GameID           string
	Timestamp        time.Time
	Outcome          string
	Score            float64
	ScorePercent     int
	StepsTotal       int
	StepsCompleted   int
	CorrectAnswers   int
	IncorrectAnswers int
	DurationSecs     int
	BadgeCount       int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a persisted LLM request.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM usage for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendGameEvent(ctx context.Context, data GameEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendBadgeEvent(ctx context.Context, data BadgeEventData) error
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryGameSummaries returns finished play-throughs, newest first.
	QueryGameSummaries(ctx context.Context, opts QueryOpts) ([]GameSummaryRecord, error)
	// QueryAnswerEvents returns the answers of one session in order.
	QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventData, error)
	// QueryBadgeEvents returns badge events, newest first.
	QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEventRecord, error)
	// BadgeCounts returns badge counts by type and the total.
	BadgeCounts(ctx context.Context) (map[string]int, int, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	// GetLLMEvent returns nil if no event has the given ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// BestScore is the best completed result for a game.
type BestScore struct {
	GameID        string
	SessionID     string
	Score         float64
	ScorePercent  int
	TimeRemaining int
	AchievedAt    time.Time
}

// ScoreRepo tracks the best score per game.
type ScoreRepo interface {
	// RecordBest stores b if it beats the current best for its game: a higher
	// percent, or the same percent with more time left. Reports whether it did.
	RecordBest(ctx context.Context, b BestScore) (bool, error)
	// Best returns nil if the game has no recorded score.
	Best(ctx context.Context, gameID string) (*BestScore, error)
	// AllBest returns every best score ordered by game ID.
	AllBest(ctx context.Context) ([]BestScore, error)
}
