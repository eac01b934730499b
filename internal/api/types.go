package api

// Error types returned by the debug API.
const (
	ErrTypeValidation = "VALIDATION_ERROR"
	ErrTypeNotFound   = "NOT_FOUND"
	ErrTypeInternal   = "INTERNAL_ERROR"
)

// AppError is the structured error payload every failing endpoint returns.
type AppError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Error implements the error interface.
func (e AppError) Error() string {
	return e.Type + ": " + e.Message
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	GamesLoaded   int    `json:"gamesLoaded"`
}

// SessionResponse is the /session payload: the orchestrator's view of the
// match in flight.
type SessionResponse struct {
	State       string   `json:"state"`
	RoomCode    string   `json:"roomCode"`
	RoundIndex  int      `json:"roundIndex"`
	GameID      string   `json:"gameId,omitempty"`
	TimeLeft    int      `json:"timeLeft"`
	Players     any      `json:"players"`
	Unreachable []string `json:"unreachable,omitempty"`
}
