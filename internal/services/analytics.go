package services

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Gameplay analytics event names.
const (
	EventGameStart     = "xm_game_start"
	EventGameContinue  = "xm_game_continue"
	EventTimeAdvance   = "xm_time_advance"
	EventPlayerCreate  = "xm_player_create"
	EventChapterEnter  = "xm_chapter_enter"
	EventEndingReached = "xm_ending_reached"
	EventBankrupt      = "xm_bankrupt"
	EventSceneUnlock   = "xm_scene_unlock"
	EventStressCrisis  = "xm_stress_crisis"
)

// Tracker is a fire-and-forget analytics sink. Implementations must
// never block the caller and never surface errors.
type Tracker interface {
	Track(name string, data map[string]any)
}

// NopTracker discards all events.
type NopTracker struct{}

func (NopTracker) Track(string, map[string]any) {}

// UmamiService posts events to a self-hosted umami endpoint.
type UmamiService struct {
	endpoint   string
	siteID     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewUmamiService(endpoint, siteID string, logger *slog.Logger) *UmamiService {
	return &UmamiService{
		endpoint: endpoint,
		siteID:   siteID,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

type umamiPayload struct {
	Website string         `json:"website"`
	Name    string         `json:"name"`
	Data    map[string]any `json:"data,omitempty"`
}

type umamiEvent struct {
	Type    string       `json:"type"`
	Payload umamiPayload `json:"payload"`
}

// Track sends the event in the background. Failures are logged at
// debug level and otherwise invisible to gameplay.
func (s *UmamiService) Track(name string, data map[string]any) {
	go func() {
		body, err := json.Marshal(umamiEvent{
			Type: "event",
			Payload: umamiPayload{
				Website: s.siteID,
				Name:    name,
				Data:    data,
			},
		})
		if err != nil {
			return
		}

		req, err := http.NewRequest("POST", s.endpoint, bytes.NewBuffer(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.logger.Debug("Analytics event dropped", "event", name, "error", err)
			return
		}
		_ = resp.Body.Close()
	}()
}
