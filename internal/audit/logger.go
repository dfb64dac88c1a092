package audit

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess      EventType = "login_success"
	EventLoginFailure      EventType = "login_failure"
	EventLoginPending      EventType = "login_pending_approval"
	EventSignup            EventType = "signup"
	EventBootstrapAdmin    EventType = "bootstrap_admin"
	EventAccountApprove    EventType = "account_approve"
	EventAccountRoleChange EventType = "account_role_change"
	EventAccountDelete     EventType = "account_delete"
	EventAuthFailure       EventType = "auth_failure"
	EventForbidden         EventType = "forbidden"
	EventSelfActionDenied  EventType = "self_action_denied"
	EventRateLimitExceed   EventType = "rate_limit_exceeded"
)

// Event never carries password material.
type Event struct {
	Type      EventType
	ActorID   string
	TargetID  string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.ActorID != "" {
		logger = logger.With().Str("actor_id", event.ActorID).Logger()
	}
	if event.TargetID != "" {
		logger = logger.With().Str("target_id", event.TargetID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = ClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

// ClientIP expects chi's RealIP middleware to have already rewritten
// RemoteAddr from the proxy headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
