package meeting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recruitmeet/models"
	"recruitmeet/services/backendapi"
	"recruitmeet/services/calendar"
	"recruitmeet/services/session"
	"recruitmeet/utils"

	"go.uber.org/zap"
)

// defaultMeetingResult is persisted when the description is blank.
const defaultMeetingResult = "Planlandı"

// draftLayout is the wall-clock form drafts arrive in.
const draftLayout = "2006-01-02T15:04"

// providerFields are the diff keys that require an external calendar update.
var providerFields = []string{"subject", "description", "startDateTime", "endDateTime"}

// DefaultService is the production orchestrator.
type DefaultService struct {
	Sessions          session.Store
	Backend           backendapi.Client
	Adapters          map[models.Provider]calendar.Adapter
	Timezone          string
	DefaultUserInfoID int

	mu       sync.Mutex
	inflight map[string]bool
}

// acquire marks the session busy; exactly one create/update may be in
// flight at a time per session.
func (s *DefaultService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[string]bool)
	}
	if s.inflight[sessionID] {
		return false
	}
	s.inflight[sessionID] = true
	return true
}

func (s *DefaultService) release(sessionID string) {
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}

// validate checks every precondition before any network call goes out.
func (s *DefaultService) validate(ctx context.Context, sessionID string, draft models.MeetingDraft) (*models.Session, calendar.Adapter, error) {
	sess, err := s.Sessions.Load(ctx, sessionID)
	if err != nil || !sess.LoggedIn() {
		return nil, nil, newValidationError("no active system session, please sign in")
	}
	if !sess.Connected() {
		return nil, nil, newValidationError("no calendar provider connected")
	}
	if draft.CandidatePositionID == 0 {
		return nil, nil, newValidationError("no candidate selected")
	}
	if draft.Subject == "" {
		return nil, nil, newValidationError("subject is required")
	}
	if draft.StartDateTime == "" || draft.EndDateTime == "" {
		return nil, nil, newValidationError("start and end times are required")
	}
	adapter, ok := s.Adapters[sess.Connection.Provider]
	if !ok {
		return nil, nil, fmt.Errorf("no adapter registered for provider %q", sess.Connection.Provider)
	}
	return sess, adapter, nil
}

// SubmitCreate drives the create sequence: external calendar event first,
// then the backend record referencing its join link and id.
func (s *DefaultService) SubmitCreate(ctx context.Context, sessionID string, draft models.MeetingDraft) (*SubmitResult, error) {
	logger := utils.GetLogger()

	if !s.acquire(sessionID) {
		return nil, ErrSubmitInFlight
	}
	defer s.release(sessionID)

	sess, adapter, err := s.validate(ctx, sessionID, draft)
	if err != nil {
		return nil, err
	}

	result, err := adapter.CreateEvent(ctx, sess.Connection, draft)
	if err != nil {
		return nil, err
	}
	if !result.LinkAvailable {
		logger.Warn("proceeding without a join link",
			zap.String("eventId", result.ExternalEventID))
	}

	record, err := s.buildRecord(sess, draft, result)
	if err != nil {
		return nil, err
	}

	backendID, err := s.Backend.CreateMeeting(ctx, sessionID, sess.BackendToken, record)
	if err != nil {
		var persistErr *backendapi.PersistenceError
		if errors.As(err, &persistErr) {
			// The calendar event exists; only the backend record is missing.
			logger.Warn("backend save failed after calendar event creation",
				zap.String("eventId", result.ExternalEventID), zap.Int("status", persistErr.Status))
			return &SubmitResult{
				Status:          StatusWarning,
				ExternalEventID: result.ExternalEventID,
				JoinLink:        result.JoinLink,
				Message:         "calendar event created, but saving to the system failed",
			}, nil
		}
		return nil, err
	}

	logger.Info("meeting created",
		zap.String("backendId", backendID), zap.String("eventId", result.ExternalEventID))
	return &SubmitResult{
		Status:          StatusCreated,
		BackendID:       backendID,
		ExternalEventID: result.ExternalEventID,
		JoinLink:        result.JoinLink,
		Message:         "meeting created",
		ClearDraft:      true,
	}, nil
}

// SubmitUpdate computes the field diff and pushes only what changed, to the
// provider first and then the backend. An empty diff is a no-op with zero
// network calls.
func (s *DefaultService) SubmitUpdate(ctx context.Context, sessionID string, edit models.EditSession, current models.MeetingDraft) (*SubmitResult, error) {
	logger := utils.GetLogger()

	if !s.acquire(sessionID) {
		return nil, ErrSubmitInFlight
	}
	defer s.release(sessionID)

	sess, adapter, err := s.validate(ctx, sessionID, current)
	if err != nil {
		return nil, err
	}

	diff := models.DiffDrafts(edit.Original, current)
	if len(diff) == 0 {
		return &SubmitResult{Status: StatusNoop, Message: "nothing changed"}, nil
	}

	changes := calendar.EventChanges{}
	for _, field := range providerFields {
		if v, ok := diff[field]; ok {
			changes[field] = v
		}
	}
	if len(changes) > 0 {
		if err := adapter.UpdateEvent(ctx, sess.Connection, edit.ExternalEventID, changes); err != nil {
			return nil, err
		}
	}

	changed, err := s.backendChanges(sess, current, diff)
	if err != nil {
		return nil, err
	}
	if err := s.Backend.UpdateMeeting(ctx, sessionID, sess.BackendToken, edit.MeetingID, changed); err != nil {
		var persistErr *backendapi.PersistenceError
		if errors.As(err, &persistErr) && len(changes) > 0 {
			logger.Warn("backend update failed after calendar event update",
				zap.Int("meetingId", edit.MeetingID), zap.Int("status", persistErr.Status))
			return &SubmitResult{
				Status:          StatusWarning,
				ExternalEventID: edit.ExternalEventID,
				Message:         "calendar event updated, but saving to the system failed",
			}, nil
		}
		return nil, err
	}

	logger.Info("meeting updated", zap.Int("meetingId", edit.MeetingID))
	return &SubmitResult{
		Status:          StatusUpdated,
		ExternalEventID: edit.ExternalEventID,
		Message:         "meeting updated",
		ClearDraft:      true,
	}, nil
}

// buildRecord maps the draft and the provider result into the backend's
// persisted meeting shape.
func (s *DefaultService) buildRecord(sess *models.Session, draft models.MeetingDraft, result *calendar.EventResult) (models.MeetingRecord, error) {
	start, err := s.parseLocal(draft.StartDateTime)
	if err != nil {
		return models.MeetingRecord{}, err
	}
	end, err := s.parseLocal(draft.EndDateTime)
	if err != nil {
		return models.MeetingRecord{}, err
	}

	meetingResult := draft.Description
	if meetingResult == "" {
		meetingResult = defaultMeetingResult
	}

	userInfoID := draft.UserInfoID
	if userInfoID == 0 {
		userInfoID = s.DefaultUserInfoID
	}

	return models.MeetingRecord{
		TenantID:            sess.TenantID,
		CandidatePositionID: draft.CandidatePositionID,
		Title:               draft.Subject,
		MeetingDate:         start.UTC().Format(time.RFC3339),
		AllDay:              false,
		StartTime:           start.Format("15:04"),
		EndTime:             end.Format("15:04"),
		Color:               1,
		MeetingResult:       meetingResult,
		MeetingUsers:        []models.MeetingUser{{UserInfoID: userInfoID}},
		URL:                 result.MeetingURL(),
		ExternalID:          result.ExternalEventID,
	}, nil
}

// backendChanges maps the draft diff onto backend field names, always
// carrying the mandatory tenantId and candidatePositionId.
func (s *DefaultService) backendChanges(sess *models.Session, current models.MeetingDraft, diff map[string]string) (map[string]any, error) {
	changed := map[string]any{
		"tenantId":            sess.TenantID,
		"candidatePositionId": current.CandidatePositionID,
	}
	if v, ok := diff["subject"]; ok {
		changed["title"] = v
	}
	if v, ok := diff["description"]; ok {
		if v == "" {
			v = defaultMeetingResult
		}
		changed["meetingResult"] = v
	}
	if v, ok := diff["startDateTime"]; ok {
		start, err := s.parseLocal(v)
		if err != nil {
			return nil, err
		}
		changed["meetingDate"] = start.UTC().Format(time.RFC3339)
		changed["startTime"] = start.Format("15:04")
	}
	if v, ok := diff["endDateTime"]; ok {
		end, err := s.parseLocal(v)
		if err != nil {
			return nil, err
		}
		changed["endTime"] = end.Format("15:04")
	}
	return changed, nil
}

func (s *DefaultService) parseLocal(value string) (time.Time, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(draftLayout, value, loc)
	if err != nil {
		return time.Time{}, newValidationError(fmt.Sprintf("invalid date-time %q", value))
	}
	return t, nil
}
