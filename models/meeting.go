package models

// MeetingDraft is the user-editable meeting form state. Date-times are local
// wall-clock ("2006-01-02T15:04"); the timezone is fixed per provider at
// submission time.
type MeetingDraft struct {
	Subject               string `json:"subject"`
	Description           string `json:"description"`
	StartDateTime         string `json:"startDateTime"`
	EndDateTime           string `json:"endDateTime"`
	AttendeeEmail         string `json:"attendeeEmail"`
	CandidatePositionID   int    `json:"candidatePositionId"`
	TenantID              int    `json:"tenantId"`
	UserInfoID            int    `json:"userInfoId"`
	SelectedCandidateName string `json:"selectedCandidateName"`
}

// EditSession promotes a draft into update mode: the original snapshot plus
// the ids needed to address the existing records.
type EditSession struct {
	Original        MeetingDraft `json:"original"`
	MeetingID       int          `json:"meetingId"`
	ExternalEventID string       `json:"externalEventId"`
}

// DiffDrafts computes the shallow field diff between an original snapshot
// and the current draft. Only keys whose values differ appear; identical
// drafts yield an empty map.
func DiffDrafts(original, current MeetingDraft) map[string]string {
	diff := make(map[string]string)
	if current.Subject != original.Subject {
		diff["subject"] = current.Subject
	}
	if current.Description != original.Description {
		diff["description"] = current.Description
	}
	if current.StartDateTime != original.StartDateTime {
		diff["startDateTime"] = current.StartDateTime
	}
	if current.EndDateTime != original.EndDateTime {
		diff["endDateTime"] = current.EndDateTime
	}
	if current.AttendeeEmail != original.AttendeeEmail {
		diff["attendeeEmail"] = current.AttendeeEmail
	}
	return diff
}

// MeetingUser links a meeting record to a backend user.
type MeetingUser struct {
	UserInfoID int `json:"userInfoId"`
}

// MeetingRecord is the backend's persisted representation of a meeting.
type MeetingRecord struct {
	ID                  int           `json:"id,omitempty"`
	TenantID            int           `json:"tenantId"`
	CandidatePositionID int           `json:"candidatePositionId"`
	Title               string        `json:"title"`
	MeetingDate         string        `json:"meetingDate"`
	AllDay              bool          `json:"allDay"`
	StartTime           string        `json:"startTime"`
	EndTime             string        `json:"endTime"`
	Color               int           `json:"color"`
	MeetingResult       string        `json:"meetingResult"`
	MeetingUsers        []MeetingUser `json:"candidatePositionMeetingUsers"`
	URL                 string        `json:"url"`
	ExternalID          string        `json:"externalId,omitempty"`
}
