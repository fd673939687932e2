// Package errors provides structured error handling for Atlas domains.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Spine errors
	CodeNotFound              Code = "NOT_FOUND"
	CodePersistenceFailed     Code = "PERSISTENCE_FAILED"
	CodeQueryFailed           Code = "QUERY_FAILED"
	CodeProjectionInconsistent Code = "PROJECTION_INCONSISTENT"
	CodeEventTypeEmpty        Code = "EVENT_TYPE_EMPTY"
	CodeEntityTypeUnknown     Code = "ENTITY_TYPE_UNKNOWN"
	CodeEventTypeUnknown      Code = "EVENT_TYPE_UNKNOWN"
	CodeEntityIDInvalid       Code = "ENTITY_ID_INVALID"
	CodePayloadInvalid        Code = "PAYLOAD_INVALID"

	// Goal errors
	CodeGoalTitleEmpty       Code = "GOAL_TITLE_EMPTY"
	CodeGoalNotFound         Code = "GOAL_NOT_FOUND"
	CodeGoalArchived         Code = "GOAL_ARCHIVED"
	CodeGoalParentNotFound   Code = "GOAL_PARENT_NOT_FOUND"
	CodeGoalTargetInvalid    Code = "GOAL_TARGET_INVALID"
	CodeKeyResultNotFound    Code = "KEY_RESULT_NOT_FOUND"
	CodeKeyResultTitleEmpty  Code = "KEY_RESULT_TITLE_EMPTY"
	CodeMilestoneNotFound    Code = "MILESTONE_NOT_FOUND"
	CodeMilestoneTitleEmpty  Code = "MILESTONE_TITLE_EMPTY"
	CodeMilestoneCompleted   Code = "MILESTONE_ALREADY_COMPLETED"

	// Task errors
	CodeTaskTitleEmpty     Code = "TASK_TITLE_EMPTY"
	CodeTaskNotFound       Code = "TASK_NOT_FOUND"
	CodeTaskAlreadyClosed  Code = "TASK_ALREADY_CLOSED"
	CodeTaskUpdateEmpty    Code = "TASK_UPDATE_EMPTY"
	CodeTaskMinutesInvalid Code = "TASK_MINUTES_INVALID"

	// Note errors
	CodeNoteTitleEmpty  Code = "NOTE_TITLE_EMPTY"
	CodeNoteNotFound    Code = "NOTE_NOT_FOUND"
	CodeNoteArchived    Code = "NOTE_ARCHIVED"
	CodeNoteUpdateEmpty Code = "NOTE_UPDATE_EMPTY"

	// Habit errors
	CodeHabitNameEmpty        Code = "HABIT_NAME_EMPTY"
	CodeHabitNotFound         Code = "HABIT_NOT_FOUND"
	CodeHabitArchived         Code = "HABIT_ARCHIVED"
	CodeHabitAlreadyChecked   Code = "HABIT_ALREADY_CHECKED"
	CodeHabitNotChecked       Code = "HABIT_NOT_CHECKED"
	CodeHabitDateInvalid      Code = "HABIT_DATE_INVALID"
	CodeHabitFrequencyInvalid Code = "HABIT_FREQUENCY_INVALID"

	// Contact errors
	CodeContactNameEmpty   Code = "CONTACT_NAME_EMPTY"
	CodeContactNotFound    Code = "CONTACT_NOT_FOUND"
	CodeContactArchived    Code = "CONTACT_ARCHIVED"
	CodeContactDateInvalid Code = "CONTACT_DATE_INVALID"

	// Publication errors
	CodePublicationTitleEmpty        Code = "PUBLICATION_TITLE_EMPTY"
	CodePublicationNotFound          Code = "PUBLICATION_NOT_FOUND"
	CodePublicationInvalidVenue      Code = "PUBLICATION_INVALID_VENUE"
	CodePublicationInvalidTransition Code = "PUBLICATION_INVALID_STATUS_TRANSITION"
	CodePublicationUpdateEmpty       Code = "PUBLICATION_UPDATE_EMPTY"

	// Auth errors
	CodeAuthTokenMissing Code = "AUTH_TOKEN_MISSING"
	CodeAuthTokenInvalid Code = "AUTH_TOKEN_INVALID"
)

// HTTPStatus maps domain codes to HTTP status codes for the API surface.
// Unlisted codes are validation failures and map to 400.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound,
		CodeGoalNotFound,
		CodeGoalParentNotFound,
		CodeKeyResultNotFound,
		CodeMilestoneNotFound,
		CodeTaskNotFound,
		CodeNoteNotFound,
		CodeHabitNotFound,
		CodeContactNotFound,
		CodePublicationNotFound:
		return http.StatusNotFound

	case CodeAuthTokenMissing, CodeAuthTokenInvalid:
		return http.StatusUnauthorized

	case CodeUnknown,
		CodePersistenceFailed,
		CodeQueryFailed,
		CodeProjectionInconsistent:
		return http.StatusInternalServerError

	default:
		return http.StatusBadRequest
	}
}
