package goal

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandDefine            command.Type = "goal.define"
	CommandSetTarget         command.Type = "goal.set_target"
	CommandUpdate            command.Type = "goal.update"
	CommandSetArea           command.Type = "goal.set_area"
	CommandSetParent         command.Type = "goal.set_parent"
	CommandArchive           command.Type = "goal.archive"
	CommandLogProgress       command.Type = "goal.log_progress"
	CommandAddKeyResult      command.Type = "goal.add_key_result"
	CommandUpdateKeyResult   command.Type = "goal.update_key_result"
	CommandAddMilestone      command.Type = "goal.add_milestone"
	CommandCompleteMilestone command.Type = "goal.complete_milestone"
)

const dateLayout = "2006-01-02"

// Decide returns the decision for a goal command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandDefine:
		var payload DefinePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalTitleEmpty,
				Message: "goal title is required",
			})
		}
		payload.Description = strings.TrimSpace(payload.Description)
		payload.Area = strings.TrimSpace(payload.Area)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventDefined, payloadJSON, now().UTC()))

	case CommandSetTarget:
		if rejection, ok := requireLiveGoal(state); !ok {
			return command.Reject(rejection)
		}
		var payload TargetPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.TargetDate = strings.TrimSpace(payload.TargetDate)
		if payload.TargetDate == "" && payload.TargetValue == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalTargetInvalid,
				Message: "target requires a date or a value",
			})
		}
		if payload.TargetDate != "" {
			if _, err := time.Parse(dateLayout, payload.TargetDate); err != nil {
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeGoalTargetInvalid,
					Message: "target date must be YYYY-MM-DD",
				})
			}
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTargetSet, payloadJSON, now().UTC()))

	case CommandUpdate:
		if rejection, ok := requireLiveGoal(state); !ok {
			return command.Reject(rejection)
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalTargetInvalid,
				Message: "goal update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "title":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeGoalTitleEmpty,
						Message: "goal title is required",
					})
				}
				normalized[key] = trimmed
			case "description", "current_value":
				normalized[key] = strings.TrimSpace(value)
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeGoalTargetInvalid,
					Message: "goal update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandSetArea:
		if rejection, ok := requireLiveGoal(state); !ok {
			return command.Reject(rejection)
		}
		var payload AreaPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Area = strings.TrimSpace(payload.Area)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventAreaSet, payloadJSON, now().UTC()))

	case CommandSetParent:
		if rejection, ok := requireLiveGoal(state); !ok {
			return command.Reject(rejection)
		}
		var payload ParentPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if payload.ParentID <= 0 || payload.ParentID == state.ID {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalParentNotFound,
				Message: "parent goal id is invalid",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventParentSet, payloadJSON, now().UTC()))

	case CommandArchive:
		if !state.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalNotFound,
				Message: "goal does not exist",
			})
		}
		if state.Status == StatusArchived {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeGoalArchived,
				Message: "goal is already archived",
			})
		}
		return command.Accept(command.NewEvent(cmd, EventArchived, []byte(`{}`), now().UTC()))

	case CommandLogProgress:
		if rejection, ok := requireLiveGoal(state); !ok {
			return command.Reject(rejection)
		}
		var payload ProgressPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Note = strings.TrimSpace(payload.Note)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventProgressLogged, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

// DecideKeyResult returns the decision for a key result command. The parent
// goal state guards creation.
func DecideKeyResult(kr KeyResult, parent State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandAddKeyResult:
		if rejection, ok := requireLiveGoal(parent); !ok {
			return command.Reject(rejection)
		}
		var payload KeyResultAddPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.GoalID = parent.ID
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeKeyResultTitleEmpty,
				Message: "key result title is required",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventKeyResultAdded, payloadJSON, now().UTC()))

	case CommandUpdateKeyResult:
		if !kr.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeKeyResultNotFound,
				Message: "key result does not exist",
			})
		}
		var payload KeyResultUpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventKeyResultUpdated, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

// DecideMilestone returns the decision for a milestone command.
func DecideMilestone(ms Milestone, parent State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandAddMilestone:
		if rejection, ok := requireLiveGoal(parent); !ok {
			return command.Reject(rejection)
		}
		var payload MilestoneAddPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.GoalID = parent.ID
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeMilestoneTitleEmpty,
				Message: "milestone title is required",
			})
		}
		payload.DueDate = strings.TrimSpace(payload.DueDate)
		if payload.DueDate != "" {
			if _, err := time.Parse(dateLayout, payload.DueDate); err != nil {
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeGoalTargetInvalid,
					Message: "milestone due date must be YYYY-MM-DD",
				})
			}
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventMilestoneAdded, payloadJSON, now().UTC()))

	case CommandCompleteMilestone:
		if !ms.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeMilestoneNotFound,
				Message: "milestone does not exist",
			})
		}
		if ms.Completed {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeMilestoneCompleted,
				Message: "milestone is already completed",
			})
		}
		payloadJSON, _ := json.Marshal(MilestoneCompletePayload{
			CompletedAt: now().UTC().Format(time.RFC3339),
		})
		return command.Accept(command.NewEvent(cmd, EventMilestoneCompleted, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func requireLiveGoal(state State) (command.Rejection, bool) {
	if !state.Created {
		return command.Rejection{
			Code:    apperrors.CodeGoalNotFound,
			Message: "goal does not exist",
		}, false
	}
	if state.Status == StatusArchived {
		return command.Rejection{
			Code:    apperrors.CodeGoalArchived,
			Message: "goal is archived",
		}, false
	}
	return command.Rejection{}, true
}
