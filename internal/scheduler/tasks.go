package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskItemChanged = "matching.item_changed"

const TaskCallAlert = "matching.call_alert"

type ItemChangedPayload struct {
	ItemID   string `json:"itemId"`
	Category string `json:"categoria"`
}

type CallAlertPayload struct {
	CallID string `json:"chamadaId"`
}

func NewItemChangedTask(payload ItemChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskItemChanged, data), nil
}

func ParseItemChangedPayload(task *asynq.Task) (ItemChangedPayload, error) {
	var payload ItemChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ItemChangedPayload{}, err
	}
	return payload, nil
}

func NewCallAlertTask(payload CallAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallAlert, data), nil
}

func ParseCallAlertPayload(task *asynq.Task) (CallAlertPayload, error) {
	var payload CallAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CallAlertPayload{}, err
	}
	return payload, nil
}
