package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Ask submits a question to the chat pipeline. The answer is produced
// asynchronously; poll the returned task with GetTaskStatus (or
// task.Await) until it completes.
func (c *Client) Ask(ctx context.Context, courseID, question string) (*TaskRef, error) {
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	var ref TaskRef

	req := AskRequest{CourseID: courseID, Question: question}
	if err := c.do(ctx, http.MethodPost, pathChatAsk, req, &ref); err != nil {
		return nil, fmt.Errorf("submitting question: %w", err)
	}

	if ref.TaskID == "" {
		return nil, fmt.Errorf("backend returned no task id")
	}

	c.log.WithField("task_id", ref.TaskID).Debug("Question submitted")

	return &ref, nil
}

// GetTaskStatus returns the current status of an asynchronous task. Its
// signature satisfies task.StatusFunc.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id must not be empty")
	}

	var status TaskStatus

	path := fmt.Sprintf(pathTaskFmt, url.PathEscape(taskID))
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, fmt.Errorf("fetching task status: %w", err)
	}

	return &status, nil
}

// DecodeAnswer decodes the result of a completed chat task.
func DecodeAnswer(status *TaskStatus) (*ChatAnswer, error) {
	if status.Status != TaskStateCompleted {
		return nil, fmt.Errorf("task %s is %s, not completed", status.TaskID, status.Status)
	}

	var answer ChatAnswer
	if err := json.Unmarshal(status.Result, &answer); err != nil {
		return nil, fmt.Errorf("decoding chat answer: %w", err)
	}

	return &answer, nil
}
