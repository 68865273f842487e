package models

import "time"

// Task is a to-do item. A nil ParentID marks a top-level task.
//
// SubtaskCount and Subtasks are derived on read and never persisted.
type Task struct {
	ID          int64
	UserID      int64
	ParentID    *int64
	Title       string
	Description string
	Deadline    *time.Time
	CreatedDate time.Time
	Completed   bool

	SubtaskCount int
	Subtasks     []Subtask
}

type Subtask struct {
	ID        int64
	Title     string
	Completed bool
}

// DailyView groups a user's top-level tasks relative to a calendar day.
type DailyView struct {
	Date       time.Time
	Incomplete []*Task
	Completed  []*Task
	CarryOver  []*Task
}
