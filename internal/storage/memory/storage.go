// Package memory keeps users, sessions and tasks in process memory.
// Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

type Storage struct {
	mu sync.RWMutex

	nextUserID int64
	nextTaskID int64

	users    map[int64]models.User
	sessions map[string]models.Session
	tasks    map[int64]models.Task
}

func New() *Storage {
	return &Storage{
		nextUserID: 1,
		nextTaskID: 1,
		users:      make(map[int64]models.User),
		sessions:   make(map[string]models.Session),
		tasks:      make(map[int64]models.Task),
	}
}

func (s *Storage) Migrate(context.Context) error {
	return nil
}

func (s *Storage) Close() {}

func (s *Storage) Ping(context.Context) error {
	return nil
}

// Users

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return services.ErrUserAlreadyExists
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByID(_ context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func (s *Storage) CountUsers(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.users)), nil
}

// Sessions

func (s *Storage) ReplaceUserSessions(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.sessions {
		if existing.UserID == session.UserID {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) GetSessionByRefreshToken(_ context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.RefreshToken == refreshToken && session.Fingerprint == fingerprint {
			return &session, nil
		}
	}
	return nil, services.ErrSessionNotFound
}

func (s *Storage) UpdateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[session.ID]
	if !ok {
		return services.ErrSessionNotFound
	}
	existing.RefreshToken = session.RefreshToken
	existing.ExpiresAt = session.ExpiresAt
	existing.UpdatedAt = session.UpdatedAt
	s.sessions[session.ID] = existing
	return nil
}

func (s *Storage) DeleteSessionsByUserID(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			affected++
		}
	}
	return affected, nil
}

// Tasks

func cloneTask(t models.Task) *models.Task {
	out := t
	if t.ParentID != nil {
		parentID := *t.ParentID
		out.ParentID = &parentID
	}
	if t.Deadline != nil {
		deadline := *t.Deadline
		out.Deadline = &deadline
	}
	out.Subtasks = nil
	out.SubtaskCount = 0
	return &out
}

func (s *Storage) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextTaskID
	s.nextTaskID++
	s.tasks[task.ID] = *cloneTask(*task)
	return nil
}

func (s *Storage) GetTask(_ context.Context, userID, taskID int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, services.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (s *Storage) UpdateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return services.ErrTaskNotFound
	}
	updated := cloneTask(*task)
	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Deadline = updated.Deadline
	s.tasks[task.ID] = existing
	return nil
}

func (s *Storage) ToggleTaskCompleted(_ context.Context, userID, taskID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return false, services.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	s.tasks[taskID] = task
	return task.Completed, nil
}

func (s *Storage) DeleteTask(_ context.Context, userID, taskID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtasks int64
	for id, task := range s.tasks {
		if task.UserID == userID && task.ParentID != nil && *task.ParentID == taskID {
			delete(s.tasks, id)
			subtasks++
		}
	}

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return subtasks, services.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return subtasks, nil
}

func (s *Storage) ListTopLevelTasksByDate(_ context.Context, userID int64, date time.Time, completed bool) ([]*models.Task, error) {
	return s.listTopLevel(userID, func(t models.Task) bool {
		return t.CreatedDate.Equal(date) && t.Completed == completed
	}), nil
}

func (s *Storage) ListIncompleteTasksBefore(_ context.Context, userID int64, date time.Time) ([]*models.Task, error) {
	return s.listTopLevel(userID, func(t models.Task) bool {
		return t.CreatedDate.Before(date) && !t.Completed
	}), nil
}

func (s *Storage) listTopLevel(userID int64, match func(models.Task) bool) []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Task, 0)
	for _, task := range s.tasks {
		if task.UserID != userID || task.ParentID != nil || !match(task) {
			continue
		}
		t := cloneTask(task)
		t.SubtaskCount = s.countSubtasks(userID, task.ID)
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Storage) countSubtasks(userID, parentID int64) int {
	var n int
	for _, task := range s.tasks {
		if task.UserID == userID && task.ParentID != nil && *task.ParentID == parentID {
			n++
		}
	}
	return n
}

func (s *Storage) ListSubtasks(_ context.Context, userID, parentID int64) ([]models.Subtask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Subtask, 0)
	for _, task := range s.tasks {
		if task.UserID != userID || task.ParentID == nil || *task.ParentID != parentID {
			continue
		}
		out = append(out, models.Subtask{
			ID:        task.ID,
			Title:     task.Title,
			Completed: task.Completed,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Storage) CarryOverTask(_ context.Context, userID, taskID int64, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return false, nil
	}
	task.CreatedDate = date
	s.tasks[taskID] = task

	for id, sub := range s.tasks {
		if sub.UserID == userID && sub.ParentID != nil && *sub.ParentID == taskID {
			sub.CreatedDate = date
			s.tasks[id] = sub
		}
	}
	return true, nil
}

func (s *Storage) CountTasks(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.tasks)), nil
}
