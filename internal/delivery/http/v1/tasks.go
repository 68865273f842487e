package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

type subtaskResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type taskSummaryResponse struct {
	ID           int64   `json:"id"`
	ParentID     *int64  `json:"parent_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Deadline     *string `json:"deadline"`
	CreatedDate  string  `json:"created_date"`
	Completed    bool    `json:"completed"`
	SubtaskCount int     `json:"subtask_count"`
}

type taskResponse struct {
	taskSummaryResponse
	Subtasks []subtaskResponse `json:"subtasks"`
}

func newTaskSummaryResponse(task *models.Task) taskSummaryResponse {
	resp := taskSummaryResponse{
		ID:           task.ID,
		ParentID:     task.ParentID,
		Title:        task.Title,
		Description:  task.Description,
		CreatedDate:  models.FormatDate(task.CreatedDate),
		Completed:    task.Completed,
		SubtaskCount: task.SubtaskCount,
	}
	if task.Deadline != nil {
		deadline := models.FormatDate(*task.Deadline)
		resp.Deadline = &deadline
	}
	return resp
}

func newTaskResponse(task *models.Task) taskResponse {
	subtasks := make([]subtaskResponse, len(task.Subtasks))
	for i, subtask := range task.Subtasks {
		subtasks[i] = subtaskResponse{
			ID:        subtask.ID,
			Title:     subtask.Title,
			Completed: subtask.Completed,
		}
	}
	return taskResponse{
		taskSummaryResponse: newTaskSummaryResponse(task),
		Subtasks:            subtasks,
	}
}

type dailyViewResponse struct {
	Date       string                `json:"date"`
	Incomplete []taskResponse        `json:"incomplete"`
	Completed  []taskResponse        `json:"completed"`
	CarryOver  []taskSummaryResponse `json:"carry_over"`
}

func newDailyViewResponse(view *models.DailyView) dailyViewResponse {
	resp := dailyViewResponse{
		Date:       models.FormatDate(view.Date),
		Incomplete: make([]taskResponse, len(view.Incomplete)),
		Completed:  make([]taskResponse, len(view.Completed)),
		CarryOver:  make([]taskSummaryResponse, len(view.CarryOver)),
	}
	for i, task := range view.Incomplete {
		resp.Incomplete[i] = newTaskResponse(task)
	}
	for i, task := range view.Completed {
		resp.Completed[i] = newTaskResponse(task)
	}
	for i, task := range view.CarryOver {
		resp.CarryOver[i] = newTaskSummaryResponse(task)
	}
	return resp
}

func (h *handlerImpl) HandleGetDailyView(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	view, err := h.tasks.GetDailyView(c, userID, h.calendar.Today())
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to build daily view")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newDailyViewResponse(view))
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"max=255"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	ParentID    *int64 `json:"parent_id"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, userID, taskID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type toggleTaskResponse struct {
	ID        int64 `json:"id"`
	Completed bool  `json:"completed"`
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	completed, err := h.tasks.ToggleComplete(c, userID, taskID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, toggleTaskResponse{
		ID:        taskID,
		Completed: completed,
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type carryOverRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

func (h *handlerImpl) HandleCarryOver(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	var req carryOverRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	carried, err := h.tasks.CarryOver(c, userID, h.calendar.Today(), req.TaskIDs)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"carried_over": carried,
	})
}

func (h *handlerImpl) taskIDParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		h.logger.Error().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}
	return taskID, true
}
